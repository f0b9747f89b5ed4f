package application

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/viajante/journal/internal/domain/entity"
	"github.com/viajante/journal/internal/domain/repository"
	"github.com/viajante/journal/pkg/helpers"
	"github.com/viajante/journal/pkg/mailer"
)

// Default display names for social accounts that expose nothing usable,
// matching the labels the front end has always shown.
const (
	defaultSocialName  = "Usuário"
	googleDefaultNick  = "Um usuário do Google"
	fbDefaultNick      = "Um usuário do Facebook"
	verifyTokenKind    = "email:verify"
	resetTokenKind     = "pwd:reset"
	verifyTokenTTL     = 24 * time.Hour
	resetTokenTTL      = 30 * time.Minute
)

// AuthService is the single source of truth for who is logged in and
// what they may do. It owns every profile write triggered from a
// credential flow.
type AuthService struct {
	Repo     repository.UserRepository
	JWT      *helpers.JWTManager
	Sessions SessionStore
	Tokens   TokenStore
	Mail     Publisher
	Google   SocialVerifier
	Facebook SocialVerifier
	Logger   *logrus.Logger

	AppName         string
	VerifyEmailURL  string
	ResetPassURL    string
	MailSendEnabled bool
}

type TokenPair struct {
	AccessToken        string
	AccessTokenExpiry  time.Time
	RefreshToken       string
	RefreshTokenExpiry time.Time
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Nick     string
}

// Register creates the account and its profile, then runs the
// verification gate: a verification email goes out and no session is
// opened. The fresh profile is never admin-flagged.
//
// If the profile row is written but the verification mail fails to
// enqueue, the account stays unverified until the next login re-triggers
// the gate; there is no compensating delete.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Email:    in.Email,
		Password: hash,
		Name:     in.Name,
		Nick:     in.Nick,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.sendVerification(ctx, u)
	return u, nil
}

// Login exchanges email credentials for a session, gated on email
// verification: an unverified account gets a fresh verification email
// and no tokens, leaving it effectively logged out.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if !u.IsVerified {
		s.sendVerification(ctx, u)
		return nil, TokenPair{}, ErrEmailNotVerified
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// SocialLogin validates a provider credential, merges the asserted
// profile into the user store and opens a session. The merge never
// touches the admin flag and only fills profile fields the provider
// actually supplied.
func (s *AuthService) SocialLogin(ctx context.Context, provider, credential string) (*entity.User, TokenPair, error) {
	var (
		verifier    SocialVerifier
		defaultNick string
	)
	switch provider {
	case "google":
		verifier, defaultNick = s.Google, googleDefaultNick
	case "facebook":
		verifier, defaultNick = s.Facebook, fbDefaultNick
	default:
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if verifier == nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	id, err := verifier.Verify(ctx, credential)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("provider", provider).Warn("social credential rejected")
		}
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if id.Email == "" {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	name := id.Name
	if name == "" {
		name = defaultSocialName
	}
	u := &entity.User{
		Email:      id.Email,
		Name:       name,
		Nick:       defaultNick,
		AvatarURL:  id.AvatarURL,
		IsVerified: id.Verified,
	}
	if err := s.Repo.Upsert(ctx, u); err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// IssueTokens generates the access/refresh pair and records the session.
func (s *AuthService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	access, aexp, err := s.JWT.GenerateAccessToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(u.ID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	fields := map[string]string{
		"user_id": u.ID,
		"email":   u.Email,
		"name":    u.Name,
		"nick":    u.Nick,
	}
	if err := s.Sessions.Save(ctx, u.ID, sid, fields); err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}

// Refresh rotates the token pair when the refresh token matches the
// live session.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*entity.User, TokenPair, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	u, err := s.Repo.GetByID(ctx, claims.UserID)
	if err != nil || u == nil {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	sess, err := s.Sessions.Get(ctx, u.ID)
	if err != nil || len(sess) == 0 || sess["sid"] != claims.SessionID {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// Logout drops the session. Calling it without one is a no-op.
func (s *AuthService) Logout(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	if err := s.Sessions.Delete(ctx, userID); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", userID).Warn("session delete failed")
	}
}

// GetProfile is the single-shot profile lookup for the current user.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

type UpdateProfileInput struct {
	Name      string
	Nick      string
	AvatarURL string
}

// UpdateProfile merges the supplied fields into the caller's profile.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (*entity.User, error) {
	u, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Nick != "" {
		u.Nick = in.Nick
	}
	if in.AvatarURL != "" {
		u.AvatarURL = in.AvatarURL
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// IsAdmin maps the profile's admin flag to a boolean. A missing profile
// resolves to false, never an error.
func (s *AuthService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return u != nil && u.IsAdmin, nil
}

// ConfirmVerification consumes a verification token and flips the flag.
func (s *AuthService) ConfirmVerification(ctx context.Context, token string) error {
	uid, err := s.Tokens.Take(ctx, verifyTokenKind, token)
	if err != nil {
		return err
	}
	if uid == "" {
		return ErrInvalidCredentials
	}
	return s.Repo.SetVerified(ctx, uid)
}

// RecoverPassword dispatches a reset email for known addresses. The
// result is identical for unknown addresses so the endpoint cannot be
// used to probe which emails exist.
func (s *AuthService) RecoverPassword(ctx context.Context, email string) error {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		if s.Logger != nil {
			s.Logger.WithField("email", email).Info("password reset requested for unknown email")
		}
		return nil
	}
	tok, err := genToken(32)
	if err != nil {
		return err
	}
	if err := s.Tokens.Set(ctx, resetTokenKind, tok, u.ID, resetTokenTTL); err != nil {
		return err
	}
	s.enqueueMail(ctx, u, mailer.TemplateResetPassword, s.ResetPassURL+"?token="+tok)
	return nil
}

// ResetPassword consumes a reset token and stores the new hash.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	uid, err := s.Tokens.Take(ctx, resetTokenKind, token)
	if err != nil {
		return err
	}
	if uid == "" {
		return ErrInvalidCredentials
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Repo.UpdatePassword(ctx, uid, hash)
}

// sendVerification issues a fresh token and enqueues the verification
// email. Failures are logged, not surfaced: the caller's response is the
// same either way and a later login retries the gate.
func (s *AuthService) sendVerification(ctx context.Context, u *entity.User) {
	tok, err := genToken(32)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("verification token generation failed")
		}
		return
	}
	if err := s.Tokens.Set(ctx, verifyTokenKind, tok, u.ID, verifyTokenTTL); err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("verification token store failed")
		}
		return
	}
	s.enqueueMail(ctx, u, mailer.TemplateVerifyEmail, s.VerifyEmailURL+"?token="+tok)
}

func (s *AuthService) enqueueMail(ctx context.Context, u *entity.User, template, link string) {
	if s.Mail == nil || !s.MailSendEnabled {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: template,
		Data: map[string]any{
			"Name":    u.Name,
			"Link":    link,
			"AppName": s.AppName,
		},
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("template", template).Warn("email enqueue failed")
	}
}

func genToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
