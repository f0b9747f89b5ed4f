package application

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/viajante/journal/internal/domain/entity"
)

var ErrChatUnavailable = errors.New("chat provider unavailable")

// ChatService issues Stream Chat credentials for logged-in users. Stream
// user tokens are plain HS256 JWTs signed with the API secret, so they
// are minted locally; user upsert goes through Stream's REST API with a
// server-side token.
type ChatService struct {
	APIKey     string
	APISecret  string
	BaseURL    string
	HTTPClient *http.Client
}

func NewChatService(apiKey, apiSecret, baseURL string) *ChatService {
	return &ChatService{
		APIKey:     apiKey,
		APISecret:  apiSecret,
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *ChatService) configured() bool {
	return s.APIKey != "" && s.APISecret != ""
}

// UserToken mints the caller's chat token.
func (s *ChatService) UserToken(userID string) (string, error) {
	if !s.configured() {
		return "", ErrChatUnavailable
	}
	if userID == "" {
		return "", ErrNotAuthenticated
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": userID})
	return t.SignedString([]byte(s.APISecret))
}

func (s *ChatService) serverToken() (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"server": true})
	return t.SignedString([]byte(s.APISecret))
}

// UpsertUser mirrors the profile into Stream so the account can join
// channels.
func (s *ChatService) UpsertUser(ctx context.Context, u *entity.User) error {
	if !s.configured() {
		return ErrChatUnavailable
	}
	token, err := s.serverToken()
	if err != nil {
		return err
	}
	payload := map[string]any{
		"users": map[string]any{
			u.ID: map[string]any{
				"id":    u.ID,
				"name":  u.Name,
				"image": u.AvatarURL,
				"email": u.Email,
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("%s/users?api_key=%s", s.BaseURL, s.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", token)
	req.Header.Set("Stream-Auth-Type", "jwt")

	res, err := s.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrChatUnavailable, err)
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrChatUnavailable, res.StatusCode)
	}
	return nil
}
