package application

import (
	"context"
	"io"
	"time"

	"github.com/viajante/journal/internal/domain/entity"
	"github.com/viajante/journal/internal/domain/repository"
	"github.com/viajante/journal/internal/infrastructure/social"
)

type userRepoMock struct {
	CreateFn         func(ctx context.Context, u *entity.User) error
	UpsertFn         func(ctx context.Context, u *entity.User) error
	GetByIDFn        func(ctx context.Context, id string) (*entity.User, error)
	GetByEmailFn     func(ctx context.Context, email string) (*entity.User, error)
	UpdateFn         func(ctx context.Context, u *entity.User) error
	UpdatePasswordFn func(ctx context.Context, id, hash string) error
	SetVerifiedFn    func(ctx context.Context, id string) error
}

func (m *userRepoMock) Create(ctx context.Context, u *entity.User) error {
	return m.CreateFn(ctx, u)
}
func (m *userRepoMock) Upsert(ctx context.Context, u *entity.User) error {
	return m.UpsertFn(ctx, u)
}
func (m *userRepoMock) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return m.GetByIDFn(ctx, id)
}
func (m *userRepoMock) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return m.GetByEmailFn(ctx, email)
}
func (m *userRepoMock) Update(ctx context.Context, u *entity.User) error {
	return m.UpdateFn(ctx, u)
}
func (m *userRepoMock) UpdatePassword(ctx context.Context, id, hash string) error {
	return m.UpdatePasswordFn(ctx, id, hash)
}
func (m *userRepoMock) SetVerified(ctx context.Context, id string) error {
	return m.SetVerifiedFn(ctx, id)
}

type diaryRepoMock struct {
	CreateFn          func(ctx context.Context, d *entity.Diary) error
	GetByIDFn         func(ctx context.Context, id string) (*entity.Diary, error)
	ListAllFn         func(ctx context.Context) ([]entity.Diary, error)
	ListByUserFn      func(ctx context.Context, userID string) ([]entity.Diary, error)
	UpdateFn          func(ctx context.Context, d *entity.Diary) error
	DeleteFn          func(ctx context.Context, id string) error
	LastPostsFn       func(ctx context.Context, limit int) ([]entity.Diary, error)
	CountByLocationFn func(ctx context.Context) ([]entity.LocationCount, error)
	CountByDayFn      func(ctx context.Context, since time.Time) ([]entity.DayCount, error)
}

func (m *diaryRepoMock) Create(ctx context.Context, d *entity.Diary) error {
	return m.CreateFn(ctx, d)
}
func (m *diaryRepoMock) GetByID(ctx context.Context, id string) (*entity.Diary, error) {
	return m.GetByIDFn(ctx, id)
}
func (m *diaryRepoMock) ListAll(ctx context.Context) ([]entity.Diary, error) {
	return m.ListAllFn(ctx)
}
func (m *diaryRepoMock) ListByUser(ctx context.Context, userID string) ([]entity.Diary, error) {
	return m.ListByUserFn(ctx, userID)
}
func (m *diaryRepoMock) Update(ctx context.Context, d *entity.Diary) error {
	return m.UpdateFn(ctx, d)
}
func (m *diaryRepoMock) Delete(ctx context.Context, id string) error {
	return m.DeleteFn(ctx, id)
}
func (m *diaryRepoMock) LastPosts(ctx context.Context, limit int) ([]entity.Diary, error) {
	return m.LastPostsFn(ctx, limit)
}
func (m *diaryRepoMock) CountByLocation(ctx context.Context) ([]entity.LocationCount, error) {
	return m.CountByLocationFn(ctx)
}
func (m *diaryRepoMock) CountByDay(ctx context.Context, since time.Time) ([]entity.DayCount, error) {
	return m.CountByDayFn(ctx, since)
}

// sessionStoreMock records the last saved session in memory.
type sessionStoreMock struct {
	saved   map[string]map[string]string
	deleted []string
}

func newSessionStoreMock() *sessionStoreMock {
	return &sessionStoreMock{saved: make(map[string]map[string]string)}
}

func (m *sessionStoreMock) Save(_ context.Context, userID, sessionID string, fields map[string]string) error {
	cp := make(map[string]string, len(fields)+1)
	for k, v := range fields {
		cp[k] = v
	}
	cp["sid"] = sessionID
	m.saved[userID] = cp
	return nil
}

func (m *sessionStoreMock) Get(_ context.Context, userID string) (map[string]string, error) {
	return m.saved[userID], nil
}

func (m *sessionStoreMock) Delete(_ context.Context, userID string) error {
	m.deleted = append(m.deleted, userID)
	delete(m.saved, userID)
	return nil
}

// tokenStoreMock is a one-shot token table keyed by kind:token.
type tokenStoreMock struct {
	tokens map[string]string
}

func newTokenStoreMock() *tokenStoreMock {
	return &tokenStoreMock{tokens: make(map[string]string)}
}

func (m *tokenStoreMock) Set(_ context.Context, kind, token, userID string, _ time.Duration) error {
	m.tokens[kind+":"+token] = userID
	return nil
}

func (m *tokenStoreMock) Take(_ context.Context, kind, token string) (string, error) {
	key := kind + ":" + token
	uid := m.tokens[key]
	delete(m.tokens, key)
	return uid, nil
}

type publisherMock struct {
	jobs []any
	err  error
}

func (m *publisherMock) PublishJSON(_ context.Context, body any) error {
	if m.err != nil {
		return m.err
	}
	m.jobs = append(m.jobs, body)
	return nil
}

type uploaderMock struct {
	UploadFn func(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
	paths    []string
}

func (m *uploaderMock) Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error) {
	m.paths = append(m.paths, objectPath)
	if m.UploadFn != nil {
		return m.UploadFn(ctx, objectPath, contentType, r)
	}
	return "https://cdn.example.com/" + objectPath, nil
}

type verifierMock struct {
	VerifyFn func(ctx context.Context, credential string) (*social.Identity, error)
}

func (m *verifierMock) Verify(ctx context.Context, credential string) (*social.Identity, error) {
	return m.VerifyFn(ctx, credential)
}

var _ repository.UserRepository = (*userRepoMock)(nil)
var _ repository.DiaryRepository = (*diaryRepoMock)(nil)
var _ SessionStore = (*sessionStoreMock)(nil)
var _ TokenStore = (*tokenStoreMock)(nil)
var _ Publisher = (*publisherMock)(nil)
var _ Uploader = (*uploaderMock)(nil)
var _ SocialVerifier = (*verifierMock)(nil)
