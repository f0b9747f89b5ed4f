package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/viajante/journal/internal/application"
	"github.com/viajante/journal/internal/domain/entity"
	"github.com/viajante/journal/internal/domain/repository"
	"github.com/viajante/journal/pkg/helpers"
	"github.com/viajante/journal/pkg/validation"
)

type usersStub struct {
	repository.UserRepository
	byEmail map[string]*entity.User
}

func (s *usersStub) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

type sessionsStub struct{ saved map[string]map[string]string }

func (s *sessionsStub) Save(_ context.Context, userID, sessionID string, fields map[string]string) error {
	cp := map[string]string{"sid": sessionID}
	for k, v := range fields {
		cp[k] = v
	}
	s.saved[userID] = cp
	return nil
}
func (s *sessionsStub) Get(_ context.Context, userID string) (map[string]string, error) {
	return s.saved[userID], nil
}
func (s *sessionsStub) Delete(_ context.Context, userID string) error {
	delete(s.saved, userID)
	return nil
}

type tokensStub struct{ m map[string]string }

func (s *tokensStub) Set(_ context.Context, kind, token, userID string, _ time.Duration) error {
	s.m[kind+":"+token] = userID
	return nil
}
func (s *tokensStub) Take(_ context.Context, kind, token string) (string, error) {
	key := kind + ":" + token
	uid := s.m[key]
	delete(s.m, key)
	return uid, nil
}

func loginRouter(t *testing.T, users map[string]*entity.User) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	svc := &application.AuthService{
		Repo:     &usersStub{byEmail: users},
		JWT:      helpers.NewJWTManager("a", "r", time.Hour, 24*time.Hour),
		Sessions: &sessionsStub{saved: map[string]map[string]string{}},
		Tokens:   &tokensStub{m: map[string]string{}},
		Logger:   logrus.New(),
	}
	h := NewAuthHandler(svc, logrus.New(), "localhost", false)

	r := gin.New()
	r.POST("/api/auth/login", h.Login)
	return r
}

func TestLoginHandlerSetsCookiePair(t *testing.T) {
	hash, _ := helpers.HashPassword("rightpassword")
	r := loginRouter(t, map[string]*entity.User{
		"ana@example.com": {ID: "u1", Email: "ana@example.com", Password: hash, IsVerified: true},
	})

	body := `{"email":"ana@example.com","password":"rightpassword"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}
	var access, refresh bool
	for _, c := range w.Result().Cookies() {
		switch c.Name {
		case "access_token":
			access = c.Value != "" && c.HttpOnly
		case "refresh_token":
			refresh = c.Value != "" && c.HttpOnly
		}
	}
	if !access || !refresh {
		t.Fatal("both auth cookies must be set HttpOnly")
	}
}

func TestLoginHandlerUnverified(t *testing.T) {
	hash, _ := helpers.HashPassword("rightpassword")
	r := loginRouter(t, map[string]*entity.User{
		"ana@example.com": {ID: "u1", Email: "ana@example.com", Password: hash, IsVerified: false},
	})

	body := `{"email":"ana@example.com","password":"rightpassword"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("want 403 for unverified account, got %d", w.Code)
	}
	if len(w.Result().Cookies()) != 0 {
		t.Fatal("unverified login must not set auth cookies")
	}
}

func TestLoginHandlerBadCredentials(t *testing.T) {
	r := loginRouter(t, map[string]*entity.User{})

	body := `{"email":"ghost@example.com","password":"whatever1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}

func TestLoginHandlerInvalidPayload(t *testing.T) {
	r := loginRouter(t, map[string]*entity.User{})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", w.Code)
	}
}
