package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/viajante/journal/pkg/helpers"
)

type sessionsMock struct {
	data map[string]map[string]string
}

func (m *sessionsMock) Save(_ context.Context, userID, sessionID string, fields map[string]string) error {
	cp := make(map[string]string, len(fields)+1)
	for k, v := range fields {
		cp[k] = v
	}
	cp["sid"] = sessionID
	m.data[userID] = cp
	return nil
}

func (m *sessionsMock) Get(_ context.Context, userID string) (map[string]string, error) {
	return m.data[userID], nil
}

func (m *sessionsMock) Delete(_ context.Context, userID string) error {
	delete(m.data, userID)
	return nil
}

func authRouter(sessions *sessionsMock, jwt *helpers.JWTManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Auth(sessions, jwt), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("userID"), "nick": c.GetString("userNick")})
	})
	return r
}

func TestAuthAcceptsLiveSession(t *testing.T) {
	jwt := helpers.NewJWTManager("a", "r", time.Hour, time.Hour)
	sessions := &sessionsMock{data: map[string]map[string]string{}}
	_ = sessions.Save(context.Background(), "u1", "sid1", map[string]string{"user_id": "u1", "nick": "ana"})
	token, _, err := jwt.GenerateAccessToken("u1", "sid1")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	r := authRouter(sessions, jwt)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAuthRejectsMissingCookie(t *testing.T) {
	jwt := helpers.NewJWTManager("a", "r", time.Hour, time.Hour)
	r := authRouter(&sessionsMock{data: map[string]map[string]string{}}, jwt)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}

func TestAuthRejectsRotatedSession(t *testing.T) {
	jwt := helpers.NewJWTManager("a", "r", time.Hour, time.Hour)
	sessions := &sessionsMock{data: map[string]map[string]string{}}
	token, _, _ := jwt.GenerateAccessToken("u1", "sid1")

	// Session rotated after the token was minted.
	_ = sessions.Save(context.Background(), "u1", "sid2", map[string]string{"user_id": "u1"})

	r := authRouter(sessions, jwt)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}

func TestAuthRejectsForgedToken(t *testing.T) {
	jwt := helpers.NewJWTManager("a", "r", time.Hour, time.Hour)
	other := helpers.NewJWTManager("evil", "evil", time.Hour, time.Hour)
	sessions := &sessionsMock{data: map[string]map[string]string{}}
	_ = sessions.Save(context.Background(), "u1", "sid1", map[string]string{"user_id": "u1"})
	forged, _, _ := other.GenerateAccessToken("u1", "sid1")

	r := authRouter(sessions, jwt)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: forged})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
}
