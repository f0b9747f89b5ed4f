package helpers

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("access", "refresh", time.Hour, 24*time.Hour)

	token, exp, err := m.GenerateAccessToken("u1", "sid1")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if !exp.After(time.Now()) {
		t.Fatal("expiry must be in the future")
	}
	claims, err := m.ParseAccessToken(token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.UserID != "u1" || claims.SessionID != "sid1" {
		t.Fatalf("claims round trip failed: %+v", claims)
	}
}

func TestTokenSecretsAreNotInterchangeable(t *testing.T) {
	m := NewJWTManager("access", "refresh", time.Hour, 24*time.Hour)

	access, _, _ := m.GenerateAccessToken("u1", "sid1")
	refresh, _, _ := m.GenerateRefreshToken("u1", "sid1")

	if _, err := m.ParseAccessToken(refresh); err == nil {
		t.Fatal("refresh token must not validate as access token")
	}
	if _, err := m.ParseRefreshToken(access); err == nil {
		t.Fatal("access token must not validate as refresh token")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := NewJWTManager("access", "refresh", -time.Minute, 24*time.Hour)

	token, _, err := m.GenerateAccessToken("u1", "sid1")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := m.ParseAccessToken(token); err == nil {
		t.Fatal("expired token must be rejected")
	}
}
