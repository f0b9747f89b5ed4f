package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/viajante/journal/internal/container"
	handlers "github.com/viajante/journal/internal/interface/http"
	"github.com/viajante/journal/internal/interface/middleware"
)

// AuthModule wires the credential flows and profile routes.
// Public: POST /api/auth/register, /api/auth/login, /api/auth/social,
// /api/auth/refresh, /api/auth/verify/confirm, /api/auth/reset/init,
// /api/auth/reset/confirm
// Protected: POST /api/auth/logout, GET/PUT /api/profile
type AuthModule struct {
	Auth  *handlers.AuthHandler
	Users *handlers.UserHandler
}

func NewAuthModule(auth *handlers.AuthHandler, users *handlers.UserHandler) *AuthModule {
	return &AuthModule{Auth: auth, Users: users}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	loginLimiter := middleware.RateLimit(rdb, 10, time.Minute, middleware.KeyByIP(), nil) // 10 req/min per IP
	refreshLimiter := middleware.RateLimit(rdb, 60, time.Minute, middleware.KeyByIP(), nil)
	tokenLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	a := rg.Group("/auth")
	a.POST("/register", loginLimiter, m.Auth.Register)
	a.POST("/login", loginLimiter, m.Auth.Login)
	a.POST("/social", loginLimiter, m.Auth.SocialLogin)
	a.POST("/refresh", refreshLimiter, m.Auth.Refresh)
	a.POST("/verify/confirm", tokenLimiter, m.Auth.VerifyConfirm)
	a.POST("/reset/init", tokenLimiter, m.Auth.ResetInit)
	a.POST("/reset/confirm", tokenLimiter, m.Auth.ResetConfirm)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetAuthStore(), container.GetJWT()))
	auth.Use(middleware.RateLimit(rdb, 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/auth/logout", m.Auth.Logout)
		auth.GET("/profile", m.Users.GetProfile)
		auth.PUT("/profile", m.Users.UpdateProfile)
	}
}
