package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/viajante/journal/internal/application"
	"github.com/viajante/journal/pkg/response"
)

// ChatHandler hands logged-in users their Stream Chat credentials.
type ChatHandler struct {
	Svc    *application.ChatService
	Auth   *application.AuthService
	APIKey string
	Logger *logrus.Logger
}

func NewChatHandler(svc *application.ChatService, auth *application.AuthService, apiKey string, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{Svc: svc, Auth: auth, APIKey: apiKey, Logger: logger}
}

// Connect POST /api/chat/connect: mirrors the caller's profile into
// Stream and returns the token the front end connects with.
func (h *ChatHandler) Connect(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Auth.GetProfile(c.Request.Context(), uid)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, "not authenticated", nil)
		return
	}
	if err := h.Svc.UpsertUser(c.Request.Context(), u); err != nil {
		if errors.Is(err, application.ErrChatUnavailable) {
			h.Logger.WithError(err).Warn("chat upsert failed")
			response.Fail(c, http.StatusBadGateway, "chat provider unavailable", nil)
			return
		}
		h.Logger.WithError(err).Error("chat upsert failed")
		response.Fail(c, http.StatusInternalServerError, "chat setup failed", nil)
		return
	}
	token, err := h.Svc.UserToken(uid)
	if err != nil {
		response.Fail(c, http.StatusBadGateway, "chat provider unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"api_key": h.APIKey,
		"token":   token,
		"user": gin.H{
			"id":    u.ID,
			"name":  u.Name,
			"image": u.AvatarURL,
		},
	}, "chat credentials", nil)
}

// Token GET /api/chat/token: token only, for reconnects.
func (h *ChatHandler) Token(c *gin.Context) {
	token, err := h.Svc.UserToken(c.GetString("userID"))
	if err != nil {
		if errors.Is(err, application.ErrNotAuthenticated) {
			response.Fail(c, http.StatusUnauthorized, "not authenticated", nil)
			return
		}
		response.Fail(c, http.StatusBadGateway, "chat provider unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"api_key": h.APIKey, "token": token}, "chat token", nil)
}
