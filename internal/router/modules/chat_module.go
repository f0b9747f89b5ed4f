package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/viajante/journal/internal/container"
	handlers "github.com/viajante/journal/internal/interface/http"
	"github.com/viajante/journal/internal/interface/middleware"
)

// ChatModule wires the Stream Chat credential routes, session required.
type ChatModule struct {
	Handler *handlers.ChatHandler
}

func NewChatModule(h *handlers.ChatHandler) *ChatModule {
	return &ChatModule{Handler: h}
}

func (m *ChatModule) Register(rg *gin.RouterGroup) {
	ch := rg.Group("/chat")
	ch.Use(middleware.Auth(container.GetAuthStore(), container.GetJWT()))
	ch.Use(middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		ch.POST("/connect", m.Handler.Connect)
		ch.GET("/token", m.Handler.Token)
	}
}
