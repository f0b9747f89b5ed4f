package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/viajante/journal/internal/container"
	handlers "github.com/viajante/journal/internal/interface/http"
	"github.com/viajante/journal/internal/interface/middleware"
)

// DiaryModule wires the journal routes. Reads, the live stream and all
// writes require a session; the write path carries a tighter per-user
// limiter because each write can include an image upload.
type DiaryModule struct {
	Handler *handlers.DiaryHandler
}

func NewDiaryModule(h *handlers.DiaryHandler) *DiaryModule {
	return &DiaryModule{Handler: h}
}

func (m *DiaryModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	writeLimiter := middleware.RateLimit(rdb, 30, time.Minute, middleware.KeyByUserID(), nil)

	d := rg.Group("/diaries")
	d.Use(middleware.Auth(container.GetAuthStore(), container.GetJWT()))
	d.Use(middleware.RateLimit(rdb, 300, time.Minute, middleware.KeyByIP(), nil))
	{
		d.GET("", m.Handler.List)
		d.GET("/mine", m.Handler.Mine)
		d.GET("/stream", m.Handler.Stream)
		d.GET("/search", m.Handler.Search)
		d.GET("/:id", m.Handler.Get)
		d.POST("", writeLimiter, m.Handler.Add)
		d.PUT("/:id", writeLimiter, m.Handler.Edit)
		d.DELETE("/:id", writeLimiter, m.Handler.Delete)
	}
}
