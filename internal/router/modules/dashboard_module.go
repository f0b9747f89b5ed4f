package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/viajante/journal/internal/application"
	"github.com/viajante/journal/internal/container"
	handlers "github.com/viajante/journal/internal/interface/http"
	"github.com/viajante/journal/internal/interface/middleware"
)

// DashboardModule wires the admin aggregates behind the session
// middleware plus the admin guard.
type DashboardModule struct {
	Handler *handlers.DashboardHandler
	Svc     *application.AuthService
}

func NewDashboardModule(h *handlers.DashboardHandler, svc *application.AuthService) *DashboardModule {
	return &DashboardModule{Handler: h, Svc: svc}
}

func (m *DashboardModule) Register(rg *gin.RouterGroup) {
	d := rg.Group("/dashboard")
	d.Use(middleware.Auth(container.GetAuthStore(), container.GetJWT()))
	d.Use(middleware.AdminOnly(m.Svc))
	d.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		d.GET("/last-posts", m.Handler.LastPosts)
		d.GET("/common-locals", m.Handler.CommonLocals)
		d.GET("/week-posts", m.Handler.WeekPosts)
	}
}
