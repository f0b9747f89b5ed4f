package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/viajante/journal/internal/application"
	"github.com/viajante/journal/pkg/response"
)

// DashboardHandler serves the admin dashboard aggregates. All routes
// sit behind the admin guard.
type DashboardHandler struct {
	Svc    *application.DashboardService
	Logger *logrus.Logger
}

func NewDashboardHandler(svc *application.DashboardService, logger *logrus.Logger) *DashboardHandler {
	return &DashboardHandler{Svc: svc, Logger: logger}
}

// LastPosts GET /api/dashboard/last-posts: the five newest entries.
func (h *DashboardHandler) LastPosts(c *gin.Context) {
	list, err := h.Svc.LastPosts(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("dashboard last posts failed")
		response.Fail(c, http.StatusInternalServerError, "failed to load last posts", nil)
		return
	}
	response.Success(c, http.StatusOK, diariesJSON(list), "last posts", nil)
}

// CommonLocals GET /api/dashboard/common-locals: post counts per
// location, most common first.
func (h *DashboardHandler) CommonLocals(c *gin.Context) {
	counts, err := h.Svc.CommonLocals(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("dashboard common locals failed")
		response.Fail(c, http.StatusInternalServerError, "failed to load common locals", nil)
		return
	}
	response.Success(c, http.StatusOK, counts, "common locals", nil)
}

// WeekPosts GET /api/dashboard/week-posts: per-day counts for the
// trailing seven days, zero-filled.
func (h *DashboardHandler) WeekPosts(c *gin.Context) {
	counts, err := h.Svc.WeekPosts(c.Request.Context())
	if err != nil {
		h.Logger.WithError(err).Error("dashboard week posts failed")
		response.Fail(c, http.StatusInternalServerError, "failed to load week posts", nil)
		return
	}
	response.Success(c, http.StatusOK, counts, "week posts", nil)
}
