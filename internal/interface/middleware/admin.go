package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viajante/journal/pkg/response"
)

// RoleResolver answers "is this user an admin" with a single lookup.
type RoleResolver interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// landingRoute is where non-admins are pointed when a guarded route
// turns them away.
const landingRoute = "/"

// AdminOnly gates a route subtree on the caller's admin flag. The role
// is resolved exactly once per request, after the auth middleware has
// populated userID; the request waits for the lookup, so a pending role
// never slips through. Non-admins get the landing route as a redirect
// hint rather than an error.
func AdminOnly(roles RoleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetString("userID")
		isAdmin, err := roles.IsAdmin(c.Request.Context(), uid)
		if err != nil {
			resp := response.Error[any](c, http.StatusInternalServerError, "role resolution failed", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		if !isAdmin {
			resp := response.Error[any](c, http.StatusForbidden, "admin only", gin.H{"redirect": landingRoute})
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		c.Next()
	}
}
