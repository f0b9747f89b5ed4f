package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viajante/journal/internal/application"
	"github.com/viajante/journal/pkg/helpers"
	"github.com/viajante/journal/pkg/response"
)

// Auth validates the access token cookie and ensures a live session
// whose id matches the token. On success it sets userID, userNick and
// userName in the Gin context, the per-request "who am I".
func Auth(sessions application.SessionStore, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			resp := response.Error[any](c, http.StatusUnauthorized, "missing access token", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			resp := response.Error[any](c, http.StatusUnauthorized, "invalid access token", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}
		sess, err := sessions.Get(c.Request.Context(), claims.UserID)
		if err != nil || len(sess) == 0 || sess["sid"] != claims.SessionID {
			resp := response.Error[any](c, http.StatusUnauthorized, "session not found", nil)
			c.AbortWithStatusJSON(resp.Status, resp)
			return
		}

		c.Set("userID", sess["user_id"])
		c.Set("userNick", sess["nick"])
		c.Set("userName", sess["name"])
		c.Next()
	}
}
