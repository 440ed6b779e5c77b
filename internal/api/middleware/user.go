package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/timmy/artsearch/internal/logger"
)

const (
	// UserHeader carries the signed-in user's id, set by the auth gateway in front of the service.
	UserHeader = "X-User-ID"

	userKey = "user_id"
)

// User attaches the current user from UserHeader to the request.
// Requests without the header continue anonymously; handlers that need a user reject them.
func User() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserHeader))
		if userID != "" {
			c.Set(userKey, userID)
			c.Request = c.Request.WithContext(logger.SetUserID(c.Request.Context(), userID))
		}
		c.Next()
	}
}

// CurrentUser returns the user attached by User, or "" for anonymous requests.
func CurrentUser(c *gin.Context) string {
	return c.GetString(userKey)
}
