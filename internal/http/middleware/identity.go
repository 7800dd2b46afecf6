// README: Identity passthrough; authentication lives in an external component.
package middleware

import "github.com/gin-gonic/gin"

// UserIDKey is the gin context key holding the caller's opaque user id.
const UserIDKey = "userID"

// Identity copies the opaque X-User-ID header into the request context.
// The backend trusts the identity component in front of it and never
// validates the value itself.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := c.GetHeader("X-User-ID"); uid != "" {
			c.Set(UserIDKey, uid)
		}
		c.Next()
	}
}
