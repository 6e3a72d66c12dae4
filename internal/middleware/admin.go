package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aarogya-webinar/backend/internal/auth"
	"github.com/aarogya-webinar/backend/pkg/response"
)

// RequireAdmin returns a middleware that validates the admin session token
// and checks the session is still live (not logged out, not expired). Both
// checks must pass for any admin-mutating call.
func RequireAdmin(tokens *auth.TokenService, sessions auth.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := tokens.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		live, err := sessions.Exists(c.Request.Context(), claims.ID)
		if err != nil {
			response.Internal(c, "session lookup failed")
			c.Abort()
			return
		}
		if !live {
			response.Unauthorized(c, "session revoked or expired")
			c.Abort()
			return
		}
		c.Set(auth.ContextSessionID, claims.ID)
		c.Set(auth.ContextUsername, claims.Username)
		c.Next()
	}
}
