package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"stokpanel/internal/core/apperror"
	appctx "stokpanel/internal/core/context"
)

// JWTValidator interface for token validation.
type JWTValidator interface {
	ValidateToken(tokenString string) (*appctx.UserContext, error)
}

// SessionChecker reports whether a session flag still exists. A valid
// token whose session was removed by logout is rejected.
type SessionChecker interface {
	Exists(ctx context.Context, sessionID string) (bool, error)
}

// Auth middleware validates JWT tokens, confirms the session is still
// active and populates the user context.
func Auth(validator JWTValidator, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "missing authorization header")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		user, err := validator.ValidateToken(parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid token")
			return
		}

		active, err := sessions.Exists(c.Request.Context(), user.SessionID)
		if err != nil {
			_ = c.Error(apperror.NewDatabase(err))
			c.Abort()
			return
		}
		if !active {
			abortUnauthorized(c, "session expired")
			return
		}

		ctx := appctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)

		c.Set("username", user.Username)
		c.Set("session_id", user.SessionID)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
