package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"voltstore/internal/core/apperror"
	appctx "voltstore/internal/core/context"
)

// JWTValidator interface for token validation.
type JWTValidator interface {
	ValidateToken(tokenString string) (*appctx.UserContext, error)
}

// Auth middleware validates JWT tokens and populates user context.
func Auth(validator JWTValidator) gin.HandlerFunc {
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

		ctx := appctx.WithUser(c.Request.Context(), user)
		c.Request = c.Request.WithContext(ctx)

		c.Set("user_id", user.UserID)
		c.Set("role", user.Role)

		c.Next()
	}
}

// OptionalAuth validates token if present, but doesn't require it.
// Guest checkout relies on this: orders may be created anonymously.
func OptionalAuth(validator JWTValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			c.Next()
			return
		}

		user, err := validator.ValidateToken(parts[1])
		if err == nil && user != nil {
			ctx := appctx.WithUser(c.Request.Context(), user)
			c.Request = c.Request.WithContext(ctx)
			c.Set("user_id", user.UserID)
			c.Set("role", user.Role)
		}

		c.Next()
	}
}

// RequireRole middleware checks if user has one of the required roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			abortUnauthorized(c, "authentication required")
			return
		}

		for _, required := range roles {
			if user.Role == required {
				c.Next()
				return
			}
		}

		_ = c.Error(
			apperror.NewForbidden("insufficient permissions").
				WithDetail("required_roles", roles),
		)
		c.Abort()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthorized(message))
	c.Abort()
}
