// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// UserContext contains authenticated principal information.
type UserContext struct {
	UserID  string
	Email   string
	Role    string
	IsAdmin bool
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context, or nil for anonymous/system calls.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUserID returns user ID from context or empty string.
func GetUserID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.UserID
	}
	return ""
}

// IsAdmin reports whether the context principal has the admin role.
func IsAdmin(ctx context.Context) bool {
	if u := GetUser(ctx); u != nil {
		return u.IsAdmin
	}
	return false
}
