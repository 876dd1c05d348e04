// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// UserContext contains the authenticated administrator session.
type UserContext struct {
	Username  string
	SessionID string
}

type userContextKey struct{}

// WithUser adds UserContext to context.
func WithUser(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// GetUser returns UserContext from context.
func GetUser(ctx context.Context) *UserContext {
	if v, ok := ctx.Value(userContextKey{}).(*UserContext); ok {
		return v
	}
	return nil
}

// GetUsername returns the authenticated username or empty string.
func GetUsername(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.Username
	}
	return ""
}

// GetSessionID returns the session identifier or empty string.
func GetSessionID(ctx context.Context) string {
	if u := GetUser(ctx); u != nil {
		return u.SessionID
	}
	return ""
}
