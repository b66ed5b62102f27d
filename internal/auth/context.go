package auth

import (
	"context"

	"github.com/djprofessorkash/pet-emporium-project/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// userContextKey is the context key for storing the resolved user.
	userContextKey contextKey = "current_user"
)

// ContextWithUser adds the resolved user to the context.
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the resolved user from the context.
// Returns nil if not present.
func UserFromContext(ctx context.Context) *model.User {
	user, ok := ctx.Value(userContextKey).(*model.User)
	if !ok {
		return nil
	}
	return user
}

// MustUserFromContext retrieves the resolved user from the context.
// Panics if not present (use only when session middleware has run).
func MustUserFromContext(ctx context.Context) *model.User {
	user := UserFromContext(ctx)
	if user == nil {
		panic("user not found in context - ensure session middleware is applied")
	}
	return user
}

// UserIDFromContext is a convenience function to get the user ID from context.
// Returns 0 if not authenticated.
func UserIDFromContext(ctx context.Context) int64 {
	user := UserFromContext(ctx)
	if user == nil {
		return 0
	}
	return user.ID
}
