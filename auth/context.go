package auth

import (
	"context"
	"errors"
)

// ErrUnauthorized is returned when no authenticated user is attached to the context.
var ErrUnauthorized = errors.New("unauthorized")

type userKey struct{}

// WithUser attaches the authenticated user id to ctx.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

func UserFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userKey{}).(string)
	return userID, ok && userID != ""
}

// Require resolves the current user or fails with ErrUnauthorized.
func Require(ctx context.Context) (string, error) {
	userID, ok := UserFromContext(ctx)
	if !ok {
		return "", ErrUnauthorized
	}
	return userID, nil
}
