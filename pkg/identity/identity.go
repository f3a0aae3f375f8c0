// Package identity exposes the "current user" boundary. Credential,
// session, and 2FA machinery live in the external identity platform; this
// package only resolves who is making the request and fails fast when
// nobody is.
package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrUnauthenticated means no user could be resolved for the request.
// Fatal to the request; never retried automatically.
var ErrUnauthenticated = errors.New("identity: authentication required")

// User is the resolved identity for a request.
type User struct {
	ID       uuid.UUID
	Email    string
	Verified bool
}

// Provider resolves the current user from request context, typically by
// validating a session the external identity platform issued.
type Provider interface {
	// CurrentUser returns the authenticated user or ErrUnauthenticated.
	CurrentUser(ctx context.Context) (*User, error)
}

type userCtxKey struct{}

// WithUser stores the user in the context.
func WithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

// UserFromContext retrieves the user stored by the auth middleware.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userCtxKey{}).(*User)
	return user, ok && user != nil
}
