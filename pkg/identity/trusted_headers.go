package identity

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Headers set by the identity platform's edge proxy after it validates the
// session. The application trusts them only because the proxy strips any
// client-supplied copies.
const (
	HeaderUserID   = "X-Auth-User-Id"
	HeaderEmail    = "X-Auth-User-Email"
	HeaderVerified = "X-Auth-Email-Verified"
)

// TrustedHeaders resolves the current user from gateway-injected headers
// and stores it in the request context. Requests without valid headers pass
// through anonymously; pair with RequireUser to reject them.
func TrustedHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := uuid.Parse(r.Header.Get(HeaderUserID))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			user := &User{
				ID:       id,
				Email:    r.Header.Get(HeaderEmail),
				Verified: r.Header.Get(HeaderVerified) == "true",
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// ContextProvider resolves the current user from the request context,
// relying on an upstream middleware (TrustedHeaders or a session layer)
// to have put it there.
type ContextProvider struct{}

var _ Provider = ContextProvider{}

func (ContextProvider) CurrentUser(ctx context.Context) (*User, error) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return user, nil
}
