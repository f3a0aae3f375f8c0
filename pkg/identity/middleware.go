package identity

import (
	"encoding/json"
	"net/http"
)

// RequireUser resolves the current user through the provider and injects it
// into the request context. Requests without a resolvable user are rejected
// with 401 before reaching the handler - core operations must never proceed
// with a nil user.
func RequireUser(provider Provider) func(http.Handler) http.Handler {
	if provider == nil {
		panic("identity.RequireUser: provider is required")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := provider.CurrentUser(r.Context())
			if err != nil || user == nil {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "authentication required",
				})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}
