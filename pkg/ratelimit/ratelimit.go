// Package ratelimit provides fixed-window request rate limiting with
// in-memory and Redis backends, plus HTTP middleware.
package ratelimit

import (
	"context"
	"net/http"
	"time"
)

// Result contains the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns how long to wait before the next request is allowed.
// Returns 0 if the current request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return time.Until(r.ResetAt)
}

// Limiter checks and consumes rate limit budget for a key.
type Limiter interface {
	// Allow checks if a request is allowed for the given key and, if so,
	// consumes one slot from the current window.
	Allow(ctx context.Context, key string) (*Result, error)
}

// Config holds window parameters shared by all backends.
type Config struct {
	Limit  int           // requests allowed per window
	Window time.Duration // window length
}

// KeyFunc extracts the rate limit key from a request. An empty key skips
// limiting for that request.
type KeyFunc func(r *http.Request) string
