package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

type memoryLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	cfg     Config
}

// NewMemoryLimiter returns an in-process Limiter.
// For tests and single-instance deployments.
func NewMemoryLimiter(cfg Config) Limiter {
	if cfg.Limit <= 0 || cfg.Window <= 0 {
		panic("ratelimit: limit and window must be positive")
	}
	return &memoryLimiter{
		windows: make(map[string]*window),
		cfg:     cfg,
	}
}

func (l *memoryLimiter) Allow(_ context.Context, key string) (*Result, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(l.cfg.Window)}
		l.windows[key] = w
	}
	w.count++

	return &Result{
		Allowed:   w.count <= l.cfg.Limit,
		Limit:     l.cfg.Limit,
		Remaining: max(l.cfg.Limit-w.count, 0),
		ResetAt:   w.resetAt,
	}, nil
}
