package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisLimiter struct {
	client *redis.Client
	cfg    Config
	prefix string
}

// NewRedisLimiter returns a Limiter backed by Redis, suitable for
// multi-instance deployments where the window must be shared.
func NewRedisLimiter(client *redis.Client, cfg Config) Limiter {
	if client == nil {
		panic("ratelimit: redis client is required")
	}
	if cfg.Limit <= 0 || cfg.Window <= 0 {
		panic("ratelimit: limit and window must be positive")
	}
	return &redisLimiter{client: client, cfg: cfg, prefix: "ratelimit:"}
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (*Result, error) {
	redisKey := l.prefix + key

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	// NX keeps the original window expiry on subsequent hits.
	pipe.ExpireNX(ctx, redisKey, l.cfg.Window)
	ttl := pipe.TTL(ctx, redisKey)

	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("ratelimit: redis pipeline failed: %w", err)
	}

	count := int(incr.Val())
	resetAt := time.Now().Add(l.cfg.Window)
	if d := ttl.Val(); d > 0 {
		resetAt = time.Now().Add(d)
	}

	return &Result{
		Allowed:   count <= l.cfg.Limit,
		Limit:     l.cfg.Limit,
		Remaining: max(l.cfg.Limit-count, 0),
		ResetAt:   resetAt,
	}, nil
}
