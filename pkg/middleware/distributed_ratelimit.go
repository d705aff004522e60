package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/platinummonkey/rococo/pkg/storage"
)

// DistributedRateLimiter is a fixed-window counter in Redis, shared by
// every gateway instance
type DistributedRateLimiter struct {
	redis  *storage.RedisClient
	limit  int64
	window time.Duration
	prefix string
}

var _ Limiter = (*DistributedRateLimiter)(nil)

// NewDistributedRateLimiter allows limit requests per window per client
func NewDistributedRateLimiter(redisClient *storage.RedisClient, limit int, window time.Duration, prefix string) *DistributedRateLimiter {
	if prefix == "" {
		prefix = "rococo:ratelimit"
	}
	return &DistributedRateLimiter{
		redis:  redisClient,
		limit:  int64(limit),
		window: window,
		prefix: prefix,
	}
}

// Allow counts the request in the current window of key
func (rl *DistributedRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	count, err := rl.redis.IncrWindow(ctx, fmt.Sprintf("%s:%s", rl.prefix, key), rl.window)
	if err != nil {
		return true, err
	}
	return count <= rl.limit, nil
}
