package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/platinummonkey/rococo/pkg/observability"
)

// ErrCacheMiss is returned by Get when neither tier holds the key
var ErrCacheMiss = errors.New("cache miss")

// TieredCache keeps values in an in-process expirable LRU (L1) and, when a
// Redis client is given, in Redis as JSON (L2). Both tiers share one TTL.
type TieredCache[V any] struct {
	name    string
	l1      *lru.LRU[string, V]
	redis   *redis.Client
	ttl     time.Duration
	metrics *observability.Metrics
}

// NewTieredCache creates a cache. redisClient and metrics may be nil.
func NewTieredCache[V any](name string, size int, ttl time.Duration, redisClient *RedisClient, metrics *observability.Metrics) *TieredCache[V] {
	if size < 1 {
		size = 1
	}
	c := &TieredCache[V]{
		name:    name,
		l1:      lru.NewLRU[string, V](size, nil, ttl),
		ttl:     ttl,
		metrics: metrics,
	}
	if redisClient != nil {
		c.redis = redisClient.GetClient()
	}
	return c
}

func (c *TieredCache[V]) key(k string) string {
	return fmt.Sprintf("rococo:%s:%s", c.name, k)
}

// Get returns the cached value, filling L1 from L2 on an L1 miss
func (c *TieredCache[V]) Get(ctx context.Context, k string) (V, error) {
	if v, ok := c.l1.Get(k); ok {
		c.hit()
		return v, nil
	}

	var zero V
	if c.redis == nil {
		c.miss()
		return zero, ErrCacheMiss
	}

	data, err := c.redis.Get(ctx, c.key(k)).Bytes()
	if err == redis.Nil {
		c.miss()
		return zero, ErrCacheMiss
	} else if err != nil {
		c.miss()
		return zero, fmt.Errorf("redis get failed: %w", err)
	}

	var v V
	if err := json.Unmarshal(data, &v); err != nil {
		// Drop corrupt entries
		c.redis.Del(ctx, c.key(k))
		c.miss()
		return zero, fmt.Errorf("failed to unmarshal cached %s: %w", c.name, err)
	}

	c.l1.Add(k, v)
	c.hit()
	return v, nil
}

// Set stores a value in both tiers. A Redis failure is returned but the L1
// entry is kept.
func (c *TieredCache[V]) Set(ctx context.Context, k string, v V) error {
	c.l1.Add(k, v)
	if c.redis == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", c.name, err)
	}
	return c.redis.Set(ctx, c.key(k), data, c.ttl).Err()
}

// Invalidate removes a key from both tiers
func (c *TieredCache[V]) Invalidate(ctx context.Context, k string) error {
	c.l1.Remove(k)
	if c.redis == nil {
		return nil
	}
	return c.redis.Del(ctx, c.key(k)).Err()
}

// Len returns the number of L1 entries
func (c *TieredCache[V]) Len() int {
	return c.l1.Len()
}

func (c *TieredCache[V]) hit() {
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.WithLabelValues(c.name).Inc()
	}
}

func (c *TieredCache[V]) miss() {
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.WithLabelValues(c.name).Inc()
	}
}
