package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/platinummonkey/rococo/pkg/contextkeys"
	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/platinummonkey/rococo/pkg/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Burst(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 3})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := rl.Allow(ctx, "ip:1.2.3.4")
		require.NoError(t, err)
		assert.True(t, allowed, "request %d within burst", i)
	}
	allowed, _ := rl.Allow(ctx, "ip:1.2.3.4")
	assert.False(t, allowed)

	allowed, _ = rl.Allow(ctx, "ip:5.6.7.8")
	assert.True(t, allowed, "other clients have their own bucket")
}

func TestRateLimiter_Cleanup(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimitConfig())
	_, _ = rl.Allow(context.Background(), "a")
	_, _ = rl.Allow(context.Background(), "b")

	assert.Equal(t, 0, rl.Cleanup(time.Hour))
	assert.Equal(t, 2, rl.Cleanup(-time.Second))
}

func TestDistributedRateLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := storage.NewRedisClientFrom(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer client.Close()

	rl := NewDistributedRateLimiter(client, 2, time.Minute, "")
	ctx := context.Background()

	for _, want := range []bool{true, true, false} {
		allowed, err := rl.Allow(ctx, "user:duck")
		require.NoError(t, err)
		assert.Equal(t, want, allowed)
	}
	assert.True(t, mr.Exists("rococo:ratelimit:user:duck"))

	mr.FastForward(time.Minute + time.Second)
	allowed, err := rl.Allow(ctx, "user:duck")
	require.NoError(t, err)
	assert.True(t, allowed, "new window")
}

type errLimiter struct{}

func (errLimiter) Allow(context.Context, string) (bool, error) {
	return true, errors.New("redis down")
}

type recordingLimiter struct {
	keys  []string
	allow bool
}

func (l *recordingLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.keys = append(l.keys, key)
	return l.allow, nil
}

func TestRateLimit_Middleware(t *testing.T) {
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("keys by ip and rejects", func(t *testing.T) {
		limiter := &recordingLimiter{allow: false}
		req := httptest.NewRequest(http.MethodGet, "/api/artist", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()

		RateLimit(limiter, metrics)(ok).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "1", rec.Header().Get("Retry-After"))
		assert.Equal(t, []string{"ip:10.0.0.1"}, limiter.keys)
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.RateLimitedTotal))
	})

	t.Run("keys by user", func(t *testing.T) {
		limiter := &recordingLimiter{allow: true}
		req := httptest.NewRequest(http.MethodGet, "/api/artist", nil)
		req = req.WithContext(contextkeys.WithPrincipal(req.Context(), &Principal{Username: "duck"}))
		rec := httptest.NewRecorder()

		RateLimit(limiter, metrics)(ok).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"user:duck"}, limiter.keys)
	})

	t.Run("forwarded for", func(t *testing.T) {
		limiter := &recordingLimiter{allow: true}
		req := httptest.NewRequest(http.MethodGet, "/api/artist", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

		RateLimit(limiter, nil)(ok).ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, []string{"ip:203.0.113.9"}, limiter.keys)
	})

	t.Run("fails open", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RateLimit(errLimiter{}, nil)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
