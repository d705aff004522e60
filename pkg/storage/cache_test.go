package storage

import (
	"context"
	"testing"
	"time"

	"github.com/platinummonkey/rococo/pkg/model"
	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTieredCache_MemoryOnly(t *testing.T) {
	ctx := context.Background()
	cache := NewTieredCache[model.Country]("country", 2, time.Minute, nil, nil)

	_, err := cache.Get(ctx, "fr")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, cache.Set(ctx, "fr", model.Country{Name: "France", Code: "FR"}))
	got, err := cache.Get(ctx, "fr")
	require.NoError(t, err)
	assert.Equal(t, "France", got.Name)

	require.NoError(t, cache.Invalidate(ctx, "fr"))
	_, err = cache.Get(ctx, "fr")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestTieredCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	cache := NewTieredCache[string]("names", 2, time.Minute, nil, nil)

	require.NoError(t, cache.Set(ctx, "a", "A"))
	require.NoError(t, cache.Set(ctx, "b", "B"))
	require.NoError(t, cache.Set(ctx, "c", "C"))

	assert.Equal(t, 2, cache.Len())
	_, err := cache.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestTieredCache_FallsBackToRedis(t *testing.T) {
	ctx := context.Background()
	client, mr := setupRedisClientTest(t)
	metrics := observability.NewMetrics(prometheus.NewRegistry())

	writer := NewTieredCache[model.Country]("country", 10, time.Minute, client, nil)
	require.NoError(t, writer.Set(ctx, "de", model.Country{Name: "Germany", Code: "DE"}))
	assert.True(t, mr.Exists("rococo:country:de"))

	// A second gateway instance with a cold L1
	reader := NewTieredCache[model.Country]("country", 10, time.Minute, client, metrics)
	got, err := reader.Get(ctx, "de")
	require.NoError(t, err)
	assert.Equal(t, "DE", got.Code)
	assert.Equal(t, 1, reader.Len())
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CacheHitsTotal.WithLabelValues("country")))

	_, err = reader.Get(ctx, "xx")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CacheMissesTotal.WithLabelValues("country")))
}

func TestTieredCache_DropsCorruptRedisEntry(t *testing.T) {
	ctx := context.Background()
	client, mr := setupRedisClientTest(t)
	require.NoError(t, mr.Set("rococo:country:bad", "{not json"))

	cache := NewTieredCache[model.Country]("country", 10, time.Minute, client, nil)
	_, err := cache.Get(ctx, "bad")

	assert.ErrorContains(t, err, "failed to unmarshal")
	assert.False(t, mr.Exists("rococo:country:bad"))
}
