package events

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/platinummonkey/rococo/pkg/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*storage.RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := storage.NewRedisClientFrom(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestDecode(t *testing.T) {
	event, err := Decode([]byte(`{"type":"user.registered","username":"duck"}`))
	require.NoError(t, err)
	assert.Equal(t, "duck", event.Username)

	for _, payload := range []string{`not json`, `{"type":"user.deleted","username":"duck"}`, `{"type":"user.registered"}`} {
		_, err := Decode([]byte(payload))
		assert.ErrorIs(t, err, ErrInvalidEvent, payload)
	}
}

type recorder struct {
	mu    sync.Mutex
	users []string
}

func (r *recorder) handle(_ context.Context, e UserRegistered) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, e.Username)
	return nil
}

func (r *recorder) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.users...)
}

func TestPublishAndConsume(t *testing.T) {
	client, mr := setupRedis(t)
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)

	rec := &recorder{}
	consumer := NewConsumer(client, "", rec.handle, logger, metrics)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- consumer.Run(ctx) }()

	require.Eventually(t, func() bool { return mr.PubSubNumSub(DefaultChannel)[DefaultChannel] == 1 }, time.Second, 5*time.Millisecond)

	publisher := NewPublisher(client, "", metrics)
	require.NoError(t, publisher.UserRegistered(context.Background(), "duck"))
	mr.Publish(DefaultChannel, "garbage")
	require.NoError(t, publisher.UserRegistered(context.Background(), "goose"))

	assert.Eventually(t, func() bool { return len(rec.seen()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"duck", "goose"}, rec.seen())
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.EventsPublishedTotal.WithLabelValues(TypeUserRegistered)))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.EventsConsumedTotal.WithLabelValues(TypeUserRegistered, "invalid")))

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestConsumer_SubscribeFailure(t *testing.T) {
	client, mr := setupRedis(t)
	mr.Close()

	consumer := NewConsumer(client, "", (&recorder{}).handle, observability.NewLogger(observability.ErrorLevel, io.Discard), nil)
	err := consumer.Run(context.Background())
	assert.ErrorContains(t, err, "failed to subscribe")
}
