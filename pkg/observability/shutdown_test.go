package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShutdownManager_ReverseOrder(t *testing.T) {
	sm := NewShutdownManager(NewLogger(ErrorLevel, &bytes.Buffer{}), time.Second)

	var order []string
	sm.Register("database", func(context.Context) error { order = append(order, "database"); return nil })
	sm.Register("grpc", func(context.Context) error { order = append(order, "grpc"); return nil })

	assert.NoError(t, sm.Shutdown())
	assert.Equal(t, []string{"grpc", "database"}, order)
}

func TestShutdownManager_RunsOnceAndJoinsErrors(t *testing.T) {
	sm := NewShutdownManager(NewLogger(ErrorLevel, &bytes.Buffer{}), time.Second)

	calls := 0
	sm.Register("redis", func(context.Context) error { calls++; return errors.New("closed") })

	err := sm.Shutdown()
	assert.ErrorContains(t, err, "redis: closed")
	assert.Equal(t, err, sm.Shutdown())
	assert.Equal(t, 1, calls)
}

func TestShutdownManager_Wait(t *testing.T) {
	sm := NewShutdownManager(NewLogger(ErrorLevel, &bytes.Buffer{}), time.Second)
	done := make(chan struct{})
	sm.Register("http", func(context.Context) error { close(done); return nil })

	ctx, cancel := context.WithCancel(context.Background())
	go sm.Wait(ctx)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("shutdown function was not called")
	}
}
