package async

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/stretchr/testify/assert"
)

// syncBuffer is a bytes.Buffer safe for the logger goroutines
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testLogger() (*observability.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return observability.NewLogger(observability.DebugLevel, buf), buf
}

func TestSafeGo_Success(t *testing.T) {
	logger, buf := testLogger()
	executed := atomic.Bool{}

	SafeGo(context.Background(), logger, time.Second, "test task", func(ctx context.Context) error {
		executed.Store(true)
		return nil
	})

	assert.Eventually(t, executed.Load, time.Second, 10*time.Millisecond)
	assert.Empty(t, buf.String())
}

func TestSafeGo_LogsError(t *testing.T) {
	logger, buf := testLogger()

	SafeGo(context.Background(), logger, time.Second, "test task", func(ctx context.Context) error {
		return errors.New("test error")
	})

	assert.Eventually(t, func() bool {
		out := buf.String()
		return bytes.Contains([]byte(out), []byte("test error")) && bytes.Contains([]byte(out), []byte("test task"))
	}, time.Second, 10*time.Millisecond)
}

func TestSafeGo_Timeout(t *testing.T) {
	logger, _ := testLogger()
	completed := atomic.Bool{}
	cancelled := atomic.Bool{}

	SafeGo(context.Background(), logger, 50*time.Millisecond, "test task", func(ctx context.Context) error {
		select {
		case <-time.After(time.Second):
			completed.Store(true)
			return nil
		case <-ctx.Done():
			cancelled.Store(true)
			return ctx.Err()
		}
	})

	assert.Eventually(t, cancelled.Load, time.Second, 10*time.Millisecond)
	assert.False(t, completed.Load())
}

func TestSafeGo_PanicRecovery(t *testing.T) {
	logger, buf := testLogger()

	SafeGo(context.Background(), logger, time.Second, "test task", func(ctx context.Context) error {
		panic("test panic")
	})

	assert.Eventually(t, func() bool {
		return bytes.Contains([]byte(buf.String()), []byte("panic: test panic"))
	}, time.Second, 10*time.Millisecond)
}

func TestSupervise_RestartsAfterFailure(t *testing.T) {
	logger, _ := testLogger()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	calls := atomic.Int32{}

	done := Supervise(ctx, logger, "loop", Backoff{Min: time.Millisecond, Max: 5 * time.Millisecond}, func(ctx context.Context) error {
		if calls.Add(1) == 1 {
			panic("first run")
		}
		if calls.Load() < 3 {
			return errors.New("second run")
		}
		<-ctx.Done()
		return ctx.Err()
	})

	assert.Eventually(t, func() bool { return calls.Load() == 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("supervised loop did not exit after cancel")
	}
}

func TestBackoff_Next(t *testing.T) {
	b := Backoff{Min: 10 * time.Millisecond, Max: 35 * time.Millisecond}

	d := b.next(0)
	assert.Equal(t, 10*time.Millisecond, d)
	d = b.next(d)
	assert.Equal(t, 20*time.Millisecond, d)
	d = b.next(d)
	assert.Equal(t, 35*time.Millisecond, d)
}
