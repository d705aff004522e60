package async

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/platinummonkey/rococo/pkg/observability"
)

// SafeGo executes a function in a goroutine with:
// - Context cancellation support
// - Panic recovery
// - Timeout enforcement
// - Error logging
//
// Use this instead of bare `go func()` for fire-and-forget work.
//
// Example:
//
//	SafeGo(r.Context(), logger, 5*time.Second, "publish user registered", func(ctx context.Context) error {
//	    return publisher.UserRegistered(ctx, username)
//	})
func SafeGo(parentCtx context.Context, logger *observability.Logger, timeout time.Duration, taskName string, fn func(context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(parentCtx, timeout)
		defer cancel()

		if err := run(ctx, fn); err != nil {
			logger.WithError(err).WithField("task", taskName).Error("background task failed")
		}
	}()
}

// Backoff is the restart delay of a supervised loop. The delay doubles
// after each consecutive failure up to Max.
type Backoff struct {
	Min time.Duration
	Max time.Duration
}

// DefaultBackoff restarts after 100ms, growing to 10s
var DefaultBackoff = Backoff{Min: 100 * time.Millisecond, Max: 10 * time.Second}

func (b Backoff) next(current time.Duration) time.Duration {
	if current == 0 {
		return b.Min
	}
	current *= 2
	if current > b.Max {
		return b.Max
	}
	return current
}

// Supervise runs a long-lived loop until ctx is done. When fn returns an
// error or panics it is logged and fn is started again after a backoff.
// A nil return before ctx is done also restarts fn, resetting the backoff.
// The returned channel is closed once the loop has exited.
//
// Example:
//
//	done := Supervise(ctx, logger, "user events", DefaultBackoff, consumer.Run)
//	<-done
func Supervise(ctx context.Context, logger *observability.Logger, taskName string, backoff Backoff, fn func(context.Context) error) <-chan struct{} {
	done := make(chan struct{})
	log := logger.WithField("task", taskName)

	go func() {
		defer close(done)
		var delay time.Duration

		for {
			err := run(ctx, fn)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				delay = backoff.next(delay)
				log.WithError(err).WithField("restart_in", delay.String()).Warn("supervised loop failed")
			} else {
				delay = 0
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
		}
	}()

	return done
}

// run calls fn, converting a panic into an error carrying the stack
func run(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return fn(ctx)
}
