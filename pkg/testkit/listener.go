package testkit

import (
	"context"
	"sync"

	"github.com/platinummonkey/rococo/pkg/async"
	"github.com/platinummonkey/rococo/pkg/events"
	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/platinummonkey/rococo/pkg/storage"
)

// EventListener records the user events published on the events channel so
// tests can assert that a registration was announced.
type EventListener struct {
	consumer *events.Consumer
	logger   *observability.Logger

	mu       sync.Mutex
	received []events.UserRegistered
	notify   chan struct{}
}

// NewEventListener subscribes to channel on redis once started
func NewEventListener(redis *storage.RedisClient, channel string, logger *observability.Logger) *EventListener {
	l := &EventListener{
		logger: logger.WithField("component", "event_listener"),
		notify: make(chan struct{}),
	}
	l.consumer = events.NewConsumer(redis, channel, l.record, l.logger, nil)
	return l
}

func (l *EventListener) record(_ context.Context, event events.UserRegistered) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.received = append(l.received, event)
	close(l.notify)
	l.notify = make(chan struct{})
	return nil
}

// Run consumes until ctx is done
func (l *EventListener) Run(ctx context.Context) error {
	return l.consumer.Run(ctx)
}

// Start consumes in the background under supervision
func (l *EventListener) Start(ctx context.Context) <-chan struct{} {
	return async.Supervise(ctx, l.logger, "event listener", async.DefaultBackoff, l.Run)
}

// Received returns a copy of every event seen so far
func (l *EventListener) Received() []events.UserRegistered {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]events.UserRegistered(nil), l.received...)
}

// WaitFor blocks until a registration of username has been seen or ctx is done
func (l *EventListener) WaitFor(ctx context.Context, username string) (events.UserRegistered, error) {
	for {
		l.mu.Lock()
		for _, event := range l.received {
			if event.Username == username {
				l.mu.Unlock()
				return event, nil
			}
		}
		notify := l.notify
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return events.UserRegistered{}, ctx.Err()
		case <-notify:
		}
	}
}
