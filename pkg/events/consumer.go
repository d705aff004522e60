package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/platinummonkey/rococo/pkg/storage"
)

// Handler processes one decoded event
type Handler func(ctx context.Context, event UserRegistered) error

// Consumer delivers the events of a Redis channel to a handler, one at a
// time. Redis pub/sub does not redeliver, so handler failures are logged
// and counted.
type Consumer struct {
	redis   *storage.RedisClient
	channel string
	handler Handler
	logger  *observability.Logger
	metrics *observability.Metrics
}

// NewConsumer creates a consumer. metrics may be nil.
func NewConsumer(redis *storage.RedisClient, channel string, handler Handler, logger *observability.Logger, metrics *observability.Metrics) *Consumer {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Consumer{
		redis:   redis,
		channel: channel,
		handler: handler,
		logger:  logger.WithField("channel", channel),
		metrics: metrics,
	}
}

// Run subscribes and handles messages until ctx is done or the
// subscription breaks. It is meant to run under async.Supervise.
func (c *Consumer) Run(ctx context.Context) error {
	sub := c.redis.Subscribe(ctx, c.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", c.channel, err)
	}
	c.logger.Info("subscribed to user events")

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return errors.New("subscription closed")
			}
			c.handle(ctx, []byte(msg.Payload))
		}
	}
}

func (c *Consumer) handle(ctx context.Context, payload []byte) {
	event, err := Decode(payload)
	if err != nil {
		c.logger.WithError(err).Warn("dropping malformed event")
		c.observe("invalid")
		return
	}

	log := c.logger.WithField("user", event.Username)
	if err := c.handler(observability.WithLogger(ctx, log), event); err != nil {
		log.WithError(err).Error("failed to handle user event")
		c.observe("error")
		return
	}
	log.Debug("user event handled")
	c.observe("ok")
}

func (c *Consumer) observe(status string) {
	if c.metrics != nil {
		c.metrics.EventsConsumedTotal.WithLabelValues(TypeUserRegistered, status).Inc()
	}
}
