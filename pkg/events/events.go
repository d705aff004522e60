package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/platinummonkey/rococo/pkg/storage"
)

// TypeUserRegistered is the type of UserRegistered messages
const TypeUserRegistered = "user.registered"

// DefaultChannel is the Redis channel user events are published on
const DefaultChannel = "rococo.users"

// ErrInvalidEvent is returned for messages that cannot be decoded
var ErrInvalidEvent = errors.New("invalid event")

// UserRegistered announces a new login created by the auth service
type UserRegistered struct {
	Type       string    `json:"type"`
	Username   string    `json:"username"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Decode parses a UserRegistered message
func Decode(payload []byte) (UserRegistered, error) {
	var event UserRegistered
	if err := json.Unmarshal(payload, &event); err != nil {
		return event, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if event.Type != TypeUserRegistered || event.Username == "" {
		return event, fmt.Errorf("%w: type %q username %q", ErrInvalidEvent, event.Type, event.Username)
	}
	return event, nil
}

// Publisher publishes user events on a Redis channel
type Publisher struct {
	redis   *storage.RedisClient
	channel string
	metrics *observability.Metrics
}

// NewPublisher creates a publisher. metrics may be nil.
func NewPublisher(redis *storage.RedisClient, channel string, metrics *observability.Metrics) *Publisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Publisher{redis: redis, channel: channel, metrics: metrics}
}

// UserRegistered publishes a registration
func (p *Publisher) UserRegistered(ctx context.Context, username string) error {
	payload, err := json.Marshal(UserRegistered{
		Type:       TypeUserRegistered,
		Username:   username,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := p.redis.Publish(ctx, p.channel, payload); err != nil {
		return fmt.Errorf("failed to publish %s: %w", TypeUserRegistered, err)
	}
	if p.metrics != nil {
		p.metrics.EventsPublishedTotal.WithLabelValues(TypeUserRegistered).Inc()
	}
	return nil
}
