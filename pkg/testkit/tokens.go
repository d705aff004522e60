package testkit

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/platinummonkey/rococo/pkg/async"
	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/robfig/cron/v3"
	"golang.org/x/oauth2"
)

// DefaultRefreshSchedule renews the harness token well inside the default
// one hour access token lifetime
const DefaultRefreshSchedule = "@every 30m"

// ErrNoRefreshToken is returned when the current token cannot be renewed
var ErrNoRefreshToken = errors.New("token has no refresh token")

// TokenUpdater keeps a long-running harness signed in. It renews its token
// with the refresh grant on a cron schedule and on demand when the token
// has expired. It implements oauth2.TokenSource.
type TokenUpdater struct {
	config   *oauth2.Config
	schedule string
	logger   *observability.Logger

	mu    sync.Mutex
	token *oauth2.Token
}

// NewTokenUpdater starts from an already issued token
func NewTokenUpdater(config *oauth2.Config, token *oauth2.Token, schedule string, logger *observability.Logger) (*TokenUpdater, error) {
	if token == nil {
		return nil, fmt.Errorf("initial token is required")
	}
	if schedule == "" {
		schedule = DefaultRefreshSchedule
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
	}
	return &TokenUpdater{
		config:   config,
		schedule: schedule,
		logger:   logger.WithField("component", "token_updater"),
		token:    token,
	}, nil
}

// Token returns the current token, renewing it first when it has expired
func (u *TokenUpdater) Token() (*oauth2.Token, error) {
	u.mu.Lock()
	current := u.token
	u.mu.Unlock()

	if current.Valid() {
		return current, nil
	}
	if err := u.Refresh(context.Background()); err != nil {
		return nil, err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.token, nil
}

// Refresh exchanges the refresh token for a new token pair now. Refresh
// tokens are single use, so concurrent refreshes are serialized.
func (u *TokenUpdater) Refresh(ctx context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.token.RefreshToken == "" {
		return ErrNoRefreshToken
	}
	// An expired copy makes the config's token source use the refresh grant
	stale := *u.token
	stale.Expiry = time.Unix(1, 0)

	next, err := u.config.TokenSource(ctx, &stale).Token()
	if err != nil {
		return fmt.Errorf("failed to refresh token: %w", err)
	}
	u.token = next
	u.logger.WithField("expires_at", next.Expiry.Format(time.RFC3339)).Debug("token refreshed")
	return nil
}

// Run refreshes on the schedule until ctx is done
func (u *TokenUpdater) Run(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(u.schedule, func() {
		if err := u.Refresh(ctx); err != nil {
			u.logger.WithError(err).Warn("scheduled token refresh failed")
		}
	}); err != nil {
		return err
	}
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}

// Start runs the updater in the background under supervision. The returned
// channel is closed after ctx is done and the loop has exited.
func (u *TokenUpdater) Start(ctx context.Context) <-chan struct{} {
	return async.Supervise(ctx, u.logger, "token updater", async.DefaultBackoff, u.Run)
}
