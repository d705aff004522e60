package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/platinummonkey/rococo/pkg/observability"
	"github.com/platinummonkey/rococo/pkg/storage"
	"github.com/robfig/cron/v3"
)

// DefaultPurgeSchedule runs the purge every 15 minutes
const DefaultPurgeSchedule = "*/15 * * * *"

const purgeTimeout = time.Minute

// Purger periodically deletes expired authorization codes and refresh tokens
type Purger struct {
	repo   storage.AuthRepository
	logger *observability.Logger
	cron   *cron.Cron
	now    func() time.Time
}

// NewPurger schedules the purge. An empty schedule uses DefaultPurgeSchedule.
func NewPurger(repo storage.AuthRepository, schedule string, logger *observability.Logger) (*Purger, error) {
	if schedule == "" {
		schedule = DefaultPurgeSchedule
	}
	p := &Purger{
		repo:   repo,
		logger: logger,
		cron:   cron.New(),
		now:    time.Now,
	}

	_, err := p.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), purgeTimeout)
		defer cancel()
		if _, err := p.Purge(ctx); err != nil {
			p.logger.WithError(err).Error("purge of expired grants failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid purge schedule %q: %w", schedule, err)
	}
	return p, nil
}

// Purge deletes everything that expired before now
func (p *Purger) Purge(ctx context.Context) (int64, error) {
	n, err := p.repo.PurgeExpired(ctx, p.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		p.logger.WithField("deleted", n).Info("purged expired grants")
	}
	return n, nil
}

// Start runs the schedule in the background
func (p *Purger) Start() {
	p.cron.Start()
}

// Stop stops scheduling and waits for a running purge, bounded by ctx
func (p *Purger) Stop(ctx context.Context) error {
	select {
	case <-p.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
