package maintenance

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lofohq/lofo-server/internal/services"
	"github.com/lofohq/lofo-server/pkg/logger"
)

const (
	defaultAlertRetentionDays = 90
	defaultAlertSpec          = "@daily"
	defaultStateSpec          = "@daily"
)

// Cleaner coordinates background maintenance: pruning expired city alerts and
// removing alert overlay state left behind by deleted accounts. A dismissed
// or expired alert's ids may linger in user overlays; that is harmless, the
// overlay sets only suppress alerts that still exist.
type Cleaner struct {
	alerts  *services.AlertService
	states  *services.AlertStateService
	cron    *cron.Cron
	now     func() time.Time
	log     *zap.Logger
	enabled bool

	retention     int
	alertSchedule string
	stateSchedule string
}

// Option customises the Cleaner.
type Option func(*Cleaner)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(cleaner *Cleaner) {
		if c != nil {
			cleaner.cron = c
		}
	}
}

// WithNow overrides the clock used for scheduling and cleanup comparisons.
func WithNow(now func() time.Time) Option {
	return func(cleaner *Cleaner) {
		if now != nil {
			cleaner.now = now
		}
	}
}

// WithAlertRetentionDays adjusts how long city alerts are retained.
func WithAlertRetentionDays(days int) Option {
	return func(cleaner *Cleaner) {
		if days > 0 {
			cleaner.retention = days
		}
	}
}

// WithAlertSchedule overrides the cron specification for alert pruning.
func WithAlertSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.alertSchedule = spec
		}
	}
}

// WithStateSchedule overrides the cron specification for orphaned state cleanup.
func WithStateSchedule(spec string) Option {
	return func(cleaner *Cleaner) {
		if spec != "" {
			cleaner.stateSchedule = spec
		}
	}
}

// NewCleaner constructs a Cleaner with sensible defaults. Any nil dependency
// results in the corresponding cleanup job being skipped.
func NewCleaner(alerts *services.AlertService, states *services.AlertStateService, opts ...Option) *Cleaner {
	cleaner := &Cleaner{
		alerts:        alerts,
		states:        states,
		now:           time.Now,
		retention:     defaultAlertRetentionDays,
		alertSchedule: defaultAlertSpec,
		stateSchedule: defaultStateSpec,
		log:           logger.WithModule("maintenance"),
	}

	for _, opt := range opts {
		opt(cleaner)
	}

	if cleaner.cron == nil {
		cleaner.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	cleaner.enabled = cleaner.alerts != nil || cleaner.states != nil

	return cleaner
}

// Start registers cleanup jobs with the cron scheduler and launches it if at
// least one cleanup is enabled.
func (c *Cleaner) Start() error {
	if !c.enabled {
		return nil
	}

	if c.alerts != nil && c.retention > 0 {
		if _, err := c.cron.AddFunc(c.alertSchedule, func() {
			ctx := context.Background()
			if removed, err := c.alerts.CleanupOlderThan(ctx, c.retention); err != nil {
				c.log.Warn("alert cleanup failed", zap.Error(err))
			} else if removed > 0 {
				c.log.Info("pruned expired alerts", zap.Int64("removed", removed))
			}
		}); err != nil {
			return err
		}
	}

	if c.states != nil {
		if _, err := c.cron.AddFunc(c.stateSchedule, func() {
			ctx := context.Background()
			if _, err := c.states.CleanupOrphaned(ctx); err != nil {
				c.log.Warn("alert state cleanup failed", zap.Error(err))
			}
		}); err != nil {
			return err
		}
	}

	c.cron.Start()
	return nil
}

// Stop halts the underlying scheduler, waiting for any running jobs to complete.
func (c *Cleaner) Stop() context.Context {
	if c.cron == nil {
		return context.Background()
	}
	return c.cron.Stop()
}

// RunOnce executes all configured cleanup routines sequentially. Primarily
// used in tests and during graceful shutdown.
func (c *Cleaner) RunOnce(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var errs error

	if c.alerts != nil && c.retention > 0 {
		if _, err := c.alerts.CleanupOlderThan(ctx, c.retention); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	if c.states != nil {
		if _, err := c.states.CleanupOrphaned(ctx); err != nil {
			errs = multierr.Append(errs, err)
		}
	}

	return errs
}
