package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hirepath/hirepath/internal/models"
	"github.com/hirepath/hirepath/internal/services"
	"github.com/hirepath/hirepath/pkg/logger"
)

const defaultSweepSpec = "@daily"

// Sweeper auto-rejects applications that sat untouched longer than their
// job's auto_reject_after_days window. Rejections go through the pipeline
// service so the usual ledger entry is written, with a nil actor marking
// them as system generated.
type Sweeper struct {
	db       *gorm.DB
	pipeline *services.PipelineService
	cron     *cron.Cron
	now      func() time.Time
	log      *zap.Logger
	schedule string
}

// Option customises the Sweeper.
type Option func(*Sweeper)

// WithCron injects a preconfigured cron instance, primarily for testing.
func WithCron(c *cron.Cron) Option {
	return func(s *Sweeper) {
		if c != nil {
			s.cron = c
		}
	}
}

// WithNow overrides the clock used for staleness comparisons.
func WithNow(now func() time.Time) Option {
	return func(s *Sweeper) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSchedule overrides the cron specification for the sweep.
func WithSchedule(spec string) Option {
	return func(s *Sweeper) {
		if spec != "" {
			s.schedule = spec
		}
	}
}

// NewSweeper constructs a Sweeper with sensible defaults.
func NewSweeper(db *gorm.DB, pipeline *services.PipelineService, opts ...Option) *Sweeper {
	sweeper := &Sweeper{
		db:       db,
		pipeline: pipeline,
		now:      time.Now,
		log:      logger.WithModule("maintenance"),
		schedule: defaultSweepSpec,
	}

	for _, opt := range opts {
		opt(sweeper)
	}

	if sweeper.cron == nil {
		sweeper.cron = cron.New(cron.WithLogger(cron.DiscardLogger))
	}

	return sweeper
}

// Start registers the sweep with the cron scheduler and launches it.
func (s *Sweeper) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, func() {
		ctx := context.Background()
		rejected, err := s.SweepOnce(ctx)
		if err != nil {
			s.log.Warn("auto-reject sweep finished with errors",
				zap.Int("rejected", rejected),
				zap.Error(err),
			)
			return
		}
		if rejected > 0 {
			s.log.Info("auto-reject sweep finished", zap.Int("rejected", rejected))
		}
	}); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts the scheduler, waiting for a running sweep to finish.
func (s *Sweeper) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// SweepOnce runs a single sweep across all organizations. It returns how
// many applications were rejected; per-application failures are aggregated
// rather than aborting the sweep.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	var jobs []models.Job
	if err := s.db.WithContext(ctx).
		Where("auto_reject_after_days IS NOT NULL AND auto_reject_after_days > 0").
		Where("status = ?", models.JobStatusOpen).
		Find(&jobs).Error; err != nil {
		return 0, fmt.Errorf("maintenance: load jobs: %w", err)
	}

	scope := services.SystemScope()
	now := s.now()

	var rejected int
	var errs error
	for _, job := range jobs {
		cutoff := now.AddDate(0, 0, -*job.AutoRejectAfterDays)

		var stale []models.JobApplication
		if err := s.db.WithContext(ctx).
			Where("job_id = ?", job.ID).
			Where("status IN ?", []models.ApplicationStatus{models.ApplicationActive, models.ApplicationOnHold}).
			Where("stage_updated_at < ?", cutoff).
			Find(&stale).Error; err != nil {
			errs = multierr.Append(errs, fmt.Errorf("maintenance: load applications for job %s: %w", job.ID, err))
			continue
		}

		reason := fmt.Sprintf("Automatically rejected after %d days of inactivity", *job.AutoRejectAfterDays)
		for _, app := range stale {
			if _, err := s.pipeline.Reject(ctx, scope, app.ID, reason, nil); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("maintenance: reject application %s: %w", app.ID, err))
				continue
			}
			rejected++
		}
	}

	return rejected, errs
}
