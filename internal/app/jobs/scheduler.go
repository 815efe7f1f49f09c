// Package jobs runs the periodic maintenance work: re-driving approval
// fan-outs that never completed and pruning old read notifications.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/yigit/placementprep/internal/app/events"
	"github.com/yigit/placementprep/internal/app/models"
)

// ReconcileBatchSize caps how many companies one sweep re-drives
const ReconcileBatchSize = 100

// CompanySource finds approved companies that never got their notification batch
type CompanySource interface {
	ListApprovedWithoutBatch(ctx context.Context, notifType models.NotificationType, limit uint64) ([]*models.Company, error)
}

// Notifier is the part of the notification service the jobs drive
type Notifier interface {
	FanOutNewCompany(ctx context.Context, e events.Event) error
	PruneSeen(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Config holds the schedules and limits
type Config struct {
	ReconcileSchedule string
	PruneSchedule     string
	Retention         time.Duration
	Workers           int
	FanOutTimeout     time.Duration
}

// Scheduler wraps robfig/cron and owns the maintenance jobs
type Scheduler struct {
	cron      *cron.Cron
	companies CompanySource
	notifier  Notifier
	config    Config
	logger    zerolog.Logger

	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a Scheduler
func NewScheduler(companies CompanySource, notifier Notifier, config Config, logger zerolog.Logger) *Scheduler {
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &Scheduler{
		// A sweep that is still running when the next tick fires is skipped
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		companies: companies,
		notifier:  notifier,
		config:    config,
		logger:    logger.With().Str("component", "jobs").Logger(),
	}
}

// Start registers the jobs and starts the cron loop
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx, s.cancel = context.WithCancel(context.Background())

	if _, err := s.cron.AddFunc(s.config.ReconcileSchedule, func() { s.runReconcile(s.ctx) }); err != nil {
		return fmt.Errorf("register reconcile job: %w", err)
	}
	if _, err := s.cron.AddFunc(s.config.PruneSchedule, func() { s.runPrune(s.ctx) }); err != nil {
		return fmt.Errorf("register prune job: %w", err)
	}

	s.cron.Start()
	s.logger.Info().
		Str("reconcile", s.config.ReconcileSchedule).
		Str("prune", s.config.PruneSchedule).
		Msg("Scheduler started")
	return nil
}

// Stop cancels running jobs and waits for them to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Scheduler stopped")
}

func (s *Scheduler) runReconcile(ctx context.Context) {
	n, err := s.Reconcile(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Reconcile sweep failed")
		return
	}
	if n > 0 {
		s.logger.Info().Int("companies", n).Msg("Reconcile sweep re-drove fan-outs")
	}
}

func (s *Scheduler) runPrune(ctx context.Context) {
	n, err := s.notifier.PruneSeen(ctx, s.config.Retention)
	if err != nil {
		s.logger.Error().Err(err).Msg("Notification prune failed")
		return
	}
	s.logger.Info().Int64("deleted", n).Msg("Pruned seen notifications")
}

// Reconcile runs the fan-out for every approved company that has no
// notification batch, a bounded number at a time. It returns how many
// companies were attempted. Individual failures are logged; the company is
// picked up again on the next sweep.
func (s *Scheduler) Reconcile(ctx context.Context) (int, error) {
	companies, err := s.companies.ListApprovedWithoutBatch(ctx, models.NotificationNewCompany, ReconcileBatchSize)
	if err != nil {
		return 0, fmt.Errorf("list companies without notifications: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.Workers)
	for _, c := range companies {
		e := events.Event{
			Name:        events.CompanyApproved,
			CompanyID:   c.ID,
			CompanyName: c.Name,
			OccurredAt:  time.Now().UTC(),
		}
		g.Go(func() error {
			fctx := gctx
			if s.config.FanOutTimeout > 0 {
				var cancel context.CancelFunc
				fctx, cancel = context.WithTimeout(gctx, s.config.FanOutTimeout)
				defer cancel()
			}
			if err := s.notifier.FanOutNewCompany(fctx, e); err != nil {
				s.logger.Warn().Err(err).Str("companyID", e.CompanyID.String()).Msg("Reconcile fan-out failed")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return len(companies), err
	}
	return len(companies), nil
}
