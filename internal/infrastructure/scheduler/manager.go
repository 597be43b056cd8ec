// Package scheduler provides unified scheduler management using gocron v2.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/orris-inc/helpdesk/internal/shared/biztime"
	"github.com/orris-inc/helpdesk/internal/shared/logger"
)

const (
	defaultRelayInterval = 5 * time.Second
	relayRunTimeout      = time.Minute
	cleanupRunTimeout    = 10 * time.Minute
)

// BatchJob defines the interface for a scheduled batch processing job.
// Each Execute call processes a batch and returns the number of items processed.
type BatchJob interface {
	Execute(ctx context.Context) (int, error)
}

// SchedulerManager owns the gocron scheduler. Jobs derive their context from the
// one passed to Start, so cancelling it stops in-flight work.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	baseCtx   context.Context
	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a new SchedulerManager instance.
// It initializes gocron with the business timezone for cron expressions.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
		baseCtx:   context.Background(),
	}, nil
}

// RegisterOutboxRelayJob publishes pending outbox messages every interval.
// Singleton mode keeps a slow batch from overlapping the next one.
func (m *SchedulerManager) RegisterOutboxRelayJob(relayJob BatchJob, interval time.Duration) error {
	if interval <= 0 {
		interval = defaultRelayInterval
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(m.context(), relayRunTimeout)
			defer cancel()
			m.runBatch(ctx, "outbox relay", relayJob)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("outbox", "notification"),
		gocron.WithName("outbox-relay"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered outbox relay job", "interval", interval)
	return nil
}

// RegisterOutboxCleanupJob purges delivered outbox messages daily at 04:00 business time.
func (m *SchedulerManager) RegisterOutboxCleanupJob(cleanupJob BatchJob) error {
	_, err := m.scheduler.NewJob(
		gocron.CronJob("0 4 * * *", false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(m.context(), cleanupRunTimeout)
			defer cancel()
			m.runBatch(ctx, "outbox cleanup", cleanupJob)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("outbox", "cleanup"),
		gocron.WithName("outbox-cleanup"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered outbox cleanup job", "schedule", "04:00")
	return nil
}

func (m *SchedulerManager) runBatch(ctx context.Context, name string, job BatchJob) {
	startTime := biztime.NowUTC()

	count, err := job.Execute(ctx)
	if err != nil {
		// Don't log error if context was cancelled (graceful shutdown)
		if ctx.Err() != nil && m.context().Err() != nil {
			return
		}
		m.logger.Errorw("scheduled job failed",
			"job", name,
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	if count > 0 {
		m.logger.Infow("scheduled job processed items",
			"job", name,
			"count", count,
			"duration", time.Since(startTime),
		)
	}
}

func (m *SchedulerManager) context() context.Context {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.baseCtx
}

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start(ctx context.Context) {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.baseCtx = ctx
	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop gracefully stops the scheduler.
// It waits for all running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

// IsStarted returns whether the scheduler is running.
func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
