// Package scheduler runs the periodic game log refresh.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/chiefotto/clustercalculator/internal/models"
)

// Refresher performs one game log upsert
type Refresher interface {
	RefreshGameLogs(ctx context.Context) (models.UpsertResult, error)
}

// Scheduler manages the scheduled refresh jobs
type Scheduler struct {
	cron       *cron.Cron
	refresher  Refresher
	logger     *logrus.Entry
	mu         sync.RWMutex
	runMu      sync.Mutex
	isRunning  bool
	jobIDs     []cron.EntryID
	jobTimeout time.Duration
	lastResult models.UpsertResult
	lastRun    time.Time
	lastRunErr error
}

// NewScheduler creates a new scheduler. Overlapping runs of the same job are skipped.
func NewScheduler(refresher Refresher, logger *logrus.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger))),
		),
		refresher:  refresher,
		logger:     logger.WithField("component", "scheduler"),
		jobIDs:     make([]cron.EntryID, 0),
		jobTimeout: 10 * time.Minute,
	}
}

// ScheduleRefresh schedules the game log refresh on a cron expression
func (s *Scheduler) ScheduleRefresh(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		s.RunNow(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled game log refresh")

	return nil
}

// RunNow runs one refresh synchronously. Concurrent calls are serialized so the
// store only ever has one writer.
func (s *Scheduler) RunNow(ctx context.Context) (models.UpsertResult, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	result, err := s.refresher.RefreshGameLogs(ctx)

	s.mu.Lock()
	s.lastRun = time.Now()
	s.lastRunErr = err
	if err == nil {
		s.lastResult = result
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.WithError(err).Error("Scheduled game log refresh failed")
		return result, err
	}
	s.logger.WithFields(logrus.Fields{
		"added": result.Added,
		"total": result.Total,
	}).Info("Scheduled game log refresh completed")
	return result, nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits for running jobs
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}

// LastRun returns the outcome of the most recent refresh
func (s *Scheduler) LastRun() (time.Time, models.UpsertResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun, s.lastResult, s.lastRunErr
}
