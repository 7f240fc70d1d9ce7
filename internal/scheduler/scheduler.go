// Package scheduler runs the recurring poll and aggregation jobs. Each job
// is an independent cron entry with its own failure boundary: an error or
// panic in one tick is logged and the entry simply re-arms, without ever
// affecting other jobs or the process.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is the body of a recurring task.
type Job func(ctx context.Context) error

// Scheduler manages periodic tasks
type Scheduler struct {
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration
}

// New creates a scheduler. Jobs are skipped (not queued) if their previous
// tick is still running.
func New(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger,
		timeout: 5 * time.Minute,
	}
}

// AddJob schedules job to run every interval. Each tick gets a fresh timeout
// context.
func (s *Scheduler) AddJob(name string, interval time.Duration, job Job) error {
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		s.runJob(name, job)
	})
	if err != nil {
		return fmt.Errorf("schedule job %s: %w", name, err)
	}
	s.logger.Info("scheduled job", "job", name, "interval", interval.String())
	return nil
}

func (s *Scheduler) runJob(name string, job Job) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("job panicked", "job", name, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := job(ctx); err != nil {
		s.logger.Error("job failed", "job", name, "error", err)
		return
	}
	s.logger.Debug("job finished", "job", name, "elapsed", time.Since(start).String())
}

// Start begins running scheduled jobs
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler. The returned context is done once in-flight jobs
// have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
