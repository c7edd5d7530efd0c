// Package scheduler runs the periodic price refresh.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// DefaultInterval matches the one-minute refresh cadence of the price views.
const DefaultInterval = 60 * time.Second

// Refresher is the job run on every tick.
type Refresher interface {
	RefreshPrices(ctx context.Context) error
}

// Scheduler triggers a refresh at a fixed interval. Runs are not
// serialized; a slow run may overlap the next one.
type Scheduler struct {
	job      Refresher
	cron     *cron.Cron
	interval time.Duration
	timeout  time.Duration
	logger   logrus.FieldLogger
}

// New creates a scheduler. Each run is bounded by timeout (or the interval
// when timeout is zero).
func New(job Refresher, interval, timeout time.Duration, logger logrus.FieldLogger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if timeout <= 0 {
		timeout = interval
	}
	return &Scheduler{
		job:      job,
		cron:     cron.New(),
		interval: interval,
		timeout:  timeout,
		logger:   logger.WithField("component", "scheduler"),
	}
}

// Start schedules the job and fires one run immediately.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.WithField("interval", s.interval).Info("Starting price refresh scheduler")

	schedule := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(schedule, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}

	s.cron.Start()

	// Run initial refresh
	go s.run(ctx)

	return nil
}

// Stop halts scheduling and waits for running jobs until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info("Stopping price refresh scheduler")
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("Price refresh still running at shutdown")
	}
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.job.RefreshPrices(runCtx); err != nil {
		// The job logs its own failure detail.
		return
	}
	s.logger.WithField("duration_ms", time.Since(start).Milliseconds()).Debug("Price refresh completed")
}
