// Package jobs runs the server's periodic background tasks.
package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/mshelton/car-value-tracker/internal/metrics"
	"github.com/mshelton/car-value-tracker/internal/store"
)

// Scheduler manages periodic maintenance tasks.
type Scheduler struct {
	cron  *cron.Cron
	store store.Store
	log   *slog.Logger
}

// NewScheduler creates a Scheduler that purges expired sessions on the
// given cron schedule.
func NewScheduler(st store.Store, purgeSchedule string, log *slog.Logger) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:  c,
		store: st,
		log:   log,
	}

	if _, err := c.AddFunc(purgeSchedule, s.runSessionPurge); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runSessionPurge() {
	ctx := context.Background()

	purged, err := s.store.DeleteExpiredSessions(ctx)
	if err != nil {
		s.log.Error("session purge failed", "error", err)
		return
	}
	if purged > 0 {
		metrics.SessionsPurgedTotal.Add(float64(purged))
		s.log.Info("purged expired sessions", "count", purged)
	}
}
