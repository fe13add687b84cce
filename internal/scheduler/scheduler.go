// Package scheduler drives the periodic live-refresh cycle: poll the score
// provider, apply updates to the league, re-simulate, and push the fresh
// snapshot to websocket clients.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/wildcard-sim/internal/service"
)

// Each refresh job gets this long before its context is cancelled. Kept under
// the default 40s schedule so cycles never stack.
const jobTimeout = 30 * time.Second

// Broadcaster pushes a snapshot to connected clients. The api hub implements
// it; tests substitute a recorder.
type Broadcaster interface {
	Broadcast(v interface{})
}

// Scheduler owns the cron runner for the refresh job.
type Scheduler struct {
	cron            *cron.Cron
	refresher       *service.Refresher
	sims            *service.SimulationService
	hub             Broadcaster
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
}

// New creates a scheduler. The hub may be nil when nothing consumes snapshots.
func New(refresher *service.Refresher, sims *service.SimulationService, hub Broadcaster, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		refresher:       refresher,
		sims:            sims,
		hub:             hub,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleRefresh registers the refresh job on the given cron schedule, e.g.
// "@every 40s". When simulateAfter is set, each successful refresh re-runs
// the simulation and broadcasts the snapshot.
func (s *Scheduler) ScheduleRefresh(schedule string, simulateAfter bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		report, err := s.refresher.Refresh(ctx)
		if err != nil {
			s.logger.WithError(err).Warn("Scheduled refresh failed")
			return
		}
		if !simulateAfter {
			return
		}

		snapshot, err := s.sims.Snapshot(ctx, 0)
		if err != nil {
			s.logger.WithError(err).Warn("Post-refresh simulation failed")
			return
		}
		if s.hub != nil {
			s.hub.Broadcast(snapshot)
		}

		s.logger.WithFields(logrus.Fields{
			"updated":   report.Updated,
			"unchanged": report.Unchanged,
			"finals":    report.Finals,
		}).Debug("Refresh cycle broadcast")
	}

	entryID, err := s.cron.AddFunc(schedule, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("schedule", schedule).Info("Scheduled live refresh job")

	return nil
}

// Start starts the scheduler.
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

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(s.gracefulTimeout):
		s.logger.Warn("Scheduler stop timed out with a job still running")
	}
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled job run.
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}
