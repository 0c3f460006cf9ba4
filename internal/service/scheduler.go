package service

import (
	"context"
	"sync"
	"time"

	"auradash/internal/logger"
)

// Scheduler states.
const (
	StateStopped = "stopped"
	StateRunning = "running"
	StatePaused  = "paused"
)

// DefaultSyncInterval is used when config supplies no interval.
const DefaultSyncInterval = 60 * time.Second

// SyncScheduler drives the sync engine at a fixed interval. Cancellation
// only prevents future passes: an in-flight pass runs to completion, and
// the transport's own timeouts bound how long that can take.
type SyncScheduler struct {
	syncer   Syncer
	interval time.Duration
	log      *logger.Logger

	mu     sync.Mutex
	state  string
	cancel context.CancelFunc
}

func NewSyncScheduler(syncer Syncer, interval time.Duration, log *logger.Logger) *SyncScheduler {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	return &SyncScheduler{
		syncer:   syncer,
		interval: interval,
		log:      log,
		state:    StateStopped,
	}
}

// Start begins periodic passes. Calling Start while already running
// cancels the previous timer first — the scheduler is never
// double-scheduled.
func (s *SyncScheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.startLocked()
}

// Pause stops the timer until Resume; called when the app is backgrounded.
func (s *SyncScheduler) Pause() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRunning {
		return
	}
	s.cancelLocked()
	s.state = StatePaused
	s.log.Infow("sync_scheduler_paused")
}

// Resume restarts the timer immediately after a Pause. The first pass
// still waits one full interval.
func (s *SyncScheduler) Resume() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePaused {
		return
	}
	s.startLocked()
}

// Stop cancels the timer and returns the scheduler to its initial state.
func (s *SyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
	s.state = StateStopped
	s.log.Infow("sync_scheduler_stopped")
}

func (s *SyncScheduler) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *SyncScheduler) startLocked() {
	s.cancelLocked()

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.state = StateRunning

	s.log.Infow("sync_scheduler_started", "interval", s.interval)
	go s.loop(ctx)
}

func (s *SyncScheduler) cancelLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *SyncScheduler) loop(ctx context.Context) {
	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.syncer.RunPass(ctx); err != nil {
				s.log.Errorw("sync_pass_failed", "err", err)
			}
		}
	}
}
