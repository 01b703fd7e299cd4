package settlement

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"auction-settlement/internal/biddingerrors"
	"auction-settlement/internal/metrics"
	"auction-settlement/utils"
)

// DefaultInterval matches the once-a-minute cadence of the settlement job
const DefaultInterval = time.Minute

// Runner executes one sweep
type Runner interface {
	Run(ctx context.Context) (Report, error)
}

// Scheduler runs sweeps on a fixed interval and on demand.
// At most one sweep runs at a time; overlapping requests are skipped.
type Scheduler struct {
	runner   Runner
	interval time.Duration

	running atomic.Bool

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewScheduler(runner Runner, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{runner: runner, interval: interval}
}

// Start launches the ticker loop. Calling Start on a started scheduler is a no-op.
func (s *Scheduler) Start(parent context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.loop(ctx, s.done)

	utils.Info("settlement scheduler started", map[string]any{"interval": s.interval.String()})
}

// Stop ends the ticker loop and waits for an in-flight scheduled sweep to return
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	utils.Info("settlement scheduler stopped", nil)
}

// Running reports whether a sweep is in progress
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// Trigger runs a sweep now unless one is already running
func (s *Scheduler) Trigger(ctx context.Context) (Report, error) {
	if !s.running.CompareAndSwap(false, true) {
		metrics.Sweeps.WithLabelValues("skipped").Inc()
		utils.Warn("settlement sweep skipped, previous sweep still running", nil)
		return Report{}, fmt.Errorf("settlement: %w", biddingerrors.ErrSweepInProgress)
	}
	defer s.running.Store(false)

	return s.runner.Run(ctx)
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := s.Trigger(ctx); err != nil {
				utils.Warn("scheduled settlement sweep did not complete", map[string]any{"error": err.Error()})
			}
		}
	}
}
