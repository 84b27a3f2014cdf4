// Package scheduler re-fetches tenant records on a fixed interval so that
// brand color edits reach pages that are already open.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Runner performs one refresh pass.
type Runner func(ctx context.Context)

type Scheduler struct {
	mu      sync.Mutex
	every   time.Duration
	lastRun time.Time
	runs    int
	runner  Runner
	logger  zerolog.Logger
}

// New returns a scheduler that calls runner every interval. A non-positive
// interval disables it.
func New(runner Runner, every time.Duration, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		every:  every,
		runner: runner,
		logger: logger,
	}
}

// Start runs the ticker loop until ctx is done.
func (s *Scheduler) Start(ctx context.Context) {
	if s.every <= 0 {
		s.logger.Info().Msg("[scheduler] disabled")
		return
	}
	go func() {
		s.logger.Info().Dur("every", s.every).Msg("[scheduler] started")
		ticker := time.NewTicker(s.every)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				s.logger.Info().Msg("[scheduler] stopped")
				return
			case now := <-ticker.C:
				s.runOnce(ctx, now)
			}
		}
	}()
}

func (s *Scheduler) runOnce(ctx context.Context, now time.Time) {
	s.runner(ctx)

	s.mu.Lock()
	s.lastRun = now
	s.runs++
	s.mu.Unlock()

	s.logger.Debug().Time("at", now).Msg("[scheduler] refresh pass")
}

// LastRun returns when the last pass finished, zero if none has.
func (s *Scheduler) LastRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

// Runs returns the number of completed passes.
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}
