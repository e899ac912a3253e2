// Package scheduler runs imports periodically and on demand, never more than
// one at a time.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"phonebook/internal/directory/service"
)

// ErrRunInProgress is returned by Trigger while another run holds the lock.
var ErrRunInProgress = errors.New("import run already in progress")

// Runner performs one import run.
type Runner interface {
	Run(ctx context.Context) (*service.RunSummary, error)
}

type Scheduler struct {
	runner   Runner
	interval time.Duration
	logger   *slog.Logger

	mu sync.Mutex
}

type Option func(*Scheduler)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

func New(runner Runner, interval time.Duration, opts ...Option) (*Scheduler, error) {
	if runner == nil {
		return nil, errors.New("runner is required")
	}
	if interval <= 0 {
		return nil, errors.New("interval must be positive")
	}
	s := &Scheduler{runner: runner, interval: interval, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run starts an import immediately and then on every interval tick until ctx
// is cancelled. A tick that fires while a run is in flight is skipped. Run
// failures are logged; they do not stop the loop.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if _, err := s.Trigger(ctx); err != nil {
		if errors.Is(err, ErrRunInProgress) {
			s.logger.WarnContext(ctx, "skipping scheduled import, previous run still in progress")
			return
		}
		s.logger.ErrorContext(ctx, "scheduled import failed", "error", err)
	}
}

// Trigger runs one import synchronously, or returns ErrRunInProgress without
// waiting when another run is active.
func (s *Scheduler) Trigger(ctx context.Context) (*service.RunSummary, error) {
	if !s.mu.TryLock() {
		return nil, ErrRunInProgress
	}
	defer s.mu.Unlock()
	return s.runner.Run(ctx)
}

// Start runs one import in the background and returns ErrRunInProgress when
// another run is active. ctx bounds the background run, so it must outlive
// the caller's request. The run's result is only logged.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.mu.TryLock() {
		return ErrRunInProgress
	}
	go func() {
		defer s.mu.Unlock()
		summary, err := s.runner.Run(ctx)
		if err != nil {
			s.logger.ErrorContext(ctx, "triggered import failed", "error", err)
			return
		}
		s.logger.InfoContext(ctx, "triggered import finished", "run_id", summary.RunID)
	}()
	return nil
}
