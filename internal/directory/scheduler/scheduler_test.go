package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonebook/internal/directory/service"
)

type runnerFunc func(ctx context.Context) (*service.RunSummary, error)

func (f runnerFunc) Run(ctx context.Context) (*service.RunSummary, error) {
	return f(ctx)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew(t *testing.T) {
	_, err := New(nil, time.Second)
	assert.ErrorContains(t, err, "runner is required")

	_, err = New(runnerFunc(nil), 0)
	assert.ErrorContains(t, err, "interval must be positive")
}

func TestTriggerIsSingleFlight(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32
	runner := runnerFunc(func(ctx context.Context) (*service.RunSummary, error) {
		if calls.Add(1) == 1 {
			close(started)
			<-release
		}
		return &service.RunSummary{RunID: "run-1"}, nil
	})

	s, err := New(runner, time.Hour, WithLogger(quietLogger()))
	require.NoError(t, err)

	done := make(chan *service.RunSummary)
	go func() {
		summary, _ := s.Trigger(context.Background())
		done <- summary
	}()
	<-started

	_, err = s.Trigger(context.Background())
	assert.ErrorIs(t, err, ErrRunInProgress)
	assert.ErrorIs(t, s.Start(context.Background()), ErrRunInProgress)

	close(release)
	assert.Equal(t, "run-1", (<-done).RunID)

	_, err = s.Trigger(context.Background())
	assert.NoError(t, err, "lock is released after the run")
}

func TestRunTicksUntilCancelled(t *testing.T) {
	var runs atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := runnerFunc(func(context.Context) (*service.RunSummary, error) {
		if runs.Add(1) == 3 {
			cancel()
		}
		return nil, errors.New("run failed")
	})

	s, err := New(runner, time.Millisecond, WithLogger(quietLogger()))
	require.NoError(t, err)

	err = s.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.GreaterOrEqual(t, runs.Load(), int32(3), "failures do not stop the loop")
}

func TestStartRunsInBackground(t *testing.T) {
	finished := make(chan struct{})
	runner := runnerFunc(func(context.Context) (*service.RunSummary, error) {
		defer close(finished)
		return &service.RunSummary{RunID: "run-bg"}, nil
	})

	s, err := New(runner, time.Hour, WithLogger(quietLogger()))
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("background run did not finish")
	}
}
