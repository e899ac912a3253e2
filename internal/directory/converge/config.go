package converge

import (
	"fmt"
	"time"

	"phonebook/pkg/platform/sentinel"
)

// Config bounds the batching and retry behaviour of the engine.
type Config struct {
	// BatchSize is the number of operations sent in one bulk write call.
	BatchSize int
	// MaxAttempts caps the outer passes over the working set.
	MaxAttempts int
	// AttemptBackoff is slept between outer passes while records remain.
	AttemptBackoff time.Duration
	// BatchBackoff is slept between consecutive bulk write calls of a pass.
	BatchBackoff time.Duration
}

func DefaultConfig() Config {
	return Config{
		BatchSize:      100,
		MaxAttempts:    10,
		AttemptBackoff: 10 * time.Second,
		BatchBackoff:   time.Second,
	}
}

func (c Config) Validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: batch size must be positive, got %d", sentinel.ErrInvalidInput, c.BatchSize)
	}
	if c.MaxAttempts < 1 {
		return fmt.Errorf("%w: max attempts must be positive, got %d", sentinel.ErrInvalidInput, c.MaxAttempts)
	}
	if c.AttemptBackoff < 0 || c.BatchBackoff < 0 {
		return fmt.Errorf("%w: backoff durations must not be negative", sentinel.ErrInvalidInput)
	}
	return nil
}
