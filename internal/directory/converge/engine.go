// Package converge drives the reconciled record set into the user store
// through bounded batches, retrying only rate-limited items across a bounded
// number of attempts.
package converge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"phonebook/internal/directory/models"
	"phonebook/internal/directory/ports"
	"phonebook/internal/platform/metrics"
)

var tracer = otel.Tracer("phonebook/converge")

// Write item results reported to metrics.
const (
	resultAcknowledged = "acknowledged"
	resultRateLimited  = "rate_limited"
	resultDropped      = "dropped"
)

// Engine is serial by construction: one bulk write call is in flight at a time.
type Engine struct {
	writer  ports.BulkWriter
	config  Config
	sleeper Sleeper
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Engine)

func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.config = cfg
	}
}

func WithSleeper(sleeper Sleeper) Option {
	return func(e *Engine) {
		e.sleeper = sleeper
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

func New(writer ports.BulkWriter, opts ...Option) (*Engine, error) {
	if writer == nil {
		return nil, errors.New("bulk writer is required")
	}

	e := &Engine{
		writer:  writer,
		config:  DefaultConfig(),
		sleeper: TimerSleeper,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	if err := e.config.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// WithRunLogger returns a copy of the engine that logs to logger.
func (e *Engine) WithRunLogger(logger *slog.Logger) *Engine {
	c := *e
	c.logger = logger
	return &c
}

// Converge upserts active followed by inactive until every record is
// acknowledged or the attempt budget is spent. Running out of attempts is not
// an error: the records still pending are reported in the outcome. A failed
// bulk write call, a malformed response, or a cancelled context aborts the
// convergence with an error.
func (e *Engine) Converge(ctx context.Context, active, inactive []models.UserRecord) (*models.ConvergenceOutcome, error) {
	working := workingSet(active, inactive)
	outcome := &models.ConvergenceOutcome{}

	ctx, span := tracer.Start(ctx, "converge.Converge",
		trace.WithAttributes(
			attribute.Int("converge.records", len(working)),
			attribute.Int("converge.batch_size", e.config.BatchSize),
		),
	)
	defer span.End()

	for attempt := 1; attempt <= e.config.MaxAttempts && len(working) > 0; attempt++ {
		outcome.Attempts = attempt
		e.metrics.IncrementAttempt()

		pending, err := e.attempt(ctx, attempt, working, outcome)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		working = pending

		if len(working) > 0 && attempt < e.config.MaxAttempts {
			e.logger.InfoContext(ctx, "records still rate limited, backing off",
				"attempt", attempt,
				"remaining", len(working),
				"backoff", e.config.AttemptBackoff,
			)
			if err := e.sleeper.Sleep(ctx, e.config.AttemptBackoff); err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "cancelled during attempt backoff")
				return nil, fmt.Errorf("attempt backoff: %w", err)
			}
		}
	}

	outcome.Remaining = len(working)
	for _, rec := range working {
		outcome.RemainingIDs = append(outcome.RemainingIDs, rec.ID)
	}
	e.metrics.SetUnconverged(outcome.Remaining)

	if outcome.Remaining > 0 {
		e.logger.WarnContext(ctx, "convergence attempts exhausted",
			"attempts", outcome.Attempts,
			"remaining", outcome.Remaining,
		)
	}
	e.logger.InfoContext(ctx, "convergence finished",
		"attempts", outcome.Attempts,
		"acknowledged", outcome.Acknowledged,
		"dropped", len(outcome.Dropped),
		"remaining", outcome.Remaining,
		"cost", outcome.Cost,
	)

	span.SetAttributes(
		attribute.Int("converge.attempts", outcome.Attempts),
		attribute.Int("converge.remaining", outcome.Remaining),
		attribute.Float64("converge.cost", outcome.Cost),
	)
	span.SetStatus(codes.Ok, "")
	return outcome, nil
}

// attempt makes one pass over working in batches and returns the records that
// were rate limited, in their original order.
func (e *Engine) attempt(ctx context.Context, attempt int, working []models.UserRecord, outcome *models.ConvergenceOutcome) ([]models.UserRecord, error) {
	ctx, span := tracer.Start(ctx, "converge.Attempt",
		trace.WithAttributes(
			attribute.Int("converge.attempt", attempt),
			attribute.Int("converge.working_set", len(working)),
		),
	)
	defer span.End()

	var pending []models.UserRecord
	batches := (len(working) + e.config.BatchSize - 1) / e.config.BatchSize

	for n := 0; n < batches; n++ {
		start := n * e.config.BatchSize
		end := min(start+e.config.BatchSize, len(working))
		batch := working[start:end]

		results, err := e.writer.Bulk(ctx, operations(batch))
		if err != nil {
			return nil, fmt.Errorf("bulk write attempt %d batch %d: %w", attempt, n+1, err)
		}
		if len(results) != len(batch) {
			return nil, fmt.Errorf("bulk write attempt %d batch %d: got %d results for %d operations",
				attempt, n+1, len(results), len(batch))
		}

		var acknowledged, limited, dropped int
		var cost float64
		for i, res := range results {
			rec := batch[i]
			switch {
			case res.Succeeded():
				acknowledged++
				cost += res.RequestCharge
				e.metrics.IncrementWriteItem(resultAcknowledged)
			case res.RateLimited():
				limited++
				pending = append(pending, rec)
				e.metrics.IncrementWriteItem(resultRateLimited)
				e.logger.WarnContext(ctx, "write rate limited",
					"id", rec.ID,
					"status", res.StatusCode,
				)
			default:
				dropped++
				outcome.Dropped = append(outcome.Dropped, rec.ID)
				e.metrics.IncrementWriteItem(resultDropped)
				e.logger.ErrorContext(ctx, "write rejected, record dropped",
					"id", rec.ID,
					"status", res.StatusCode,
					"message", res.Message,
				)
			}
		}

		outcome.Acknowledged += acknowledged
		outcome.Cost += cost
		e.metrics.AddRequestUnits(cost)

		e.logger.InfoContext(ctx, "batch written",
			"attempt", attempt,
			"batch", n+1,
			"batches", batches,
			"size", len(batch),
			"acknowledged", acknowledged,
			"rate_limited", limited,
			"dropped", dropped,
			"cost", cost,
		)

		if n+1 < batches {
			if err := e.sleeper.Sleep(ctx, e.config.BatchBackoff); err != nil {
				return nil, fmt.Errorf("batch backoff: %w", err)
			}
		}
	}

	span.SetAttributes(attribute.Int("converge.pending", len(pending)))
	return pending, nil
}

// workingSet orders active before inactive records. A repeated id replaces the
// earlier record at its position so each id is written once per pass.
func workingSet(active, inactive []models.UserRecord) []models.UserRecord {
	positions := make(map[string]int, len(active)+len(inactive))
	out := make([]models.UserRecord, 0, len(active)+len(inactive))
	for _, group := range [][]models.UserRecord{active, inactive} {
		for _, rec := range group {
			if pos, ok := positions[rec.ID]; ok {
				out[pos] = rec
				continue
			}
			positions[rec.ID] = len(out)
			out = append(out, rec)
		}
	}
	return out
}

func operations(batch []models.UserRecord) []models.BulkOperation {
	ops := make([]models.BulkOperation, len(batch))
	for i, rec := range batch {
		ops[i] = models.BulkOperation{
			Type:         models.OperationUpsert,
			PartitionKey: rec.ID,
			Body:         rec,
		}
	}
	return ops
}
