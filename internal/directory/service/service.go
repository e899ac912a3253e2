// Package service orchestrates one import run: load the snapshot, reconcile it
// against the store, publish the phone list, converge the store and deliver
// the report.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"phonebook/internal/directory/converge"
	"phonebook/internal/directory/events"
	"phonebook/internal/directory/models"
	"phonebook/internal/directory/phonelist"
	"phonebook/internal/directory/ports"
	"phonebook/internal/directory/reconcile"
	"phonebook/internal/directory/report"
	"phonebook/internal/platform/metrics"
	"phonebook/pkg/platform/sentinel"
)

var tracer = otel.Tracer("phonebook/service")

// Run outcomes reported to metrics.
const (
	outcomeSucceeded = "succeeded"
	outcomeFailed    = "failed"
)

// RunSummary describes a finished run. Fields for stages the run did not
// reach are left zero.
type RunSummary struct {
	RunID        string
	StartedAt    time.Time
	CompletedAt  time.Time
	Result       *models.ReconciliationResult
	Outcome      *models.ConvergenceOutcome
	PhoneNumbers int
}

// Service runs imports. Runs against the same store must not overlap; the
// scheduler enforces that.
type Service struct {
	snapshot ports.SnapshotSource
	users    ports.UserStore
	notifier ports.Notifier

	orgStatus        ports.OrgStatusSource
	requireOrgStatus bool
	reconciler       *reconcile.Reconciler
	extractor        *phonelist.Extractor
	engineOpts       []converge.Option
	engine           *converge.Engine
	sink             ports.PhoneListSink
	publisher        ports.EventPublisher
	detailedReport   bool

	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
	newID   func() string
}

type Option func(*Service)

// WithOrgStatus supplies organisation status reference data. When set, the
// map is read on every run and its absence fails the run.
func WithOrgStatus(source ports.OrgStatusSource) Option {
	return func(s *Service) {
		s.orgStatus = source
	}
}

// RequireOrgStatus fails runs that have no organisation status data instead of
// falling back to the reconciler's default active flag.
func RequireOrgStatus() Option {
	return func(s *Service) {
		s.requireOrgStatus = true
	}
}

func WithReconciler(r *reconcile.Reconciler) Option {
	return func(s *Service) {
		s.reconciler = r
	}
}

func WithExtractor(e *phonelist.Extractor) Option {
	return func(s *Service) {
		s.extractor = e
	}
}

// WithEngineOptions configures the convergence engine built over the user store.
func WithEngineOptions(opts ...converge.Option) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

func WithPhoneListSink(sink ports.PhoneListSink) Option {
	return func(s *Service) {
		s.sink = sink
	}
}

func WithPublisher(publisher ports.EventPublisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

// WithDetailedReport reports created and updated users separately.
func WithDetailedReport() Option {
	return func(s *Service) {
		s.detailedReport = true
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the clock used for run timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// WithRunIDGenerator overrides run id allocation.
func WithRunIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

func New(snapshot ports.SnapshotSource, users ports.UserStore, notifier ports.Notifier, opts ...Option) (*Service, error) {
	if snapshot == nil {
		return nil, errors.New("snapshot source is required")
	}
	if users == nil {
		return nil, errors.New("user store is required")
	}
	if notifier == nil {
		return nil, errors.New("notifier is required")
	}

	s := &Service{
		snapshot:  snapshot,
		users:     users,
		notifier:  notifier,
		publisher: events.NopPublisher{},
		logger:    slog.Default(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.reconciler == nil {
		s.reconciler = reconcile.New(reconcile.WithClock(s.now))
	}
	if s.extractor == nil {
		s.extractor = phonelist.NewExtractor(phonelist.DefaultRegion)
	}

	engineOpts := append([]converge.Option{
		converge.WithLogger(s.logger),
		converge.WithMetrics(s.metrics),
	}, s.engineOpts...)
	engine, err := converge.New(s.users, engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("build convergence engine: %w", err)
	}
	s.engine = engine
	return s, nil
}

// Run performs one import. The report is delivered exactly once whatever the
// outcome, on a context that outlives cancellation of ctx. The returned error
// joins the run failure, if any, with a report delivery failure. The summary
// is returned in both cases.
func (s *Service) Run(ctx context.Context) (summary *RunSummary, err error) {
	summary = &RunSummary{RunID: s.newID(), StartedAt: s.now()}
	logger := s.logger.With("run_id", summary.RunID)

	ctx, span := tracer.Start(ctx, "service.Run",
		trace.WithAttributes(attribute.String("run.id", summary.RunID)),
	)
	defer span.End()

	logger.InfoContext(ctx, "import run started")

	defer func() {
		summary.CompletedAt = s.now()
		err = s.finish(ctx, logger, summary, err)

		s.metrics.ObserveRunDuration(summary.CompletedAt.Sub(summary.StartedAt))
		if err != nil {
			s.metrics.IncrementRun(outcomeFailed)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			logger.ErrorContext(ctx, "import run failed", "error", err)
			return
		}
		s.metrics.IncrementRun(outcomeSucceeded)
		span.SetStatus(codes.Ok, "")
		logger.InfoContext(ctx, "import run finished",
			"duration", summary.CompletedAt.Sub(summary.StartedAt),
		)
	}()

	err = s.run(ctx, logger, summary)
	return summary, err
}

func (s *Service) run(ctx context.Context, logger *slog.Logger, summary *RunSummary) error {
	incoming, err := s.snapshot.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	existing, err := s.users.ReadAll(ctx)
	if err != nil {
		return fmt.Errorf("read existing users: %w", err)
	}

	orgStatus, err := s.loadOrgStatus(ctx)
	if err != nil {
		return err
	}

	result, err := s.reconciler.Reconcile(incoming, existing, orgStatus)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}
	summary.Result = result
	s.metrics.AddReconciled("created", result.Created)
	s.metrics.AddReconciled("updated", result.Updated)
	s.metrics.AddReconciled("inactive", len(result.Inactive))
	s.metrics.AddReconciled("deactivated", result.Deactivated)

	logger.InfoContext(ctx, "users reconciled",
		"incoming", len(incoming),
		"existing", len(existing),
		"active", len(result.Active),
		"inactive", len(result.Inactive),
		"created", result.Created,
		"updated", result.Updated,
	)

	numbers, err := s.extractor.Extract(result.Active)
	if err != nil {
		return fmt.Errorf("extract phone numbers: %w", err)
	}
	summary.PhoneNumbers = len(numbers)
	if s.sink != nil {
		if err := s.sink.WritePhoneNumbers(ctx, numbers); err != nil {
			return fmt.Errorf("write phone numbers: %w", err)
		}
	}

	outcome, err := s.engine.WithRunLogger(logger).Converge(ctx, result.Active, result.Inactive)
	if err != nil {
		return fmt.Errorf("converge users: %w", err)
	}
	summary.Outcome = outcome
	return nil
}

// loadOrgStatus returns nil when no reference data is configured and not
// required, so the reconciler applies its default.
func (s *Service) loadOrgStatus(ctx context.Context) (map[string]bool, error) {
	if s.orgStatus == nil {
		if s.requireOrgStatus {
			return nil, fmt.Errorf("load organisation status: %w: no source configured", sentinel.ErrReferenceDataMissing)
		}
		return nil, nil
	}

	status, err := s.orgStatus.OrgStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("load organisation status: %w", err)
	}
	if len(status) == 0 {
		return nil, fmt.Errorf("load organisation status: %w", sentinel.ErrReferenceDataMissing)
	}
	return status, nil
}

// finish renders the report, publishes the run event and delivers the report.
func (s *Service) finish(ctx context.Context, logger *slog.Logger, summary *RunSummary, runErr error) error {
	ctx = context.WithoutCancel(ctx)

	subject, body := report.SubjectFailure, report.Failure(runErr)
	if runErr == nil {
		opts := []report.Option{report.WithOutcome(summary.Outcome)}
		if s.detailedReport {
			opts = append(opts, report.Detailed())
		}
		subject, body = report.SubjectSuccess, report.Generate(*summary.Result, opts...)
	}

	if err := s.publisher.PublishRunCompleted(ctx, runEvent(summary, runErr)); err != nil {
		logger.WarnContext(ctx, "failed to publish run event", "error", err)
	}

	if err := s.notifier.Deliver(ctx, subject, body); err != nil {
		logger.ErrorContext(ctx, "report delivery failed", "error", err)
		return errors.Join(runErr, fmt.Errorf("deliver report: %w", err))
	}
	return runErr
}

func runEvent(summary *RunSummary, runErr error) models.RunEvent {
	event := models.RunEvent{
		RunID:       summary.RunID,
		Succeeded:   runErr == nil,
		StartedAt:   summary.StartedAt,
		CompletedAt: summary.CompletedAt,
	}
	if runErr != nil {
		event.Error = runErr.Error()
	}
	if r := summary.Result; r != nil {
		event.ImportDate = r.ImportDate
		event.Active = len(r.Active)
		event.Inactive = len(r.Inactive)
		event.Created = r.Created
		event.Updated = r.Updated
	}
	if o := summary.Outcome; o != nil {
		event.Attempts = o.Attempts
		event.Remaining = o.Remaining
		event.Dropped = len(o.Dropped)
		event.Cost = o.Cost
	}
	return event
}
