package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for import runs. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	// Runs by outcome: "succeeded", "failed"
	Runs *prometheus.CounterVec

	// Reconciled records by category: "created", "updated", "inactive", "deactivated"
	Reconciled *prometheus.CounterVec

	// Bulk write items by result: "acknowledged", "rate_limited", "dropped"
	WriteItems *prometheus.CounterVec

	ConvergenceAttempts prometheus.Counter
	RequestUnits        prometheus.Counter
	Unconverged         prometheus.Gauge
	RunDuration         prometheus.Histogram
}

// New creates the import metrics and registers them with reg. Passing nil
// registers with the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "phonebook_import_runs_total",
			Help: "Total import runs by outcome",
		}, []string{"outcome"}),

		Reconciled: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "phonebook_import_records_reconciled_total",
			Help: "Records classified by the reconciler, by category",
		}, []string{"category"}),

		WriteItems: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "phonebook_import_write_items_total",
			Help: "Bulk write items by result",
		}, []string{"result"}),

		ConvergenceAttempts: factory.NewCounter(prometheus.CounterOpts{
			Name: "phonebook_import_convergence_attempts_total",
			Help: "Outer convergence attempts started",
		}),

		RequestUnits: factory.NewCounter(prometheus.CounterOpts{
			Name: "phonebook_import_request_units_total",
			Help: "Request units charged by the store for acknowledged writes",
		}),

		Unconverged: factory.NewGauge(prometheus.GaugeOpts{
			Name: "phonebook_import_unconverged_records",
			Help: "Records still rate limited when the last run exhausted its attempts",
		}),

		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "phonebook_import_run_duration_seconds",
			Help:    "Duration of a full import run including report delivery",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		}),
	}
}

// IncrementRun records a finished run.
func (m *Metrics) IncrementRun(outcome string) {
	if m != nil {
		m.Runs.WithLabelValues(outcome).Inc()
	}
}

// AddReconciled records n records classified into category.
func (m *Metrics) AddReconciled(category string, n int) {
	if m != nil {
		m.Reconciled.WithLabelValues(category).Add(float64(n))
	}
}

// IncrementWriteItem records one bulk write item result.
func (m *Metrics) IncrementWriteItem(result string) {
	if m != nil {
		m.WriteItems.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) IncrementAttempt() {
	if m != nil {
		m.ConvergenceAttempts.Inc()
	}
}

func (m *Metrics) AddRequestUnits(charge float64) {
	if m != nil && charge > 0 {
		m.RequestUnits.Add(charge)
	}
}

func (m *Metrics) SetUnconverged(n int) {
	if m != nil {
		m.Unconverged.Set(float64(n))
	}
}

// ObserveRunDuration records the wall time of a run.
func (m *Metrics) ObserveRunDuration(d time.Duration) {
	if m != nil {
		m.RunDuration.Observe(d.Seconds())
	}
}
