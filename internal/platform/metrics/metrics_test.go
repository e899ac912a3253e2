package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsRecordNothing(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementRun("succeeded")
		m.AddReconciled("created", 3)
		m.IncrementWriteItem("acknowledged")
		m.IncrementAttempt()
		m.AddRequestUnits(2)
		m.SetUnconverged(1)
		m.ObserveRunDuration(time.Second)
	})
}

func TestRecording(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.AddReconciled("created", 3)
	m.AddReconciled("created", 2)
	m.IncrementWriteItem("rate_limited")
	m.AddRequestUnits(1.5)
	m.AddRequestUnits(-1)
	m.SetUnconverged(4)

	assert.Equal(t, float64(5), testutil.ToFloat64(m.Reconciled.WithLabelValues("created")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.WriteItems.WithLabelValues("rate_limited")))
	assert.Equal(t, 1.5, testutil.ToFloat64(m.RequestUnits))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.Unconverged))
}
