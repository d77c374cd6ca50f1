package ops

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for ops audit tracking. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	Tracked         prometheus.Counter
	Dropped         *prometheus.CounterVec
	PersistFailures prometheus.Counter
	CircuitOpen     prometheus.Gauge
}

// NewMetrics registers ops audit metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Tracked: factory.NewCounter(prometheus.CounterOpts{
			Name: "trustgate_audit_ops_tracked_total",
			Help: "Total number of operational audit events persisted",
		}),
		Dropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trustgate_audit_ops_dropped_total",
			Help: "Operational audit events dropped, by reason (sampled, buffer_full, circuit_open)",
		}, []string{"reason"}),
		PersistFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "trustgate_audit_ops_persist_failures_total",
			Help: "Total number of operational audit event persistence failures",
		}),
		CircuitOpen: factory.NewGauge(prometheus.GaugeOpts{
			Name: "trustgate_audit_ops_circuit_open",
			Help: "Ops audit store circuit state (0=closed, 1=open)",
		}),
	}
}

func (m *Metrics) incTracked() {
	if m != nil {
		m.Tracked.Inc()
	}
}

func (m *Metrics) incDropped(reason string) {
	if m != nil {
		m.Dropped.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) incPersistFailures() {
	if m != nil {
		m.PersistFailures.Inc()
	}
}

func (m *Metrics) setCircuitOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.CircuitOpen.Set(1)
		return
	}
	m.CircuitOpen.Set(0)
}
