package compliance

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for compliance auditing. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	EventsEmitted   *prometheus.CounterVec
	PersistFailures prometheus.Counter
	PersistDuration prometheus.Histogram
}

// NewMetrics registers compliance audit metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EventsEmitted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trustgate_audit_compliance_emitted_total",
			Help: "Total number of compliance audit events persisted",
		}, []string{"action"}),
		PersistFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "trustgate_audit_compliance_persist_failures_total",
			Help: "Total number of compliance audit events that failed to persist",
		}),
		PersistDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "trustgate_audit_compliance_persist_duration_seconds",
			Help:    "Time spent persisting a compliance audit event",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) IncEventsEmitted(action string) {
	if m == nil {
		return
	}
	m.EventsEmitted.WithLabelValues(action).Inc()
}

func (m *Metrics) IncPersistFailures() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

func (m *Metrics) ObservePersistDuration(seconds float64) {
	if m == nil {
		return
	}
	m.PersistDuration.Observe(seconds)
}
