package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for verification decisions. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	// Collaborator call latencies by source and status
	// (ok, unavailable, circuit_open, rate_limited).
	CollaboratorLatency *prometheus.HistogramVec

	// Retries issued per source
	CollaboratorRetries *prometheus.CounterVec

	// Circuit transitions per source
	CircuitTransitions *prometheus.CounterVec

	// Decision outcomes by decision and policy version
	DecisionOutcome *prometheus.CounterVec

	// Score distribution
	Score prometheus.Histogram

	// Evaluations that ended without a decision (superseded, withdrawn)
	Cancelled *prometheus.CounterVec

	// Overall evaluation latency
	EvaluateLatency prometheus.Histogram

	// Policy reloads by result (activated, rejected, unchanged)
	PolicyReloads *prometheus.CounterVec
}

// New registers verification metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		CollaboratorLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trustgate_collaborator_duration_seconds",
			Help:    "Duration of collaborator calls by source and status",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source", "status"}),

		CollaboratorRetries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trustgate_collaborator_retries_total",
			Help: "Collaborator calls retried after a retryable failure",
		}, []string{"source"}),

		CircuitTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trustgate_collaborator_circuit_transitions_total",
			Help: "Collaborator circuit breaker transitions",
		}, []string{"source", "state"}),

		DecisionOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trustgate_decision_outcomes_total",
			Help: "Total decision outcomes by decision and policy version",
		}, []string{"decision", "policy_version"}),

		Score: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "trustgate_decision_score",
			Help:    "Distribution of risk scores",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 85, 90, 95, 100},
		}),

		Cancelled: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trustgate_evaluations_cancelled_total",
			Help: "Evaluations cancelled before scoring, by reason",
		}, []string{"reason"}),

		EvaluateLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "trustgate_evaluate_duration_seconds",
			Help:    "Duration of full evaluation including collaborator fan-out",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		PolicyReloads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trustgate_policy_reloads_total",
			Help: "Scoring policy reload attempts by result",
		}, []string{"result"}),
	}
}

func (m *Metrics) ObserveCollaborator(source, status string, d time.Duration) {
	if m != nil {
		m.CollaboratorLatency.WithLabelValues(source, status).Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementRetry(source string) {
	if m != nil {
		m.CollaboratorRetries.WithLabelValues(source).Inc()
	}
}

func (m *Metrics) IncrementCircuitTransition(source, state string) {
	if m != nil {
		m.CircuitTransitions.WithLabelValues(source, state).Inc()
	}
}

// RecordDecision records the outcome and score of one evaluation.
func (m *Metrics) RecordDecision(decision, policyVersion string, score int) {
	if m != nil {
		m.DecisionOutcome.WithLabelValues(decision, policyVersion).Inc()
		m.Score.Observe(float64(score))
	}
}

func (m *Metrics) IncrementCancelled(reason string) {
	if m != nil {
		m.Cancelled.WithLabelValues(reason).Inc()
	}
}

func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncrementPolicyReload(result string) {
	if m != nil {
		m.PolicyReloads.WithLabelValues(result).Inc()
	}
}
