// Package compliance provides a fail-closed audit publisher for regulatory events.
//
// Publisher emits compliance events with synchronous, fail-closed semantics.
// Events are written to the outbox and the caller blocks until the write
// succeeds. If the write fails, an error is returned and the calling
// operation MUST fail.
//
// Use for: decision_made, policy_activated
package compliance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	audit "trustgate/pkg/platform/audit"
)

var (
	ErrMissingAction    = errors.New("compliance event requires Action")
	ErrMissingSubject   = errors.New("compliance event requires Subject")
	ErrMissingApplicant = errors.New("decision event requires ApplicantID")
)

// Publisher emits compliance events with fail-closed semantics.
type Publisher struct {
	store   audit.Store
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// New creates a compliance publisher.
// The store must be outbox-backed for guaranteed delivery.
func New(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit synchronously writes a compliance event to the audit store.
// Returns error if persistence fails; the caller MUST fail its operation.
func (p *Publisher) Emit(ctx context.Context, event audit.ComplianceEvent) error {
	start := p.now()

	if event.Action == "" {
		return ErrMissingAction
	}
	if event.Subject == "" {
		return ErrMissingSubject
	}
	if event.Action == string(audit.EventDecisionMade) && event.ApplicantID.IsNil() {
		return ErrMissingApplicant
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = start
	}

	if err := p.store.Append(ctx, event.ToEvent()); err != nil {
		p.metrics.IncPersistFailures()
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "CRITICAL: compliance audit failed",
				"action", event.Action,
				"subject", event.Subject,
				"error", err,
			)
		}
		return fmt.Errorf("compliance audit persistence failed: %w", err)
	}

	p.metrics.ObservePersistDuration(p.now().Sub(start).Seconds())
	p.metrics.IncEventsEmitted(event.Action)
	return nil
}
