package orchestrator

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"trustgate/internal/verification/providers"
	audit "trustgate/pkg/platform/audit"
	"trustgate/pkg/platform/circuit"
	"trustgate/pkg/requestcontext"
)

// Source names a collaborator in metrics, traces and audit events.
type Source string

const (
	SourceDocument    Source = "document_forensics"
	SourceSupporting  Source = "supporting_document"
	SourceConsistency Source = "cross_document"
	SourceFace        Source = "face_match"
	SourceRegistry    Source = "registry"
	SourceLicense     Source = "license"
)

// Sources lists every collaborator.
var Sources = []Source{SourceDocument, SourceSupporting, SourceConsistency, SourceFace, SourceRegistry, SourceLicense}

// DefaultCallTimeout bounds a collaborator call when no policy sets one.
const DefaultCallTimeout = 10 * time.Second

// CallPolicy bounds the calls to one collaborator.
type CallPolicy struct {
	// Timeout applies to each attempt separately.
	Timeout time.Duration
	// Retry allows one more attempt after a retryable failure.
	Retry   bool
	Limiter *rate.Limiter
	Breaker *circuit.Breaker
}

func (s *Service) callPolicy(src Source) CallPolicy {
	cp, ok := s.calls[src]
	if !ok {
		return CallPolicy{Timeout: DefaultCallTimeout, Retry: true}
	}
	if cp.Timeout <= 0 {
		cp.Timeout = DefaultCallTimeout
	}
	return cp
}

type validatable interface {
	Validate() error
}

// invoke runs call under src's policy. Every returned error is a
// *providers.ProviderError.
func invoke[T validatable](ctx context.Context, s *Service, src Source, call func(context.Context) (T, error)) (T, error) {
	var zero T
	cp := s.callPolicy(src)

	ctx, span := s.tracer.Start(ctx, "collaborator."+string(src), trace.WithAttributes(
		attribute.String("collaborator", string(src)),
	))
	defer span.End()

	if cp.Breaker != nil && !cp.Breaker.Allow() {
		s.metrics.ObserveCollaborator(string(src), string(providers.ErrorCircuitOpen), 0)
		span.SetStatus(codes.Error, "circuit open")
		return zero, providers.NewProviderError(providers.ErrorCircuitOpen, string(src), "circuit open", nil)
	}

	attempts := 1
	if cp.Retry {
		attempts = 2
	}
	var err error
	for n := 1; n <= attempts; n++ {
		var res T
		res, err = attempt(ctx, s, src, cp, call)
		if err == nil {
			s.recordOutcome(ctx, src, cp.Breaker, nil)
			return res, nil
		}
		if n == attempts || !providers.IsRetryable(err) || ctx.Err() != nil {
			break
		}
		s.metrics.IncrementRetry(string(src))
		span.AddEvent("retry", trace.WithAttributes(attribute.String("category", string(providers.GetCategory(err)))))
	}

	s.recordOutcome(ctx, src, cp.Breaker, err)
	span.RecordError(err)
	span.SetStatus(codes.Error, string(providers.GetCategory(err)))
	return zero, err
}

func attempt[T validatable](ctx context.Context, s *Service, src Source, cp CallPolicy, call func(context.Context) (T, error)) (T, error) {
	var zero T
	ctx, cancel := context.WithTimeout(ctx, cp.Timeout)
	defer cancel()

	if cp.Limiter != nil {
		if err := cp.Limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return zero, providers.Classify(string(src), ctx.Err())
			}
			return zero, providers.NewProviderError(providers.ErrorRateLimited, string(src), "rate limit exceeded", err)
		}
	}

	start := time.Now()
	res, err := call(ctx)
	if err != nil {
		err = providers.Classify(string(src), err)
	} else if verr := res.Validate(); verr != nil {
		err = providers.NewProviderError(providers.ErrorBadData, string(src), "invalid response", verr)
	}

	status := "ok"
	if err != nil {
		status = string(providers.GetCategory(err))
	}
	s.metrics.ObserveCollaborator(string(src), status, time.Since(start))
	if err != nil {
		return zero, err
	}
	return res, nil
}

// recordOutcome feeds the breaker. Cancelled calls say nothing about the
// collaborator's health and are not counted.
func (s *Service) recordOutcome(ctx context.Context, src Source, b *circuit.Breaker, err error) {
	if b == nil {
		return
	}
	var change circuit.StateChange
	switch {
	case err == nil:
		_, change = b.RecordSuccess()
	case providers.GetCategory(err) == providers.ErrorCanceled:
		return
	default:
		_, change = b.RecordFailure()
	}

	switch {
	case change.Opened:
		s.circuitChanged(ctx, src, circuit.StateOpen, audit.EventCollaboratorCircuitOpened)
	case change.Closed:
		s.circuitChanged(ctx, src, circuit.StateClosed, audit.EventCollaboratorCircuitClosed)
	}
}

func (s *Service) circuitChanged(ctx context.Context, src Source, state circuit.State, event audit.AuditEvent) {
	s.metrics.IncrementCircuitTransition(string(src), state.String())
	s.logger.WarnContext(ctx, "collaborator circuit changed state",
		"collaborator", src,
		"state", state.String(),
	)
	s.track(ctx, audit.OpsEvent{
		Subject:   string(src),
		Action:    string(event),
		Reason:    state.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
}

// reason is the breakdown text for a failed call.
func reason(err error) string {
	return providers.Reason(err)
}
