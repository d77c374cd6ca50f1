// Package orchestrator runs one verification end to end: validators and the
// behavioral detector locally, the collaborators in parallel, then scoring,
// persistence and the compliance audit trail.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"trustgate/internal/verification/behavior"
	"trustgate/internal/verification/metrics"
	"trustgate/internal/verification/ports"
	"trustgate/internal/verification/scoring"
	"trustgate/internal/verification/signal"
	"trustgate/internal/verification/store/decision"
	"trustgate/internal/verification/store/fingerprint"
	"trustgate/internal/verification/summary"
	"trustgate/internal/verification/validators"
	id "trustgate/pkg/domain"
	dErrors "trustgate/pkg/domain-errors"
	audit "trustgate/pkg/platform/audit"
	"trustgate/pkg/platform/sentinel"
	"trustgate/pkg/platform/tx"
	"trustgate/pkg/requestcontext"
)

const duplicateCheckTimeout = 2 * time.Second

// ComplianceEmitter records regulatory events. Emit must fail when the event
// could not be persisted.
type ComplianceEmitter interface {
	Emit(ctx context.Context, event audit.ComplianceEvent) error
}

// OpsTracker records operational events on a best-effort basis.
type OpsTracker interface {
	Track(ctx context.Context, event audit.OpsEvent)
}

// Collaborators are the external signal producers. A nil collaborator leaves
// its category not requested.
type Collaborators struct {
	Documents   ports.DocumentAnalyzer
	Supporting  ports.SupportingDocumentAnalyzer
	Consistency ports.ConsistencyChecker
	Faces       ports.FaceMatcher
	Registry    ports.RegistryLookup
	Licenses    ports.LicenseLookup
}

// Service orchestrates verification evaluations.
type Service struct {
	policies   *scoring.Registry
	collab     Collaborators
	decisions  decision.Store
	duplicates ports.DuplicateChecker
	devices    ports.DeviceHistory
	calls      map[Source]CallPolicy
	compliance ComplianceEmitter
	ops        OpsTracker
	tx         tx.Runner
	metrics    *metrics.Metrics
	logger     *slog.Logger
	tracer     trace.Tracer
	flights    *inflight
	newID      func() id.DecisionID
}

// Option configures a Service.
type Option func(*Service)

// WithCallPolicy sets the timeout, retry, rate limit and breaker for one
// collaborator.
func WithCallPolicy(src Source, cp CallPolicy) Option {
	return func(s *Service) {
		s.calls[src] = cp
	}
}

func WithDuplicateChecker(d ports.DuplicateChecker) Option {
	return func(s *Service) {
		s.duplicates = d
	}
}

func WithDeviceHistory(h ports.DeviceHistory) Option {
	return func(s *Service) {
		s.devices = h
	}
}

// WithCompliance sets the fail-closed publisher for decision_made events.
func WithCompliance(c ComplianceEmitter) Option {
	return func(s *Service) {
		s.compliance = c
	}
}

func WithOpsTracker(t OpsTracker) Option {
	return func(s *Service) {
		s.ops = t
	}
}

// WithTxRunner makes the decision row and its audit event commit together.
func WithTxRunner(r tx.Runner) Option {
	return func(s *Service) {
		if r != nil {
			s.tx = r
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		if t != nil {
			s.tracer = t
		}
	}
}

// New creates a Service scoring with the policies in registry.
func New(policies *scoring.Registry, collab Collaborators, decisions decision.Store, opts ...Option) *Service {
	s := &Service{
		policies:  policies,
		collab:    collab,
		decisions: decisions,
		calls:     make(map[Source]CallPolicy),
		tx:        tx.NoopRunner{},
		logger:    slog.Default(),
		tracer:    otel.Tracer("trustgate/verification"),
		flights:   newInflight(),
		newID:     id.NewDecisionID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Evaluate verifies one submission and persists the decision. Evaluating an
// already decided submission returns the stored decision. An evaluation
// replaced by a newer submission from the same applicant, or withdrawn,
// fails with CodeSuperseded and is never scored.
func (s *Service) Evaluate(ctx context.Context, sub Submission) (*Evaluation, error) {
	start := time.Now()
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	policy, err := s.policy(sub.PolicyVersion)
	if err != nil {
		return nil, err
	}

	stored, err := s.decisions.FindBySubmission(ctx, sub.SubmissionID)
	switch {
	case err == nil:
		return toEvaluation(stored), nil
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up submission")
	}

	ctx, span := s.tracer.Start(ctx, "verification.evaluate", trace.WithAttributes(
		attribute.String("submission_id", sub.SubmissionID.String()),
		attribute.String("policy_version", policy.Version()),
	))
	defer span.End()

	runCtx, release := s.flights.start(ctx, sub.ApplicantID, sub.SubmissionID)
	defer release()

	bundle, normalizedID := validate(sub)
	var device string
	bundle.BehavioralFlags, device = s.behavioralFlags(runCtx, sub.Telemetry, policy.Behavior)
	s.gather(runCtx, sub, normalizedID, &bundle)

	if cause := context.Cause(runCtx); errors.Is(cause, ErrSuperseded) || errors.Is(cause, ErrWithdrawn) {
		span.SetStatus(codes.Error, cause.Error())
		return nil, s.cancelled(ctx, sub, cause)
	}
	if err := ctx.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "evaluation canceled")
	}

	result := scoring.Evaluate(bundle, policy).Result()
	rec := &decision.Record{
		ID:            s.newID(),
		SubmissionID:  sub.SubmissionID,
		ApplicantID:   sub.ApplicantID,
		Bundle:        bundle,
		Result:        result,
		PolicyVersion: result.PolicyVersion,
		CreatedAt:     requestcontext.Now(ctx),
	}
	if err := s.record(ctx, rec, normalizedID); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			if stored, ferr := s.decisions.FindBySubmission(ctx, sub.SubmissionID); ferr == nil {
				return toEvaluation(stored), nil
			}
		}
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record decision")
	}

	if result.Decision == scoring.DecisionReject && device != "" && s.devices != nil {
		if err := s.devices.RecordRejection(ctx, device); err != nil {
			s.logger.WarnContext(ctx, "failed to record device rejection",
				"submission_id", sub.SubmissionID,
				"error", err,
			)
		}
	}

	s.metrics.RecordDecision(string(result.Decision), result.PolicyVersion, result.Score)
	s.metrics.ObserveEvaluateLatency(time.Since(start))
	span.SetAttributes(
		attribute.String("decision", string(result.Decision)),
		attribute.Int("score", result.Score),
	)
	s.logger.InfoContext(ctx, "verification decided",
		"decision_id", rec.ID,
		"submission_id", sub.SubmissionID,
		"decision", result.Decision,
		"score", result.Score,
		"policy_version", result.PolicyVersion,
		"request_id", requestcontext.RequestID(ctx),
	)
	return toEvaluation(rec), nil
}

// Withdraw cancels the applicant's in-flight evaluation. It reports whether
// one was running.
func (s *Service) Withdraw(ctx context.Context, applicantID id.ApplicantID) bool {
	submission, ok := s.flights.withdraw(applicantID)
	if ok {
		s.logger.InfoContext(ctx, "evaluation withdrawn",
			"applicant_id", applicantID,
			"submission_id", submission,
		)
	}
	return ok
}

// Get returns a stored decision.
func (s *Service) Get(ctx context.Context, decisionID id.DecisionID) (*Evaluation, error) {
	rec, err := s.decisions.FindByID(ctx, decisionID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "decision not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load decision")
	}
	return toEvaluation(rec), nil
}

// Replay re-scores a stored bundle under version, or the active policy when
// version is empty. The stored decision is not modified.
func (s *Service) Replay(ctx context.Context, decisionID id.DecisionID, version string) (*Replay, error) {
	original, err := s.Get(ctx, decisionID)
	if err != nil {
		return nil, err
	}
	if err := original.Bundle.Validate(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "stored bundle is malformed")
	}
	policy, err := s.policy(version)
	if err != nil {
		return nil, err
	}
	res := scoring.Evaluate(original.Bundle, policy).Result()
	changed := res.Decision != original.Result.Decision || res.Score != original.Result.Score

	s.track(ctx, audit.OpsEvent{
		ApplicantID: original.ApplicantID,
		Subject:     decisionID.String(),
		Action:      string(audit.EventDecisionReplayed),
		Reason: fmt.Sprintf("%s %s -> %s %s",
			original.Result.PolicyVersion, original.Result.Decision, res.PolicyVersion, res.Decision),
		RequestID: requestcontext.RequestID(ctx),
	})
	return &Replay{
		Original: *original,
		Result:   res,
		Summary:  summary.FormatRiskSummary(res),
		Changed:  changed,
	}, nil
}

// Score evaluates a caller-supplied bundle without persisting anything.
func (s *Service) Score(b scoring.Bundle, version string) (scoring.RiskResult, summary.Summary, error) {
	if err := b.Validate(); err != nil {
		return scoring.RiskResult{}, summary.Summary{}, dErrors.Wrap(err, dErrors.CodeValidation, "malformed bundle")
	}
	policy, err := s.policy(version)
	if err != nil {
		return scoring.RiskResult{}, summary.Summary{}, err
	}
	res := scoring.Evaluate(b, policy).Result()
	return res, summary.FormatRiskSummary(res), nil
}

// ActivePolicy returns the policy new submissions are scored with.
func (s *Service) ActivePolicy() scoring.Policy {
	return s.policies.Active()
}

func (s *Service) policy(version string) (scoring.Policy, error) {
	if version == "" {
		return s.policies.Active(), nil
	}
	p, ok := s.policies.Get(version)
	if !ok {
		return scoring.Policy{}, dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("policy version %q is not registered", version))
	}
	return p, nil
}

// validate runs the local validators. The identifier is always checked; the
// designation and category only when the applicant claimed them.
func validate(sub Submission) (scoring.Bundle, string) {
	var b scoring.Bundle
	idRes := validators.ValidateIdentifierFormat(sub.IDNumber)
	b.IDFormat = signal.Present(signal.NormalizeIdentifier(idRes))
	if sub.Locality != "" || sub.ClaimedDesignation != "" {
		res := validators.ValidateAdministrativeDesignation(sub.Locality, sub.ClaimedDesignation)
		b.AdministrativeDesignation = signal.Present(signal.NormalizeDesignation(res))
	}
	if sub.ClaimedCategory != "" {
		res := validators.ValidateCategoryMembership(sub.ClaimedCategory, validators.DefaultTaxonomy)
		b.CategoryTaxonomy = signal.Present(signal.NormalizeCategory(res))
	}

	normalized := idRes.Normalized
	if normalized == "" {
		normalized = sub.IDNumber
	}
	return b, normalized
}

// behavioralFlags folds the device rejection history into the telemetry
// before detection, and returns the device fingerprint.
func (s *Service) behavioralFlags(ctx context.Context, t behavior.Telemetry, rules behavior.Rules) ([]string, string) {
	device := behavior.DeviceFingerprint(t)
	if device != "" && s.devices != nil && !t.PriorRejectionOnDevice {
		seen, err := s.devices.HasRejection(ctx, device)
		if err != nil {
			s.logger.WarnContext(ctx, "device history unavailable", "error", err)
		}
		t.PriorRejectionOnDevice = seen
	}
	return rules.Detect(t), device
}

// gather fans out to every collaborator. Each goroutine owns one bundle
// field, and failures become Unavailable signals rather than errors.
func (s *Service) gather(ctx context.Context, sub Submission, normalizedID string, b *scoring.Bundle) {
	req := ports.EvidenceRequest{
		SubmissionID:     sub.SubmissionID,
		ApplicantID:      sub.ApplicantID,
		DocumentRef:      sub.DocumentRef,
		SupportingDocRef: sub.SupportingDocRef,
		SelfieRef:        sub.SelfieRef,
		ClaimedIDNumber:  sub.IDNumber,
		ClaimedName:      sub.ClaimedName,
		ClaimedCategory:  sub.ClaimedCategory,
		Locality:         sub.Locality,
	}
	g, ctx := errgroup.WithContext(ctx)

	if c := s.collab.Documents; c != nil {
		g.Go(func() error {
			raw, err := invoke(ctx, s, SourceDocument, func(ctx context.Context) (*ports.DocumentAnalysis, error) {
				return c.AnalyzeDocument(ctx, req)
			})
			if err != nil {
				b.DocumentForensics = signal.Unavailable[signal.DocumentForensics](reason(err))
				return nil
			}
			b.DocumentForensics = signal.Present(signal.NormalizeDocument(*raw))
			return nil
		})
	}

	if c := s.collab.Supporting; c != nil && sub.SupportingDocRef != "" {
		g.Go(func() error {
			raw, err := invoke(ctx, s, SourceSupporting, func(ctx context.Context) (*ports.SupportingDocumentAnalysis, error) {
				return c.AnalyzeSupportingDocument(ctx, req)
			})
			if err != nil {
				b.SupportingDocForensics = signal.Unavailable[signal.SupportingDocForensics](reason(err))
				return nil
			}
			b.SupportingDocForensics = signal.Present(signal.NormalizeSupportingDocument(*raw))
			return nil
		})
	}

	if c := s.collab.Consistency; c != nil && sub.SupportingDocRef != "" {
		g.Go(func() error {
			raw, err := invoke(ctx, s, SourceConsistency, func(ctx context.Context) (*ports.ConsistencyReport, error) {
				return c.CheckConsistency(ctx, req)
			})
			if err != nil {
				b.CrossDocumentConsistency = signal.Unavailable[signal.CrossDocumentConsistency](reason(err))
				return nil
			}
			b.CrossDocumentConsistency = signal.Present(signal.NormalizeConsistency(*raw))
			return nil
		})
	}

	if c := s.collab.Faces; c != nil && sub.SelfieRef != "" {
		g.Go(func() error {
			raw, err := invoke(ctx, s, SourceFace, func(ctx context.Context) (*ports.FaceMatchResult, error) {
				return c.MatchFace(ctx, req)
			})
			if err != nil {
				b.FaceMatch = signal.Unavailable[signal.FaceMatch](reason(err))
				return nil
			}
			b.FaceMatch = signal.Present(signal.NormalizeFaceMatch(*raw))
			return nil
		})
	}

	if c := s.collab.Registry; c != nil && sub.IDNumber != "" {
		q := ports.RegistryQuery{IDNumber: normalizedID, Locality: sub.Locality}
		g.Go(func() error {
			raw, err := invoke(ctx, s, SourceRegistry, func(ctx context.Context) (*ports.RegistryMatch, error) {
				return c.LookupRegistry(ctx, q)
			})
			if err != nil {
				b.Registry = signal.LookupFromObserved(signal.Unavailable[bool](reason(err)))
				return nil
			}
			b.Registry = signal.LookupFromObserved(signal.Present(raw.Found))
			return nil
		})
	}

	if c := s.collab.Licenses; c != nil && sub.LicenseNumber != "" {
		q := ports.LicenseQuery{LicenseNumber: sub.LicenseNumber, ProfessionalName: sub.ProfessionalName}
		g.Go(func() error {
			raw, err := invoke(ctx, s, SourceLicense, func(ctx context.Context) (*ports.LicenseStatus, error) {
				return c.CheckLicense(ctx, q)
			})
			if err != nil {
				b.License = signal.LookupFromObserved(signal.Unavailable[bool](reason(err)))
				return nil
			}
			b.License = signal.LookupFromObserved(signal.Present(raw.Valid))
			return nil
		})
	}

	if s.duplicates != nil {
		q := ports.DuplicateQuery{ApplicantID: sub.ApplicantID, Fingerprint: fingerprint.Of(normalizedID)}
		g.Go(func() error {
			dctx, cancel := context.WithTimeout(ctx, duplicateCheckTimeout)
			defer cancel()
			dup, err := s.duplicates.IsDuplicate(dctx, q)
			if err != nil {
				if ctx.Err() == nil {
					s.logger.WarnContext(ctx, "duplicate check unavailable",
						"submission_id", sub.SubmissionID,
						"error", err,
					)
					b.DuplicateCheckFailed = true
				}
				return nil
			}
			b.IsDuplicateSubmission = dup
			return nil
		})
	}

	_ = g.Wait()
}

// record writes the compliance event and the decision in one transaction.
// The event is written first so a failed audit leaves nothing behind when
// the runner is not transactional.
func (s *Service) record(ctx context.Context, rec *decision.Record, normalizedID string) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if s.compliance != nil {
			score := rec.Result.Score
			var topFlag string
			if len(rec.Result.Flags) > 0 {
				topFlag = rec.Result.Flags[0]
			}
			err := s.compliance.Emit(ctx, audit.ComplianceEvent{
				Timestamp:     rec.CreatedAt,
				ApplicantID:   rec.ApplicantID,
				Subject:       rec.ID.String(),
				Action:        string(audit.EventDecisionMade),
				Decision:      string(rec.Result.Decision),
				Reason:        topFlag,
				Score:         &score,
				PolicyVersion: rec.PolicyVersion,
				SubjectIDHash: fingerprint.Of(normalizedID),
				RequestID:     requestcontext.RequestID(ctx),
				ActorID:       requestcontext.Caller(ctx),
			})
			if err != nil {
				return err
			}
		}
		return s.decisions.Save(ctx, rec)
	})
}

func (s *Service) cancelled(ctx context.Context, sub Submission, cause error) error {
	label, action := "superseded", audit.EventEvaluationSuperseded
	if errors.Is(cause, ErrWithdrawn) {
		label, action = "withdrawn", audit.EventEvaluationWithdrawn
	}
	s.metrics.IncrementCancelled(label)
	s.track(ctx, audit.OpsEvent{
		ApplicantID: sub.ApplicantID,
		Subject:     sub.SubmissionID.String(),
		Action:      string(action),
		Reason:      label,
		RequestID:   requestcontext.RequestID(ctx),
	})
	s.logger.InfoContext(ctx, "evaluation cancelled",
		"submission_id", sub.SubmissionID,
		"reason", label,
	)
	return dErrors.Wrap(cause, dErrors.CodeSuperseded, cause.Error())
}

func (s *Service) track(ctx context.Context, event audit.OpsEvent) {
	if s.ops != nil {
		s.ops.Track(ctx, event)
	}
}

func toEvaluation(rec *decision.Record) *Evaluation {
	return &Evaluation{
		DecisionID:   rec.ID,
		SubmissionID: rec.SubmissionID,
		ApplicantID:  rec.ApplicantID,
		Bundle:       rec.Bundle,
		Result:       rec.Result,
		Summary:      summary.FormatRiskSummary(rec.Result),
		CreatedAt:    rec.CreatedAt,
	}
}
