package audit

import (
	"context"
	"time"

	id "trustgate/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with regulatory significance: every
	// eligibility decision and every change of the scoring policy. These need
	// guaranteed persistence and long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers events useful for operational visibility.
	// These can be sampled or dropped under pressure.
	CategoryOperations EventCategory = "operations"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
}

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category    EventCategory
	Timestamp   time.Time
	ApplicantID id.ApplicantID
	// Subject is the entity acted on: a decision ID, a policy version or a
	// collaborator name.
	Subject       string
	Action        string
	Decision      string
	Reason        string
	Score         *int
	PolicyVersion string
	// SubjectIDHash is a SHA-256 hash of the identity document number that was
	// evaluated. Used for traceability without storing raw PII.
	SubjectIDHash string
	RequestID     string
	// ActorID is the service principal that triggered the action.
	ActorID string
}

type AuditEvent string

const (
	// Decision events
	EventDecisionMade     AuditEvent = "decision_made"
	EventDecisionReplayed AuditEvent = "decision_replayed"

	// Evaluation lifecycle
	EventEvaluationSuperseded AuditEvent = "evaluation_superseded"
	EventEvaluationWithdrawn  AuditEvent = "evaluation_withdrawn"

	// Policy events
	EventPolicyActivated AuditEvent = "policy_activated"
	EventPolicyRejected  AuditEvent = "policy_rejected"

	// Collaborator health
	EventCollaboratorCircuitOpened AuditEvent = "collaborator_circuit_opened"
	EventCollaboratorCircuitClosed AuditEvent = "collaborator_circuit_closed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventDecisionMade:    CategoryCompliance,
	EventPolicyActivated: CategoryCompliance,

	EventDecisionReplayed:          CategoryOperations,
	EventEvaluationSuperseded:      CategoryOperations,
	EventEvaluationWithdrawn:       CategoryOperations,
	EventPolicyRejected:            CategoryOperations,
	EventCollaboratorCircuitOpened: CategoryOperations,
	EventCollaboratorCircuitClosed: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// ComplianceEvent captures regulatory-significant actions requiring
// guaranteed persistence. Use with the compliance publisher for fail-closed
// semantics.
type ComplianceEvent struct {
	Timestamp     time.Time      // set automatically if zero
	ApplicantID   id.ApplicantID // required for decision events
	Subject       string         // decision ID or policy version
	Action        string         // e.g. "decision_made"
	Decision      string         // AUTO_APPROVE, HUMAN_REVIEW or REJECT
	Reason        string         // top flag, or rejection reason
	Score         *int
	PolicyVersion string
	SubjectIDHash string
	RequestID     string
	ActorID       string
}

// Category returns CategoryCompliance (always).
func (e ComplianceEvent) Category() EventCategory { return CategoryCompliance }

// ToEvent converts to the storage Event.
func (e ComplianceEvent) ToEvent() Event {
	return Event{
		Category:      CategoryCompliance,
		Timestamp:     e.Timestamp,
		ApplicantID:   e.ApplicantID,
		Subject:       e.Subject,
		Action:        e.Action,
		Decision:      e.Decision,
		Reason:        e.Reason,
		Score:         e.Score,
		PolicyVersion: e.PolicyVersion,
		SubjectIDHash: e.SubjectIDHash,
		RequestID:     e.RequestID,
		ActorID:       e.ActorID,
	}
}

// OpsEvent captures operational events with minimal overhead.
// Events are fire-and-forget with optional sampling.
type OpsEvent struct {
	Timestamp   time.Time
	ApplicantID id.ApplicantID
	Subject     string
	Action      string
	Reason      string
	RequestID   string
}

// Category returns CategoryOperations (always).
func (e OpsEvent) Category() EventCategory { return CategoryOperations }

// ToEvent converts to the storage Event.
func (e OpsEvent) ToEvent() Event {
	return Event{
		Category:    CategoryOperations,
		Timestamp:   e.Timestamp,
		ApplicantID: e.ApplicantID,
		Subject:     e.Subject,
		Action:      e.Action,
		Reason:      e.Reason,
		RequestID:   e.RequestID,
	}
}
