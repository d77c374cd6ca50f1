package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OutboxEntry is one serialized event waiting to be relayed to the stream.
type OutboxEntry struct {
	ID        uuid.UUID
	Key       string // partition key: applicant ID, or the event ID when absent
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// payload is the JSON published to Kafka. Field names are part of the
// contract with downstream consumers.
type payload struct {
	ID            string `json:"id"`
	Category      string `json:"category"`
	Timestamp     string `json:"timestamp"`
	ApplicantID   string `json:"applicant_id,omitempty"`
	Subject       string `json:"subject"`
	Action        string `json:"action"`
	Decision      string `json:"decision,omitempty"`
	Reason        string `json:"reason,omitempty"`
	Score         *int   `json:"score,omitempty"`
	PolicyVersion string `json:"policy_version,omitempty"`
	SubjectIDHash string `json:"subject_id_hash,omitempty"`
	RequestID     string `json:"request_id,omitempty"`
	ActorID       string `json:"actor_id,omitempty"`
}

// NewOutboxEntry serializes event under a fresh event ID. The category is
// always derived from the action.
func NewOutboxEntry(event Event, now time.Time) (OutboxEntry, error) {
	eventID := uuid.New()
	ts := event.Timestamp
	if ts.IsZero() {
		ts = now
	}

	p := payload{
		ID:            eventID.String(),
		Category:      string(AuditEvent(event.Action).Category()),
		Timestamp:     ts.UTC().Format(time.RFC3339Nano),
		Subject:       event.Subject,
		Action:        event.Action,
		Decision:      event.Decision,
		Reason:        event.Reason,
		Score:         event.Score,
		PolicyVersion: event.PolicyVersion,
		SubjectIDHash: event.SubjectIDHash,
		RequestID:     event.RequestID,
		ActorID:       event.ActorID,
	}
	key := eventID.String()
	if !event.ApplicantID.IsNil() {
		p.ApplicantID = event.ApplicantID.String()
		key = p.ApplicantID
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return OutboxEntry{}, fmt.Errorf("marshal audit payload: %w", err)
	}
	return OutboxEntry{
		ID:        eventID,
		Key:       key,
		EventType: event.Action,
		Payload:   raw,
		CreatedAt: now,
	}, nil
}

// DecodeEvent parses a relayed payload back into an Event.
func DecodeEvent(raw []byte) (Event, error) {
	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return Event{}, fmt.Errorf("decode audit payload: %w", err)
	}
	ts, err := time.Parse(time.RFC3339Nano, p.Timestamp)
	if err != nil {
		return Event{}, fmt.Errorf("decode audit timestamp: %w", err)
	}
	event := Event{
		Category:      EventCategory(p.Category),
		Timestamp:     ts,
		Subject:       p.Subject,
		Action:        p.Action,
		Decision:      p.Decision,
		Reason:        p.Reason,
		Score:         p.Score,
		PolicyVersion: p.PolicyVersion,
		SubjectIDHash: p.SubjectIDHash,
		RequestID:     p.RequestID,
		ActorID:       p.ActorID,
	}
	if p.ApplicantID != "" {
		if err := event.ApplicantID.UnmarshalText([]byte(p.ApplicantID)); err != nil {
			return Event{}, fmt.Errorf("decode audit applicant: %w", err)
		}
	}
	return event, nil
}
