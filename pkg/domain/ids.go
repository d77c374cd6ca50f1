// Package domain holds typed identifiers shared across modules.
//
// Each identifier wraps a UUID so the compiler rejects passing a submission ID
// where an applicant ID is expected. Construct at trust boundaries through the
// Parse functions; direct conversion skips validation.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "trustgate/pkg/domain-errors"
)

type (
	// SubmissionID identifies one submission attempt. Resubmissions get a new ID.
	SubmissionID uuid.UUID
	// ApplicantID identifies the person applying for verified status.
	ApplicantID uuid.UUID
	// DecisionID identifies a persisted decision record.
	DecisionID uuid.UUID
)

// maxIDLength guards the parser from oversized input before uuid.Parse sees it.
const maxIDLength = 64

func parseUUID(kind, s string) (uuid.UUID, error) {
	if len(s) > maxIDLength {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is too long")
	}
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" cannot be nil")
	}
	return u, nil
}

// ParseSubmissionID validates external input as a submission ID.
func ParseSubmissionID(s string) (SubmissionID, error) {
	u, err := parseUUID("submission_id", s)
	return SubmissionID(u), err
}

// ParseApplicantID validates external input as an applicant ID.
func ParseApplicantID(s string) (ApplicantID, error) {
	u, err := parseUUID("applicant_id", s)
	return ApplicantID(u), err
}

// ParseDecisionID validates external input as a decision ID.
func ParseDecisionID(s string) (DecisionID, error) {
	u, err := parseUUID("decision_id", s)
	return DecisionID(u), err
}

// NewSubmissionID returns a fresh random submission ID.
func NewSubmissionID() SubmissionID { return SubmissionID(uuid.New()) }

// NewDecisionID returns a fresh random decision ID.
func NewDecisionID() DecisionID { return DecisionID(uuid.New()) }

func (id SubmissionID) String() string { return uuid.UUID(id).String() }
func (id ApplicantID) String() string  { return uuid.UUID(id).String() }
func (id DecisionID) String() string   { return uuid.UUID(id).String() }

func (id SubmissionID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ApplicantID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id DecisionID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

func (id SubmissionID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id ApplicantID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id DecisionID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }

func (id *SubmissionID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = SubmissionID(u)
	return err
}

func (id *ApplicantID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = ApplicantID(u)
	return err
}

func (id *DecisionID) UnmarshalText(b []byte) error {
	u, err := uuid.ParseBytes(b)
	*id = DecisionID(u)
	return err
}
