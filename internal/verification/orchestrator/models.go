package orchestrator

import (
	"errors"
	"strings"
	"time"

	"trustgate/internal/verification/behavior"
	"trustgate/internal/verification/scoring"
	"trustgate/internal/verification/summary"
	id "trustgate/pkg/domain"
	dErrors "trustgate/pkg/domain-errors"
)

var (
	// ErrSuperseded ends an evaluation replaced by a newer submission from
	// the same applicant.
	ErrSuperseded = errors.New("evaluation superseded by a newer submission")
	// ErrWithdrawn ends an evaluation whose applicant withdrew.
	ErrWithdrawn = errors.New("submission withdrawn")
)

// Submission is one applicant's verification request as the intake channel
// delivers it. Document references are opaque keys the collaborators resolve.
type Submission struct {
	SubmissionID       id.SubmissionID
	ApplicantID        id.ApplicantID
	DocumentRef        string
	SupportingDocRef   string
	SelfieRef          string
	IDNumber           string
	ClaimedName        string
	ClaimedCategory    string
	Locality           string
	ClaimedDesignation string
	LicenseNumber      string
	ProfessionalName   string
	Telemetry          behavior.Telemetry
	// PolicyVersion pins a registered policy; empty uses the active one.
	PolicyVersion string
}

// Validate checks the fields every evaluation needs.
func (s Submission) Validate() error {
	if s.SubmissionID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "submission_id is required")
	}
	if s.ApplicantID.IsNil() {
		return dErrors.New(dErrors.CodeValidation, "applicant_id is required")
	}
	if s.DocumentRef == "" {
		return dErrors.New(dErrors.CodeValidation, "document_ref is required")
	}
	if strings.TrimSpace(s.IDNumber) == "" {
		return dErrors.New(dErrors.CodeValidation, "id_number is required")
	}
	return nil
}

// Evaluation is a completed, persisted decision.
type Evaluation struct {
	DecisionID   id.DecisionID
	SubmissionID id.SubmissionID
	ApplicantID  id.ApplicantID
	Bundle       scoring.Bundle
	Result       scoring.RiskResult
	Summary      summary.Summary
	CreatedAt    time.Time
}

// Replay is a stored decision re-scored under a (possibly different) policy.
type Replay struct {
	Original Evaluation
	Result   scoring.RiskResult
	Summary  summary.Summary
	// Changed reports a different decision or score than the stored one.
	Changed bool
}
