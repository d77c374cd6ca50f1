// Package decision persists scored verification decisions together with the
// bundle they were computed from, so any decision can be replayed and
// explained later.
package decision

import (
	"context"
	"time"

	"trustgate/internal/verification/scoring"
	id "trustgate/pkg/domain"
)

// Record is one persisted decision. Bundle and Result are stored verbatim;
// PolicyVersion repeats Result.PolicyVersion for indexing.
type Record struct {
	ID            id.DecisionID      `json:"id"`
	SubmissionID  id.SubmissionID    `json:"submission_id"`
	ApplicantID   id.ApplicantID     `json:"applicant_id"`
	Bundle        scoring.Bundle     `json:"bundle"`
	Result        scoring.RiskResult `json:"result"`
	PolicyVersion string             `json:"policy_version"`
	CreatedAt     time.Time          `json:"created_at"`
}

// Store persists decision records. Save returns sentinel.ErrConflict when
// the decision ID or submission ID is already recorded; the finders return
// sentinel.ErrNotFound.
type Store interface {
	Save(ctx context.Context, rec *Record) error
	FindByID(ctx context.Context, decisionID id.DecisionID) (*Record, error)
	FindBySubmission(ctx context.Context, submissionID id.SubmissionID) (*Record, error)
	ListByApplicant(ctx context.Context, applicantID id.ApplicantID) ([]*Record, error)
}
