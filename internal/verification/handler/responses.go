package handler

import (
	"time"

	"trustgate/internal/verification/orchestrator"
	"trustgate/internal/verification/scoring"
	"trustgate/internal/verification/summary"
)

// EvaluationResponse is returned for a decided submission.
type EvaluationResponse struct {
	DecisionID    string           `json:"decision_id"`
	SubmissionID  string           `json:"submission_id"`
	ApplicantID   string           `json:"applicant_id"`
	Decision      scoring.Decision `json:"decision"`
	Score         int              `json:"score"`
	Flags         []string         `json:"flags"`
	PolicyVersion string           `json:"policy_version"`
	Summary       summary.Summary  `json:"summary"`
	CreatedAt     time.Time        `json:"created_at"`
}

// RecordResponse adds the bundle the decision was computed from.
type RecordResponse struct {
	EvaluationResponse
	Bundle scoring.Bundle `json:"bundle"`
}

// ReplayResponse compares a stored decision with a re-scored one.
type ReplayResponse struct {
	DecisionID string             `json:"decision_id"`
	Original   scoring.RiskResult `json:"original"`
	Replayed   scoring.RiskResult `json:"replayed"`
	Summary    summary.Summary    `json:"summary"`
	Changed    bool               `json:"changed"`
}

// ScoreResponse is the result of scoring a caller-supplied bundle.
type ScoreResponse struct {
	Result  scoring.RiskResult `json:"result"`
	Summary summary.Summary    `json:"summary"`
}

// WithdrawResponse reports whether an evaluation was cancelled.
type WithdrawResponse struct {
	ApplicantID string `json:"applicant_id"`
	Withdrawn   bool   `json:"withdrawn"`
}

// FromEvaluation converts an orchestrator result.
func FromEvaluation(e *orchestrator.Evaluation) EvaluationResponse {
	flags := e.Result.Flags
	if flags == nil {
		flags = []string{}
	}
	return EvaluationResponse{
		DecisionID:    e.DecisionID.String(),
		SubmissionID:  e.SubmissionID.String(),
		ApplicantID:   e.ApplicantID.String(),
		Decision:      e.Result.Decision,
		Score:         e.Result.Score,
		Flags:         flags,
		PolicyVersion: e.Result.PolicyVersion,
		Summary:       e.Summary,
		CreatedAt:     e.CreatedAt,
	}
}

// FromRecord converts a stored decision including its bundle.
func FromRecord(e *orchestrator.Evaluation) RecordResponse {
	return RecordResponse{EvaluationResponse: FromEvaluation(e), Bundle: e.Bundle}
}

// FromReplay converts a replay.
func FromReplay(r *orchestrator.Replay) ReplayResponse {
	return ReplayResponse{
		DecisionID: r.Original.DecisionID.String(),
		Original:   r.Original.Result,
		Replayed:   r.Result,
		Summary:    r.Summary,
		Changed:    r.Changed,
	}
}
