package handler

import (
	"strings"
	"time"

	"trustgate/internal/verification/behavior"
	"trustgate/internal/verification/orchestrator"
	"trustgate/internal/verification/scoring"
	id "trustgate/pkg/domain"
	dErrors "trustgate/pkg/domain-errors"
)

// EvaluateRequest is the HTTP request body for POST /v1/verifications.
type EvaluateRequest struct {
	SubmissionID       string            `json:"submission_id" validate:"required,max=64"`
	ApplicantID        string            `json:"applicant_id" validate:"required,max=64"`
	DocumentRef        string            `json:"document_ref" validate:"required,max=512"`
	SupportingDocRef   string            `json:"supporting_doc_ref,omitempty" validate:"max=512"`
	SelfieRef          string            `json:"selfie_ref,omitempty" validate:"max=512"`
	IDNumber           string            `json:"id_number" validate:"required,max=40"`
	ClaimedName        string            `json:"claimed_name,omitempty" validate:"max=256"`
	ClaimedCategory    string            `json:"claimed_category,omitempty" validate:"max=128"`
	Locality           string            `json:"locality,omitempty" validate:"max=128"`
	ClaimedDesignation string            `json:"claimed_designation,omitempty" validate:"max=64"`
	LicenseNumber      string            `json:"license_number,omitempty" validate:"max=64"`
	ProfessionalName   string            `json:"professional_name,omitempty" validate:"max=256"`
	Telemetry          *TelemetryRequest `json:"telemetry,omitempty"`
	PolicyVersion      string            `json:"policy_version,omitempty" validate:"max=64"`

	// Parsed values (populated by Validate)
	submissionID id.SubmissionID
	applicantID  id.ApplicantID
}

// TelemetryRequest carries what the intake channel observed. Durations are
// in seconds and hours; zero means not reported.
type TelemetryRequest struct {
	SubmissionSeconds      float64 `json:"submission_seconds" validate:"gte=0"`
	VPNOrProxy             bool    `json:"vpn_or_proxy"`
	PriorRejectionOnDevice bool    `json:"prior_rejection_on_device"`
	FileMetadataEdited     bool    `json:"file_metadata_edited"`
	AccountAgeHours        float64 `json:"account_age_hours" validate:"gte=0"`
	UserAgent              string  `json:"user_agent,omitempty" validate:"max=512"`
	DeviceID               string  `json:"device_id,omitempty" validate:"max=128"`
}

// Validate parses the identifiers.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *EvaluateRequest) Validate() error {
	submissionID, err := id.ParseSubmissionID(strings.TrimSpace(r.SubmissionID))
	if err != nil {
		return err
	}
	applicantID, err := id.ParseApplicantID(strings.TrimSpace(r.ApplicantID))
	if err != nil {
		return err
	}
	r.submissionID = submissionID
	r.applicantID = applicantID
	return nil
}

// ToSubmission builds the orchestrator input.
func (r *EvaluateRequest) ToSubmission() orchestrator.Submission {
	sub := orchestrator.Submission{
		SubmissionID:       r.submissionID,
		ApplicantID:        r.applicantID,
		DocumentRef:        strings.TrimSpace(r.DocumentRef),
		SupportingDocRef:   strings.TrimSpace(r.SupportingDocRef),
		SelfieRef:          strings.TrimSpace(r.SelfieRef),
		IDNumber:           r.IDNumber,
		ClaimedName:        strings.TrimSpace(r.ClaimedName),
		ClaimedCategory:    strings.TrimSpace(r.ClaimedCategory),
		Locality:           strings.TrimSpace(r.Locality),
		ClaimedDesignation: strings.TrimSpace(r.ClaimedDesignation),
		LicenseNumber:      strings.TrimSpace(r.LicenseNumber),
		ProfessionalName:   strings.TrimSpace(r.ProfessionalName),
		PolicyVersion:      strings.TrimSpace(r.PolicyVersion),
	}
	if t := r.Telemetry; t != nil {
		sub.Telemetry = behavior.Telemetry{
			SubmissionDuration:     seconds(t.SubmissionSeconds),
			VPNOrProxy:             t.VPNOrProxy,
			PriorRejectionOnDevice: t.PriorRejectionOnDevice,
			FileMetadataEdited:     t.FileMetadataEdited,
			AccountAge:             seconds(t.AccountAgeHours * 3600),
			UserAgent:              t.UserAgent,
			DeviceID:               t.DeviceID,
		}
	}
	return sub
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}

// ScoreRequest is the HTTP request body for POST /v1/scoring/evaluate.
type ScoreRequest struct {
	Bundle        scoring.Bundle `json:"bundle"`
	PolicyVersion string         `json:"policy_version,omitempty" validate:"max=64"`
}

// Validate rejects bundles the normalizers could never have produced.
func (r *ScoreRequest) Validate() error {
	if err := r.Bundle.Validate(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
	}
	return nil
}
