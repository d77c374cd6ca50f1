// Package ports declares the collaborators the verification orchestrator
// depends on, and the raw result shapes they return. Raw results are
// validated here and normalized by package signal; nothing downstream of the
// normalizer sees these types.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks DocumentAnalyzer,SupportingDocumentAnalyzer,ConsistencyChecker,FaceMatcher,RegistryLookup,LicenseLookup,DuplicateChecker,DeviceHistory

import (
	"context"
	"fmt"

	id "trustgate/pkg/domain"
)

// EvidenceRequest identifies the material a collaborator should inspect.
// Document references are opaque keys into the intake channel's file store.
type EvidenceRequest struct {
	SubmissionID     id.SubmissionID
	ApplicantID      id.ApplicantID
	DocumentRef      string
	SupportingDocRef string
	SelfieRef        string
	ClaimedIDNumber  string
	ClaimedName      string
	ClaimedCategory  string
	Locality         string
}

// DocumentAnalyzer inspects the primary identity document.
type DocumentAnalyzer interface {
	AnalyzeDocument(ctx context.Context, req EvidenceRequest) (*DocumentAnalysis, error)
}

// SupportingDocumentAnalyzer inspects the supporting document (medical
// certificate or similar).
type SupportingDocumentAnalyzer interface {
	AnalyzeSupportingDocument(ctx context.Context, req EvidenceRequest) (*SupportingDocumentAnalysis, error)
}

// ConsistencyChecker compares fields across the primary and supporting documents.
type ConsistencyChecker interface {
	CheckConsistency(ctx context.Context, req EvidenceRequest) (*ConsistencyReport, error)
}

// FaceMatcher compares the selfie with the document photo and runs liveness.
type FaceMatcher interface {
	MatchFace(ctx context.Context, req EvidenceRequest) (*FaceMatchResult, error)
}

// RegistryLookup queries the authoritative registry for the ID number. A
// record that does not exist is reported as Found=false, not as an error.
type RegistryLookup interface {
	LookupRegistry(ctx context.Context, q RegistryQuery) (*RegistryMatch, error)
}

// LicenseLookup checks the certifying professional's license.
type LicenseLookup interface {
	CheckLicense(ctx context.Context, q LicenseQuery) (*LicenseStatus, error)
}

// DuplicateChecker reports whether the same identity material was already
// submitted by another applicant.
type DuplicateChecker interface {
	IsDuplicate(ctx context.Context, q DuplicateQuery) (bool, error)
}

// DeviceHistory remembers devices linked to rejected submissions.
type DeviceHistory interface {
	HasRejection(ctx context.Context, fingerprint string) (bool, error)
	RecordRejection(ctx context.Context, fingerprint string) error
}

// RegistryQuery is the registry lookup key.
type RegistryQuery struct {
	IDNumber string `json:"id_number"`
	Locality string `json:"locality,omitempty"`
}

// RegistryMatch is the registry's answer.
type RegistryMatch struct {
	Found bool `json:"found"`
}

// Validate rejects an empty answer.
func (m *RegistryMatch) Validate() error {
	if m == nil {
		return fmt.Errorf("%w: empty registry answer", ErrInvalidResult)
	}
	return nil
}

// LicenseQuery identifies the certifying professional.
type LicenseQuery struct {
	LicenseNumber    string `json:"license_number"`
	ProfessionalName string `json:"professional_name,omitempty"`
}

// LicenseStatus is the licensing board's answer.
type LicenseStatus struct {
	Valid bool `json:"valid"`
}

// Validate rejects an empty answer.
func (l *LicenseStatus) Validate() error {
	if l == nil {
		return fmt.Errorf("%w: empty license answer", ErrInvalidResult)
	}
	return nil
}

// DuplicateQuery carries the identity fingerprint of a submission.
type DuplicateQuery struct {
	ApplicantID id.ApplicantID
	Fingerprint string
}
