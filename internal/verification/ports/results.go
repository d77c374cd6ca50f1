package ports

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Suspicion levels as reported by the analyzers.
const (
	SuspicionLow    = "LOW"
	SuspicionMedium = "MEDIUM"
	SuspicionHigh   = "HIGH"
)

// Consistency verdicts as reported by the cross-document checker.
const (
	VerdictConsistent   = "CONSISTENT"
	VerdictMinorIssues  = "MINOR_ISSUES"
	VerdictInconsistent = "INCONSISTENT"
)

// ErrInvalidResult marks a collaborator response that breaks its contract.
var ErrInvalidResult = errors.New("invalid collaborator result")

// LocaleCheck is one locale-specific sub-validation of a document (seal
// present, issuing office format, and so on).
type LocaleCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// DocumentAnalysis is the primary document analyzer's raw result.
type DocumentAnalysis struct {
	Inconclusive   bool          `json:"inconclusive"`
	SuspicionLevel string        `json:"suspicion_level"`
	ForgerySignals []string      `json:"forgery_signals"`
	FieldsChecked  bool          `json:"fields_checked"`
	MissingFields  []string      `json:"missing_fields"`
	Expired        bool          `json:"expired"`
	LocaleChecks   []LocaleCheck `json:"locale_checks"`
	Notes          []string      `json:"notes"`
}

// Validate checks the analyzer's contract.
func (d *DocumentAnalysis) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: empty document analysis", ErrInvalidResult)
	}
	if d.Inconclusive {
		return nil
	}
	return validateSuspicion(d.SuspicionLevel)
}

// SupportingDocumentAnalysis is the supporting document analyzer's raw result.
type SupportingDocumentAnalysis struct {
	Inconclusive    bool     `json:"inconclusive"`
	SuspicionLevel  string   `json:"suspicion_level"`
	EditingDetected bool     `json:"editing_detected"`
	RecentlyIssued  bool     `json:"recently_issued"`
	Notes           []string `json:"notes"`
}

// Validate checks the analyzer's contract.
func (d *SupportingDocumentAnalysis) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: empty supporting document analysis", ErrInvalidResult)
	}
	if d.Inconclusive {
		return nil
	}
	return validateSuspicion(d.SuspicionLevel)
}

// FieldCheck is the verdict for one compared field.
type FieldCheck struct {
	Field   string `json:"field"`
	Verdict string `json:"verdict"`
	Note    string `json:"note,omitempty"`
}

// ConsistencyReport is the cross-document checker's raw result.
type ConsistencyReport struct {
	Inconclusive bool         `json:"inconclusive"`
	Overall      string       `json:"overall"`
	Fields       []FieldCheck `json:"fields"`
	Notes        []string     `json:"notes"`
}

// Validate checks the checker's contract.
func (c *ConsistencyReport) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: empty consistency report", ErrInvalidResult)
	}
	if c.Inconclusive {
		return nil
	}
	if err := validateVerdict(c.Overall); err != nil {
		return err
	}
	for _, f := range c.Fields {
		if strings.TrimSpace(f.Field) == "" {
			return fmt.Errorf("%w: field check without a field name", ErrInvalidResult)
		}
		if err := validateVerdict(f.Verdict); err != nil {
			return err
		}
	}
	return nil
}

// FaceMatchResult is the face matcher's raw result. Confidence is a
// percentage.
type FaceMatchResult struct {
	Inconclusive          bool     `json:"inconclusive"`
	Confidence            float64  `json:"confidence"`
	IsLive                bool     `json:"is_live"`
	PhotoOfPhotoSuspected bool     `json:"photo_of_photo_suspected"`
	IDVisibleInSelfie     *bool    `json:"id_visible_in_selfie,omitempty"`
	Notes                 []string `json:"notes"`
}

// Validate checks the matcher's contract.
func (f *FaceMatchResult) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: empty face match result", ErrInvalidResult)
	}
	if f.Inconclusive {
		return nil
	}
	if math.IsNaN(f.Confidence) || f.Confidence < 0 || f.Confidence > 100 {
		return fmt.Errorf("%w: face match confidence %v outside 0-100", ErrInvalidResult, f.Confidence)
	}
	return nil
}

func validateSuspicion(level string) error {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case SuspicionLow, SuspicionMedium, SuspicionHigh:
		return nil
	default:
		return fmt.Errorf("%w: unknown suspicion level %q", ErrInvalidResult, level)
	}
}

func validateVerdict(v string) error {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case VerdictConsistent, VerdictMinorIssues, VerdictInconsistent:
		return nil
	default:
		return fmt.Errorf("%w: unknown consistency verdict %q", ErrInvalidResult, v)
	}
}
