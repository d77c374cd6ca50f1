package scoring

import (
	"errors"
	"fmt"
	"strings"

	"trustgate/internal/verification/signal"
)

// ErrMalformedBundle wraps every bundle validation failure.
var ErrMalformedBundle = errors.New("malformed signal bundle")

// Bundle is everything known about one submission at scoring time. Absent
// signals are neutral: a bundle with nothing observed scores BaseScore.
type Bundle struct {
	DocumentForensics         signal.Observed[signal.DocumentForensics]        `json:"document_forensics"`
	SupportingDocForensics    signal.Observed[signal.SupportingDocForensics]   `json:"supporting_doc_forensics"`
	CrossDocumentConsistency  signal.Observed[signal.CrossDocumentConsistency] `json:"cross_document_consistency"`
	FaceMatch                 signal.Observed[signal.FaceMatch]                `json:"face_match"`
	IDFormat                  signal.Observed[signal.Validation]               `json:"id_format"`
	AdministrativeDesignation signal.Observed[signal.Validation]               `json:"administrative_designation"`
	CategoryTaxonomy          signal.Observed[signal.Validation]               `json:"category_taxonomy"`
	Registry                  signal.Lookup                                    `json:"registry"`
	License                   signal.Lookup                                    `json:"license"`
	IsDuplicateSubmission     bool                                             `json:"is_duplicate_submission"`
	// DuplicateCheckFailed records that the duplicate store could not answer;
	// the submission is then scored as not a duplicate.
	DuplicateCheckFailed bool     `json:"duplicate_check_failed,omitempty"`
	BehavioralFlags      []string `json:"behavioral_flags,omitempty"`
}

// Validate applies the normalizer contract to a bundle that did not come
// from the normalizers, such as one decoded from a request or a stored
// decision.
func (b Bundle) Validate() error {
	var problems []string
	check := func(field string, err error) {
		if err != nil {
			problems = append(problems, field+": "+err.Error())
		}
	}
	check("document_forensics", signal.ValidateObserved(b.DocumentForensics))
	check("supporting_doc_forensics", signal.ValidateObserved(b.SupportingDocForensics))
	check("cross_document_consistency", signal.ValidateObserved(b.CrossDocumentConsistency))
	check("face_match", signal.ValidateObserved(b.FaceMatch))
	check("id_format", signal.ValidateObserved(b.IDFormat))
	check("administrative_designation", signal.ValidateObserved(b.AdministrativeDesignation))
	check("category_taxonomy", signal.ValidateObserved(b.CategoryTaxonomy))
	if !b.Registry.Valid() {
		problems = append(problems, fmt.Sprintf("registry: unknown lookup %d", int(b.Registry)))
	}
	if !b.License.Valid() {
		problems = append(problems, fmt.Sprintf("license: unknown lookup %d", int(b.License)))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrMalformedBundle, strings.Join(problems, "; "))
	}
	return nil
}
