package signal

import (
	"fmt"
	"math"
	"strings"

	"trustgate/internal/verification/ports"
	"trustgate/internal/verification/validators"
)

// DocumentForensics is the normalized primary-document analysis.
type DocumentForensics struct {
	Signal
	ForgerySignals int      `json:"forgery_signals"`
	FieldsChecked  bool     `json:"fields_checked"`
	MissingFields  []string `json:"missing_fields,omitempty"`
	Expired        bool     `json:"expired"`
}

// SupportingDocForensics is the normalized supporting-document analysis.
type SupportingDocForensics struct {
	Signal
	Edited         bool `json:"edited"`
	RecentlyIssued bool `json:"recently_issued"`
}

// FieldVerdict is the consistency verdict for one compared field.
type FieldVerdict struct {
	Field   string  `json:"field"`
	Verdict Verdict `json:"verdict"`
}

// CrossDocumentConsistency is the normalized cross-document comparison.
type CrossDocumentConsistency struct {
	Signal
	Verdict Verdict        `json:"verdict,omitempty"`
	Fields  []FieldVerdict `json:"fields,omitempty"`
}

// FaceMatch is the normalized face comparison and liveness check. Confidence
// is always set when the status is not inconclusive.
type FaceMatch struct {
	Signal
	Live                  bool  `json:"live"`
	PhotoOfPhotoSuspected bool  `json:"photo_of_photo_suspected"`
	IDVisible             *bool `json:"id_visible,omitempty"`
}

// LivenessFailed reports a non-live selfie or a photographed photo.
func (f FaceMatch) LivenessFailed() bool {
	return !f.Live || f.PhotoOfPhotoSuspected
}

// Validation is a normalized pass/fail result from a local validator.
type Validation struct {
	Signal
	Value string `json:"value,omitempty"`
}

// Passed reports a conclusive pass.
func (v Validation) Passed() bool {
	return v.Status == StatusPass
}

// NormalizeDocument converts a validated analyzer result.
func NormalizeDocument(raw ports.DocumentAnalysis) DocumentForensics {
	if raw.Inconclusive {
		return DocumentForensics{Signal: New(StatusInconclusive, "", nil, raw.Notes)}
	}
	level := mustLevel(raw.SuspicionLevel)

	var flags []string
	flags = append(flags, raw.ForgerySignals...)
	for _, check := range raw.LocaleChecks {
		if check.Passed {
			continue
		}
		flag := "locale check failed: " + check.Name
		if check.Detail != "" {
			flag += " (" + check.Detail + ")"
		}
		flags = append(flags, flag)
	}
	flags = append(flags, raw.Notes...)

	status := StatusPass
	if level != LevelLow || len(raw.ForgerySignals) > 0 || raw.Expired || len(raw.MissingFields) > 0 {
		status = StatusFail
	}
	return DocumentForensics{
		Signal:         New(status, level, nil, flags),
		ForgerySignals: len(raw.ForgerySignals),
		FieldsChecked:  raw.FieldsChecked,
		MissingFields:  cloneStrings(raw.MissingFields),
		Expired:        raw.Expired,
	}
}

// NormalizeSupportingDocument converts a validated analyzer result.
func NormalizeSupportingDocument(raw ports.SupportingDocumentAnalysis) SupportingDocForensics {
	if raw.Inconclusive {
		return SupportingDocForensics{Signal: New(StatusInconclusive, "", nil, raw.Notes)}
	}
	level := mustLevel(raw.SuspicionLevel)
	status := StatusPass
	if level != LevelLow || raw.EditingDetected || raw.RecentlyIssued {
		status = StatusFail
	}
	return SupportingDocForensics{
		Signal:         New(status, level, nil, raw.Notes),
		Edited:         raw.EditingDetected,
		RecentlyIssued: raw.RecentlyIssued,
	}
}

// NormalizeConsistency converts a validated checker result. Field verdicts
// other than CONSISTENT become explanatory flags.
func NormalizeConsistency(raw ports.ConsistencyReport) CrossDocumentConsistency {
	if raw.Inconclusive {
		return CrossDocumentConsistency{Signal: New(StatusInconclusive, "", nil, raw.Notes)}
	}
	overall := mustVerdict(raw.Overall)

	var flags []string
	fields := make([]FieldVerdict, 0, len(raw.Fields))
	for _, f := range raw.Fields {
		v := mustVerdict(f.Verdict)
		fields = append(fields, FieldVerdict{Field: f.Field, Verdict: v})
		if v == VerdictConsistent {
			continue
		}
		flag := fmt.Sprintf("%s: %s", f.Field, strings.ToLower(strings.ReplaceAll(string(v), "_", " ")))
		if f.Note != "" {
			flag += " (" + f.Note + ")"
		}
		flags = append(flags, flag)
	}
	flags = append(flags, raw.Notes...)

	status := StatusPass
	if overall != VerdictConsistent {
		status = StatusFail
	}
	return CrossDocumentConsistency{
		Signal:  New(status, "", nil, flags),
		Verdict: overall,
		Fields:  fields,
	}
}

// NormalizeFaceMatch converts a validated matcher result, rounding the
// confidence to a whole percentage.
func NormalizeFaceMatch(raw ports.FaceMatchResult) FaceMatch {
	if raw.Inconclusive {
		return FaceMatch{Signal: New(StatusInconclusive, "", nil, raw.Notes), Live: true}
	}
	confidence := int(math.Round(raw.Confidence))

	var flags []string
	if raw.PhotoOfPhotoSuspected {
		flags = append(flags, "selfie appears to be a photo of a photo")
	}
	if !raw.IsLive {
		flags = append(flags, "selfie failed liveness")
	}
	flags = append(flags, raw.Notes...)

	status := StatusPass
	if len(flags) > 0 || confidence < 75 || (raw.IDVisibleInSelfie != nil && !*raw.IDVisibleInSelfie) {
		status = StatusFail
	}
	var visible *bool
	if raw.IDVisibleInSelfie != nil {
		v := *raw.IDVisibleInSelfie
		visible = &v
	}
	return FaceMatch{
		Signal:                New(status, "", IntPtr(confidence), flags),
		Live:                  raw.IsLive,
		PhotoOfPhotoSuspected: raw.PhotoOfPhotoSuspected,
		IDVisible:             visible,
	}
}

// NormalizeIdentifier converts an identifier format check.
func NormalizeIdentifier(res validators.IdentifierResult) Validation {
	return Validation{Signal: New(passFail(res.Valid), "", nil, res.Flags), Value: res.Normalized}
}

// NormalizeDesignation converts an administrative designation check.
func NormalizeDesignation(res validators.DesignationResult) Validation {
	return Validation{Signal: New(passFail(res.Correct), "", nil, optionalFlag(res.Flag))}
}

// NormalizeCategory converts a category membership check.
func NormalizeCategory(res validators.CategoryResult) Validation {
	v := Validation{Signal: New(passFail(res.Valid), "", nil, optionalFlag(res.Flag))}
	if res.Matched != nil {
		v.Value = *res.Matched
	}
	return v
}

func passFail(ok bool) Status {
	if ok {
		return StatusPass
	}
	return StatusFail
}

func optionalFlag(flag *string) []string {
	if flag == nil {
		return nil
	}
	return []string{*flag}
}

func mustLevel(s string) Level {
	l, err := ParseLevel(s)
	if err != nil {
		panic("signal: " + err.Error())
	}
	return l
}

func mustVerdict(s string) Verdict {
	v, err := ParseVerdict(s)
	if err != nil {
		panic("signal: " + err.Error())
	}
	return v
}
