package scoring

import (
	"fmt"
	"strings"

	"trustgate/internal/verification/signal"
	pstrings "trustgate/pkg/platform/strings"
)

// Breakdown keys, one per category.
const (
	BreakdownDuplicate     = "duplicate"
	BreakdownDocument      = "document_forensics"
	BreakdownSupporting    = "supporting_document"
	BreakdownCrossDocument = "cross_document"
	BreakdownFaceMatch     = "face_match"
	BreakdownIDFormat      = "id_format"
	BreakdownDesignation   = "administrative_designation"
	BreakdownCategory      = "category"
	BreakdownRegistry      = "registry"
	BreakdownLicense       = "license"
	BreakdownBehavior      = "behavior"
	BreakdownScore         = "score"
)

// Face match confidence bands.
const (
	faceVeryLowBelow = 60
	faceLowBelow     = 75
	faceStrongAbove  = 90
)

// CalculateRiskScore scores b with the given weights and thresholds.
func CalculateRiskScore(b Bundle, weights WeightTable, thresholds ThresholdSet) RiskResult {
	return Evaluate(b, Policy{Weights: weights, Thresholds: thresholds}).Result()
}

// Evaluate scores b under p. A duplicate submission is rejected without
// looking at any other signal.
func Evaluate(b Bundle, p Policy) Outcome {
	if b.IsDuplicateSubmission {
		return Rejected{Reason: FlagDuplicateSubmission, PolicyVersion: p.Version()}
	}

	s := &scorer{weights: p.Weights, breakdown: map[string]string{}}
	if b.DuplicateCheckFailed {
		s.breakdown[BreakdownDuplicate] = "inconclusive: duplicate check unavailable"
	}
	s.documentForensics(b.DocumentForensics)
	s.supportingDocument(b.SupportingDocForensics)
	s.crossDocument(b.CrossDocumentConsistency)
	s.faceMatch(b.FaceMatch)
	s.validation(BreakdownIDFormat, b.IDFormat, EventIDFormatInvalid)
	s.validation(BreakdownDesignation, b.AdministrativeDesignation, EventDesignationIncorrect)
	s.validation(BreakdownCategory, b.CategoryTaxonomy, EventCategoryInvalid)
	s.lookup(BreakdownRegistry, b.Registry, EventRegistryMatch)
	s.lookup(BreakdownLicense, b.License, EventLicenseValid)
	s.behavior(b.BehavioralFlags)

	raw := BaseScore + s.total
	score := min(max(raw, 0), BaseScore)
	s.breakdown[BreakdownScore] = scoreLine(raw, score)

	flags := s.flags
	if flags == nil {
		flags = []string{}
	}
	return Scored{RiskResult{
		Score:         score,
		Decision:      p.Thresholds.Route(score),
		Flags:         flags,
		Breakdown:     s.breakdown,
		PolicyVersion: p.Version(),
	}}
}

type scorer struct {
	weights   WeightTable
	total     int
	flags     []string
	breakdown map[string]string
}

// entry accumulates the events of one category before it is committed.
type entry struct {
	s         *scorer
	key       string
	delta     int
	applied   []string
	penalized bool
	details   []string
}

func (s *scorer) open(key string) *entry {
	return &entry{s: s, key: key}
}

func (e *entry) apply(ev Event) {
	d := e.s.weights.Delta(ev)
	e.delta += d
	e.applied = append(e.applied, fmt.Sprintf("%s %+d", ev, d))
	if !ev.IsBonus() {
		e.penalized = true
		e.s.flags = pstrings.AppendUnique(e.s.flags, events[ev].flag)
	}
}

// explain records detail flags surfaced only if the category penalized.
func (e *entry) explain(details ...string) {
	e.details = append(e.details, details...)
}

// commit adds the category's delta to the total and writes its breakdown line.
// neutral describes the category when no event applied.
func (e *entry) commit(neutral string) {
	if e.penalized {
		e.s.flags = pstrings.AppendUnique(e.s.flags, e.details...)
	}
	e.s.total += e.delta
	if len(e.applied) == 0 {
		e.s.breakdown[e.key] = neutral
		return
	}
	e.s.breakdown[e.key] = fmt.Sprintf("%s = %+d", strings.Join(e.applied, ", "), e.delta)
}

// absent writes the breakdown line for a signal that was not observed and
// reports whether it was absent.
func absent[T any](s *scorer, key string, o signal.Observed[T]) (T, bool) {
	v, ok := o.Get()
	if ok {
		return v, false
	}
	switch o.State() {
	case signal.StateUnavailable:
		s.breakdown[key] = "inconclusive: " + o.Reason()
	default:
		s.breakdown[key] = "not evaluated"
	}
	return v, true
}

const inconclusiveVerdict = "inconclusive: no verdict reached"

func (s *scorer) documentForensics(o signal.Observed[signal.DocumentForensics]) {
	d, missing := absent(s, BreakdownDocument, o)
	if missing {
		return
	}
	if d.Inconclusive() {
		s.breakdown[BreakdownDocument] = inconclusiveVerdict
		return
	}

	e := s.open(BreakdownDocument)
	switch d.Level {
	case signal.LevelMedium:
		e.apply(EventAISuspicionMedium)
	case signal.LevelHigh:
		e.apply(EventAISuspicionHigh)
	}
	switch {
	case d.ForgerySignals >= 3:
		e.apply(EventForgerySignalsMany)
	case d.ForgerySignals >= 1:
		e.apply(EventForgerySignalsFew)
	}
	if d.Expired {
		e.apply(EventDocumentExpired)
	}
	if d.FieldsChecked {
		if len(d.MissingFields) > 0 {
			e.apply(EventMissingRequiredFields)
			e.explain("missing field: " + strings.Join(d.MissingFields, ", "))
		} else {
			e.apply(EventAllFieldsPresent)
		}
	}
	e.explain(d.Flags...)
	e.commit("clean, no adjustment")
}

func (s *scorer) supportingDocument(o signal.Observed[signal.SupportingDocForensics]) {
	d, missing := absent(s, BreakdownSupporting, o)
	if missing {
		return
	}
	if d.Inconclusive() {
		s.breakdown[BreakdownSupporting] = inconclusiveVerdict
		return
	}

	e := s.open(BreakdownSupporting)
	switch d.Level {
	case signal.LevelMedium:
		e.apply(EventSupportingMedium)
	case signal.LevelHigh:
		e.apply(EventSupportingHigh)
	}
	if d.Edited {
		e.apply(EventSupportingEdited)
	}
	if d.RecentlyIssued {
		e.apply(EventSupportingRecent)
	}
	e.explain(d.Flags...)
	e.commit("clean, no adjustment")
}

func (s *scorer) crossDocument(o signal.Observed[signal.CrossDocumentConsistency]) {
	c, missing := absent(s, BreakdownCrossDocument, o)
	if missing {
		return
	}
	if c.Inconclusive() {
		s.breakdown[BreakdownCrossDocument] = inconclusiveVerdict
		return
	}

	e := s.open(BreakdownCrossDocument)
	switch c.Verdict {
	case signal.VerdictConsistent:
		e.apply(EventCrossDocConsistent)
	case signal.VerdictMinorIssues:
		e.apply(EventCrossDocMinorIssues)
	case signal.VerdictInconsistent:
		e.apply(EventCrossDocInconsistent)
	}
	e.explain(c.Flags...)
	e.commit("no verdict, no adjustment")
}

func (s *scorer) faceMatch(o signal.Observed[signal.FaceMatch]) {
	f, missing := absent(s, BreakdownFaceMatch, o)
	if missing {
		return
	}
	if f.Inconclusive() {
		s.breakdown[BreakdownFaceMatch] = inconclusiveVerdict
		return
	}

	e := s.open(BreakdownFaceMatch)
	if f.LivenessFailed() {
		e.apply(EventLivenessFailed)
	}
	if f.Confidence != nil {
		switch c := *f.Confidence; {
		case c < faceVeryLowBelow:
			e.apply(EventFaceMatchVeryLow)
		case c < faceLowBelow:
			e.apply(EventFaceMatchLow)
		case c > faceStrongAbove:
			e.apply(EventFaceMatchStrong)
		}
	}
	if f.IDVisible != nil && !*f.IDVisible {
		e.apply(EventIDNotVisibleInSelfie)
	}
	e.explain(f.Flags...)
	e.commit("match within expected range, no adjustment")
}

func (s *scorer) validation(key string, o signal.Observed[signal.Validation], failure Event) {
	v, missing := absent(s, key, o)
	if missing {
		return
	}
	if v.Inconclusive() {
		s.breakdown[key] = inconclusiveVerdict
		return
	}

	e := s.open(key)
	if v.Status == signal.StatusFail {
		e.apply(failure)
	}
	e.explain(v.Flags...)
	e.commit("passed, no adjustment")
}

func (s *scorer) lookup(key string, l signal.Lookup, match Event) {
	switch l {
	case signal.LookupFound:
		e := s.open(key)
		e.apply(match)
		e.commit("")
	case signal.LookupNotFound:
		s.breakdown[key] = "no record found, no adjustment"
	case signal.LookupFailed:
		s.breakdown[key] = "inconclusive: lookup failed"
	default:
		s.breakdown[key] = "not evaluated"
	}
}

func (s *scorer) behavior(flags []string) {
	distinct := pstrings.AppendUnique(nil, flags...)
	if len(distinct) == 0 {
		s.breakdown[BreakdownBehavior] = "no behavioral flags"
		return
	}
	d := s.weights.Delta(EventBehavioralFlag)
	delta := d * len(distinct)
	line := fmt.Sprintf("%d x %s %+d = %+d", len(distinct), EventBehavioralFlag, d, delta)
	if limit := s.weights.BehavioralCap; limit > 0 && delta < -limit {
		delta = -limit
		line += fmt.Sprintf(", capped at %+d", delta)
	}
	s.total += delta
	s.flags = pstrings.AppendUnique(s.flags, distinct...)
	s.breakdown[BreakdownBehavior] = line
}

func scoreLine(raw, score int) string {
	line := fmt.Sprintf("base %d, adjustments %+d", BaseScore, raw-BaseScore)
	if raw != score {
		line += fmt.Sprintf(", clamped to %d", score)
	}
	return line
}
