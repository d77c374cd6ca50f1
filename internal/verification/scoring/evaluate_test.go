package scoring

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/suite"

	"trustgate/internal/verification/signal"
)

type EvaluateSuite struct {
	suite.Suite
	policy Policy
}

func TestEvaluateSuite(t *testing.T) {
	suite.Run(t, new(EvaluateSuite))
}

func (s *EvaluateSuite) SetupTest() {
	s.policy = DefaultPolicy()
}

func pass() signal.Validation {
	return signal.Validation{Signal: signal.New(signal.StatusPass, "", nil, nil)}
}

func fail(flag string) signal.Validation {
	return signal.Validation{Signal: signal.New(signal.StatusFail, "", nil, []string{flag})}
}

func face(confidence int, live bool) signal.FaceMatch {
	visible := true
	return signal.FaceMatch{
		Signal:    signal.New(signal.StatusPass, "", signal.IntPtr(confidence), nil),
		Live:      live,
		IDVisible: &visible,
	}
}

func document(level signal.Level, forgery int, flags ...string) signal.DocumentForensics {
	return signal.DocumentForensics{
		Signal:         signal.New(signal.StatusPass, level, nil, flags),
		ForgerySignals: forgery,
		FieldsChecked:  true,
	}
}

// cleanBundle carries every bonus: +3 fields, +2 consistency, +3 face,
// +5 registry, +5 license.
func cleanBundle() Bundle {
	return Bundle{
		DocumentForensics: signal.Present(document(signal.LevelLow, 0)),
		SupportingDocForensics: signal.Present(signal.SupportingDocForensics{
			Signal: signal.New(signal.StatusPass, signal.LevelLow, nil, nil),
		}),
		CrossDocumentConsistency: signal.Present(signal.CrossDocumentConsistency{
			Signal:  signal.New(signal.StatusPass, "", nil, nil),
			Verdict: signal.VerdictConsistent,
		}),
		FaceMatch:                 signal.Present(face(96, true)),
		IDFormat:                  signal.Present(pass()),
		AdministrativeDesignation: signal.Present(pass()),
		CategoryTaxonomy:          signal.Present(pass()),
		Registry:                  signal.LookupFound,
		License:                   signal.LookupFound,
	}
}

// =============================================================================
// Scenarios
// =============================================================================

func (s *EvaluateSuite) TestCleanBundleAutoApproves() {
	res := Evaluate(cleanBundle(), s.policy).Result()

	s.Equal(100, res.Score)
	s.Equal(DecisionAutoApprove, res.Decision)
	s.Empty(res.Flags)
	s.NotNil(res.Flags)
	s.Equal("v1", res.PolicyVersion)
	s.Equal("base 100, adjustments +18, clamped to 100", res.Breakdown[BreakdownScore])
	s.Equal("REGISTRY_MATCH +5 = +5", res.Breakdown[BreakdownRegistry])
}

func (s *EvaluateSuite) TestModerateFaceMatchRoutesToReview() {
	b := cleanBundle()
	b.FaceMatch = signal.Present(face(70, true))

	res := Evaluate(b, s.policy).Result()

	s.Equal(80, res.Score)
	s.Equal(DecisionHumanReview, res.Decision)
	s.Equal([]string{"face match confidence low"}, res.Flags)
	s.Equal("FACE_MATCH_LOW -35 = -35", res.Breakdown[BreakdownFaceMatch])
}

func (s *EvaluateSuite) TestSpoofedSubmissionRejects() {
	b := cleanBundle()
	b.DocumentForensics = signal.Present(document(signal.LevelHigh, 3, "font mismatch", "cloned seal"))
	b.FaceMatch = signal.Present(face(96, false))

	res := Evaluate(b, s.policy).Result()

	s.Less(res.Score, 50)
	s.Equal(3, res.Score)
	s.Equal(DecisionReject, res.Decision)
	s.Equal([]string{
		"document shows high suspicion of manipulation",
		"document has many forgery signals",
		"font mismatch",
		"cloned seal",
		"liveness check failed",
	}, res.Flags)
}

func (s *EvaluateSuite) TestDuplicateRejectsRegardlessOfSignals() {
	b := cleanBundle()
	b.IsDuplicateSubmission = true

	out := Evaluate(b, s.policy)
	s.IsType(Rejected{}, out)

	res := out.Result()
	s.Equal(0, res.Score)
	s.Equal(DecisionReject, res.Decision)
	s.Equal([]string{FlagDuplicateSubmission}, res.Flags)
	s.Equal("v1", res.PolicyVersion)
}

func (s *EvaluateSuite) TestRegistryMissIsNotAPenalty() {
	for _, l := range []signal.Lookup{signal.LookupNotFound, signal.LookupFailed, signal.LookupNotChecked} {
		b := cleanBundle()
		b.Registry = l

		res := Evaluate(b, s.policy).Result()
		s.Equal(DecisionAutoApprove, res.Decision, l.String())
		s.Empty(res.Flags, l.String())
	}

	b := cleanBundle()
	b.Registry = signal.LookupFailed
	s.Equal("inconclusive: lookup failed", Evaluate(b, s.policy).Result().Breakdown[BreakdownRegistry])
}

func (s *EvaluateSuite) TestBehavioralFlagsAloneNeverReject() {
	s.Run("three flags route to review", func() {
		b := cleanBundle()
		b.BehavioralFlags = []string{"fast", "vpn", "new account"}

		res := Evaluate(b, s.policy).Result()
		s.Equal(73, res.Score)
		s.Equal(DecisionHumanReview, res.Decision)
		s.Equal([]string{"fast", "vpn", "new account"}, res.Flags)
	})

	s.Run("every flag is capped", func() {
		b := cleanBundle()
		b.BehavioralFlags = []string{"a", "b", "c", "d", "e", "f"}

		res := Evaluate(b, s.policy).Result()
		s.Equal(73, res.Score)
		s.Equal(DecisionHumanReview, res.Decision)
		s.Contains(res.Breakdown[BreakdownBehavior], "capped at -45")
	})

	s.Run("repeated flags count once", func() {
		b := cleanBundle()
		b.BehavioralFlags = []string{"vpn", "vpn", " vpn "}

		res := Evaluate(b, s.policy).Result()
		s.Equal(100, res.Score)
		s.Equal([]string{"vpn"}, res.Flags)
	})
}

// =============================================================================
// Category rules
// =============================================================================

func (s *EvaluateSuite) TestDocumentRules() {
	s.Run("missing fields explain themselves", func() {
		d := document(signal.LevelLow, 0)
		d.MissingFields = []string{"date of birth", "address"}
		res := Evaluate(Bundle{DocumentForensics: signal.Present(d)}, s.policy).Result()

		s.Equal(90, res.Score)
		s.Equal([]string{"document is missing required fields", "missing field: date of birth, address"}, res.Flags)
	})

	s.Run("expired and few forgery signals", func() {
		d := document(signal.LevelMedium, 2)
		d.Expired = true
		d.FieldsChecked = false
		res := Evaluate(Bundle{DocumentForensics: signal.Present(d)}, s.policy).Result()

		s.Equal(100-15-15-30, res.Score)
		s.Equal("AI_SUSPICION_MEDIUM -15, FORGERY_SIGNALS_FEW -15, DOCUMENT_EXPIRED -30 = -60", res.Breakdown[BreakdownDocument])
	})

	s.Run("explanatory flags hidden without a penalty", func() {
		d := document(signal.LevelLow, 0, "minor glare")
		res := Evaluate(Bundle{DocumentForensics: signal.Present(d)}, s.policy).Result()
		s.Empty(res.Flags)
	})
}

func (s *EvaluateSuite) TestSupportingAndCrossDocumentRules() {
	b := Bundle{
		SupportingDocForensics: signal.Present(signal.SupportingDocForensics{
			Signal:         signal.New(signal.StatusFail, signal.LevelHigh, nil, nil),
			Edited:         true,
			RecentlyIssued: true,
		}),
		CrossDocumentConsistency: signal.Present(signal.CrossDocumentConsistency{
			Signal:  signal.New(signal.StatusFail, "", nil, []string{"name: inconsistent"}),
			Verdict: signal.VerdictInconsistent,
		}),
	}
	res := Evaluate(b, s.policy).Result()

	s.Equal(100-25-20-10-30, res.Score)
	s.Equal(DecisionReject, res.Decision)
	s.Equal([]string{
		"supporting document shows high suspicion of manipulation",
		"supporting document was edited",
		"supporting document was recently issued",
		"documents are inconsistent",
		"name: inconsistent",
	}, res.Flags)
}

func (s *EvaluateSuite) TestFaceBands() {
	tests := []struct {
		confidence int
		want       int
	}{
		{59, 50},
		{60, 65},
		{74, 65},
		{75, 100},
		{90, 100},
		{91, 100},
	}
	for _, tt := range tests {
		f := face(tt.confidence, true)
		f.IDVisible = nil
		res := Evaluate(Bundle{FaceMatch: signal.Present(f)}, s.policy).Result()
		s.Equal(tt.want, res.Score, "confidence %d", tt.confidence)
	}

	hidden := false
	f := face(80, true)
	f.IDVisible = &hidden
	f.PhotoOfPhotoSuspected = true
	res := Evaluate(Bundle{FaceMatch: signal.Present(f)}, s.policy).Result()
	s.Equal(100-45-10, res.Score)
	s.Equal([]string{"liveness check failed", "ID not visible in selfie"}, res.Flags)
}

func (s *EvaluateSuite) TestValidatorRules() {
	b := Bundle{
		IDFormat:                  signal.Present(fail("identifier has unknown region code 20")),
		AdministrativeDesignation: signal.Present(fail("Taytay is a municipality, not a city")),
		CategoryTaxonomy:          signal.Present(fail(`category "Schizophrenia" is not a recognized category`)),
	}
	res := Evaluate(b, s.policy).Result()

	s.Equal(50, res.Score)
	s.Equal(DecisionHumanReview, res.Decision)
	s.Equal([]string{
		"ID number format invalid",
		"identifier has unknown region code 20",
		"administrative designation incorrect",
		"Taytay is a municipality, not a city",
		"category not recognized",
		`category "Schizophrenia" is not a recognized category`,
	}, res.Flags)
}

func (s *EvaluateSuite) TestBreakdownDistinguishesAbsence() {
	b := Bundle{
		FaceMatch:            signal.Unavailable[signal.FaceMatch]("timeout"),
		DuplicateCheckFailed: true,
	}
	res := Evaluate(b, s.policy).Result()

	s.Equal("inconclusive: timeout", res.Breakdown[BreakdownFaceMatch])
	s.Equal("not evaluated", res.Breakdown[BreakdownDocument])
	s.Equal("not evaluated", res.Breakdown[BreakdownLicense])
	s.Equal("inconclusive: duplicate check unavailable", res.Breakdown[BreakdownDuplicate])
	s.Equal(100, res.Score)
}

func (s *EvaluateSuite) TestCalculateRiskScoreMatchesEvaluate() {
	b := cleanBundle()
	b.FaceMatch = signal.Present(face(70, true))
	s.Equal(Evaluate(b, s.policy).Result(), CalculateRiskScore(b, s.policy.Weights, s.policy.Thresholds))
}

// =============================================================================
// Properties
// =============================================================================

var behaviorPool = []string{"fast", "vpn", "prior rejection", "metadata", "new account", "bot"}

func randomBundle(r *rand.Rand) Bundle {
	levels := []signal.Level{signal.LevelLow, signal.LevelMedium, signal.LevelHigh}
	verdicts := []signal.Verdict{signal.VerdictConsistent, signal.VerdictMinorIssues, signal.VerdictInconsistent}
	lookups := []signal.Lookup{signal.LookupNotChecked, signal.LookupFound, signal.LookupNotFound, signal.LookupFailed}

	var b Bundle
	switch r.IntN(3) {
	case 1:
		b.DocumentForensics = signal.Unavailable[signal.DocumentForensics]("timeout")
	case 2:
		d := document(levels[r.IntN(3)], r.IntN(5), "detail")
		d.Expired = r.IntN(2) == 0
		d.FieldsChecked = r.IntN(2) == 0
		if r.IntN(2) == 0 {
			d.MissingFields = []string{"name"}
		}
		b.DocumentForensics = signal.Present(d)
	}
	if r.IntN(2) == 0 {
		b.SupportingDocForensics = signal.Present(signal.SupportingDocForensics{
			Signal:         signal.New(signal.StatusPass, levels[r.IntN(3)], nil, nil),
			Edited:         r.IntN(2) == 0,
			RecentlyIssued: r.IntN(2) == 0,
		})
	}
	if r.IntN(2) == 0 {
		b.CrossDocumentConsistency = signal.Present(signal.CrossDocumentConsistency{
			Signal:  signal.New(signal.StatusPass, "", nil, nil),
			Verdict: verdicts[r.IntN(3)],
		})
	}
	if r.IntN(2) == 0 {
		b.FaceMatch = signal.Present(face(r.IntN(101), r.IntN(2) == 0))
	}
	validation := func() signal.Observed[signal.Validation] {
		switch r.IntN(3) {
		case 0:
			return signal.Observed[signal.Validation]{}
		case 1:
			return signal.Present(pass())
		default:
			return signal.Present(fail("bad"))
		}
	}
	b.IDFormat = validation()
	b.AdministrativeDesignation = validation()
	b.CategoryTaxonomy = validation()
	b.Registry = lookups[r.IntN(4)]
	b.License = lookups[r.IntN(4)]
	for _, f := range behaviorPool {
		if r.IntN(3) == 0 {
			b.BehavioralFlags = append(b.BehavioralFlags, f)
		}
	}
	return b
}

func extremePolicy() Policy {
	p := DefaultPolicy()
	deltas := make(map[Event]int, len(AllEvents))
	for _, e := range AllEvents {
		if e.IsBonus() {
			deltas[e] = 100
		} else {
			deltas[e] = -100
		}
	}
	p.Weights = WeightTable{Version: "extreme", Deltas: deltas}
	return p
}

func (s *EvaluateSuite) TestBoundedness() {
	r := rand.New(rand.NewPCG(1, 2))
	for _, p := range []Policy{s.policy, extremePolicy()} {
		for i := 0; i < 500; i++ {
			res := Evaluate(randomBundle(r), p).Result()
			s.GreaterOrEqual(res.Score, 0)
			s.LessOrEqual(res.Score, 100)
		}
	}
}

func (s *EvaluateSuite) TestDuplicateAbsolutism() {
	r := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 200; i++ {
		b := randomBundle(r)
		b.IsDuplicateSubmission = true
		res := Evaluate(b, s.policy).Result()
		s.Equal(0, res.Score)
		s.Equal(DecisionReject, res.Decision)
	}
}

func (s *EvaluateSuite) TestMonotonicityOfPositives() {
	r := rand.New(rand.NewPCG(5, 6))
	for i := 0; i < 300; i++ {
		b := randomBundle(r)
		before := Evaluate(b, s.policy).Result().Score

		withRegistry := b
		withRegistry.Registry = signal.LookupFound
		s.GreaterOrEqual(Evaluate(withRegistry, s.policy).Result().Score, before)

		withLicense := b
		withLicense.License = signal.LookupFound
		s.GreaterOrEqual(Evaluate(withLicense, s.policy).Result().Score, before)
	}
}

func (s *EvaluateSuite) TestAbsenceNeutrality() {
	inconclusive := signal.New(signal.StatusInconclusive, "", nil, nil)
	neutralFace := face(80, true)
	neutralFace.IDVisible = nil

	variants := map[string]func(*Bundle){
		"document low suspicion": func(b *Bundle) {
			d := document(signal.LevelLow, 0)
			d.FieldsChecked = false
			b.DocumentForensics = signal.Present(d)
		},
		"document unavailable": func(b *Bundle) {
			b.DocumentForensics = signal.Unavailable[signal.DocumentForensics]("timeout")
		},
		"supporting low suspicion": func(b *Bundle) {
			b.SupportingDocForensics = signal.Present(signal.SupportingDocForensics{
				Signal: signal.New(signal.StatusPass, signal.LevelLow, nil, nil),
			})
		},
		"cross document inconclusive": func(b *Bundle) {
			b.CrossDocumentConsistency = signal.Present(signal.CrossDocumentConsistency{Signal: inconclusive})
		},
		"face in neutral band": func(b *Bundle) {
			b.FaceMatch = signal.Present(neutralFace)
		},
		"face circuit open": func(b *Bundle) {
			b.FaceMatch = signal.Unavailable[signal.FaceMatch]("circuit open")
		},
		"validators pass": func(b *Bundle) {
			b.IDFormat = signal.Present(pass())
			b.AdministrativeDesignation = signal.Present(pass())
			b.CategoryTaxonomy = signal.Present(pass())
		},
		"registry not found": func(b *Bundle) {
			b.Registry = signal.LookupNotFound
		},
		"license lookup failed": func(b *Bundle) {
			b.License = signal.LookupFailed
		},
		"duplicate check failed": func(b *Bundle) {
			b.DuplicateCheckFailed = true
		},
	}

	// A mid-range base so neither bound hides a difference.
	base := Bundle{BehavioralFlags: []string{"vpn", "fast"}}
	want := Evaluate(base, s.policy).Result()
	s.Equal(70, want.Score)

	for name, mutate := range variants {
		b := base
		mutate(&b)
		got := Evaluate(b, s.policy).Result()
		s.Equal(want.Score, got.Score, name)
		s.Equal(want.Decision, got.Decision, name)
		s.Equal(want.Flags, got.Flags, name)
	}
}

func (s *EvaluateSuite) TestDeterminism() {
	r := rand.New(rand.NewPCG(7, 8))
	for i := 0; i < 100; i++ {
		b := randomBundle(r)
		s.Equal(Evaluate(b, s.policy).Result(), Evaluate(b, s.policy).Result())
	}
}

func (s *EvaluateSuite) TestThresholdPartition() {
	for _, t := range []ThresholdSet{{85, 50}, {100, 0}, {1, 0}, {60, 59}} {
		for score := 0; score <= 100; score++ {
			d := t.Route(score)
			s.Equal(score >= t.AutoApprove, d == DecisionAutoApprove)
			s.Equal(score < t.HumanReview, d == DecisionReject)
			s.Equal(score >= t.HumanReview && score < t.AutoApprove, d == DecisionHumanReview)
		}
	}
}
