package signal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"trustgate/internal/verification/ports"
	"trustgate/internal/verification/validators"
)

type SignalSuite struct {
	suite.Suite
}

func TestSignalSuite(t *testing.T) {
	suite.Run(t, new(SignalSuite))
}

func (s *SignalSuite) TestNewPanicsOnContractViolations() {
	s.Panics(func() { New("maybe", "", nil, nil) })
	s.Panics(func() { New(StatusPass, "SEVERE", nil, nil) })
	s.Panics(func() { New(StatusPass, "", IntPtr(101), nil) })
	s.Panics(func() { New(StatusPass, "", IntPtr(-1), nil) })
	s.NotPanics(func() { New(StatusFail, LevelHigh, IntPtr(0), nil) })
}

func (s *SignalSuite) TestNewCopiesFlags() {
	flags := []string{"a"}
	sig := New(StatusFail, "", nil, flags)
	flags[0] = "b"
	s.Equal([]string{"a"}, sig.Flags)
}

func (s *SignalSuite) TestNormalizeDocument() {
	s.Run("clean document passes", func() {
		d := NormalizeDocument(ports.DocumentAnalysis{SuspicionLevel: "low", FieldsChecked: true})
		s.Equal(StatusPass, d.Status)
		s.Equal(LevelLow, d.Level)
		s.Zero(d.ForgerySignals)
		s.Empty(d.Flags)
	})

	s.Run("forgery signals and failed locale checks become flags", func() {
		d := NormalizeDocument(ports.DocumentAnalysis{
			SuspicionLevel: "HIGH",
			ForgerySignals: []string{"font mismatch", "cloned seal"},
			LocaleChecks: []ports.LocaleCheck{
				{Name: "DOH seal", Passed: false, Detail: "missing"},
				{Name: "issuer format", Passed: true},
			},
		})
		s.Equal(StatusFail, d.Status)
		s.Equal(2, d.ForgerySignals)
		s.Equal([]string{"font mismatch", "cloned seal", "locale check failed: DOH seal (missing)"}, d.Flags)
	})

	s.Run("inconclusive carries no level", func() {
		d := NormalizeDocument(ports.DocumentAnalysis{Inconclusive: true})
		s.True(d.Inconclusive())
		s.Empty(d.Level)
	})

	s.Run("unknown level panics", func() {
		s.Panics(func() { NormalizeDocument(ports.DocumentAnalysis{SuspicionLevel: "SEVERE"}) })
	})
}

func (s *SignalSuite) TestNormalizeConsistency() {
	c := NormalizeConsistency(ports.ConsistencyReport{
		Overall: "minor_issues",
		Fields: []ports.FieldCheck{
			{Field: "name", Verdict: "CONSISTENT"},
			{Field: "date of birth", Verdict: "MINOR_ISSUES", Note: "day and month swapped"},
		},
	})
	s.Equal(StatusFail, c.Status)
	s.Equal(VerdictMinorIssues, c.Verdict)
	s.Len(c.Fields, 2)
	s.Equal([]string{"date of birth: minor issues (day and month swapped)"}, c.Flags)
}

func (s *SignalSuite) TestNormalizeFaceMatch() {
	s.Run("rounds confidence", func() {
		f := NormalizeFaceMatch(ports.FaceMatchResult{Confidence: 92.6, IsLive: true})
		s.Require().NotNil(f.Confidence)
		s.Equal(93, *f.Confidence)
		s.False(f.LivenessFailed())
		s.Equal(StatusPass, f.Status)
	})

	s.Run("photo of photo fails liveness", func() {
		f := NormalizeFaceMatch(ports.FaceMatchResult{Confidence: 95, IsLive: true, PhotoOfPhotoSuspected: true})
		s.True(f.LivenessFailed())
		s.Equal(StatusFail, f.Status)
	})

	s.Run("out of range panics", func() {
		s.Panics(func() { NormalizeFaceMatch(ports.FaceMatchResult{Confidence: 100.6}) })
	})
}

func (s *SignalSuite) TestNormalizeValidators() {
	id := NormalizeIdentifier(validators.ValidateIdentifierFormat("13 7404 000 0012345"))
	s.True(id.Passed())
	s.Equal("13-7404-000-0012345", id.Value)

	des := NormalizeDesignation(validators.ValidateAdministrativeDesignation("Taytay", "city"))
	s.False(des.Passed())
	s.Len(des.Flags, 1)

	cat := NormalizeCategory(validators.ValidateCategoryMembership("visual disability", validators.DefaultTaxonomy))
	s.True(cat.Passed())
	s.Equal("Visual Disability", cat.Value)
}

func TestObservedStates(t *testing.T) {
	var zero Observed[int]
	assert.Equal(t, StateNotRequested, zero.State())
	_, ok := zero.Get()
	assert.False(t, ok)

	u := Unavailable[int]("timeout")
	assert.Equal(t, StateUnavailable, u.State())
	assert.Equal(t, "timeout", u.Reason())

	p := Present(7)
	v, ok := p.Get()
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestObservedJSON(t *testing.T) {
	type holder struct {
		A Observed[Validation] `json:"a"`
		B Observed[Validation] `json:"b"`
		C Observed[Validation] `json:"c"`
	}
	in := holder{
		A: Present(Validation{Signal: New(StatusPass, "", nil, nil), Value: "x"}),
		B: Unavailable[Validation]("circuit open"),
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out holder
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)

	var missing holder
	require.NoError(t, json.Unmarshal([]byte(`{}`), &missing))
	assert.Equal(t, StateNotRequested, missing.A.State())

	assert.Error(t, json.Unmarshal([]byte(`{"a":{"state":"present"}}`), &missing))
	assert.Error(t, json.Unmarshal([]byte(`{"a":{"state":"gone"}}`), &missing))
}

func TestLookup(t *testing.T) {
	assert.Equal(t, LookupNotChecked, LookupFromObserved(Observed[bool]{}))
	assert.Equal(t, LookupFound, LookupFromObserved(Present(true)))
	assert.Equal(t, LookupNotFound, LookupFromObserved(Present(false)))
	assert.Equal(t, LookupFailed, LookupFromObserved(Unavailable[bool]("timeout")))

	data, err := json.Marshal(LookupFailed)
	require.NoError(t, err)
	assert.JSONEq(t, `"failed"`, string(data))

	var l Lookup
	require.NoError(t, json.Unmarshal([]byte(`"found"`), &l))
	assert.Equal(t, LookupFound, l)
	assert.Error(t, json.Unmarshal([]byte(`"maybe"`), &l))
}

func (s *SignalSuite) TestValidateMatchesConstructorChecks() {
	s.NoError(New(StatusFail, LevelHigh, IntPtr(0), nil).Validate())
	s.Error(Signal{Status: "maybe"}.Validate())
	s.Error(Signal{Status: StatusPass, Level: "SEVERE"}.Validate())
	s.Error(Signal{Status: StatusPass, Confidence: IntPtr(500)}.Validate())
	s.Error(Signal{Status: StatusPass, Confidence: IntPtr(-7)}.Validate())
}

func (s *SignalSuite) TestCategoryValidate() {
	s.Run("normalized records are valid", func() {
		s.NoError(NormalizeDocument(ports.DocumentAnalysis{SuspicionLevel: "low"}).Validate())
		s.NoError(NormalizeSupportingDocument(ports.SupportingDocumentAnalysis{Inconclusive: true}).Validate())
		s.NoError(NormalizeConsistency(ports.ConsistencyReport{
			Overall: "minor_issues",
			Fields:  []ports.FieldCheck{{Field: "name", Verdict: "minor_issues"}},
		}).Validate())
		s.NoError(NormalizeFaceMatch(ports.FaceMatchResult{Confidence: 88, IsLive: true}).Validate())
	})

	s.Run("negative forgery count", func() {
		d := DocumentForensics{Signal: Signal{Status: StatusFail, Level: LevelHigh}, ForgerySignals: -4}
		s.Error(d.Validate())
	})

	s.Run("conclusive document without a level", func() {
		s.Error(DocumentForensics{Signal: Signal{Status: StatusPass}}.Validate())
		s.Error(SupportingDocForensics{Signal: Signal{Status: StatusFail}}.Validate())
	})

	s.Run("unknown verdicts", func() {
		s.Error(CrossDocumentConsistency{Signal: Signal{Status: StatusPass}, Verdict: "FINE"}.Validate())
		s.Error(CrossDocumentConsistency{
			Signal:  Signal{Status: StatusPass},
			Verdict: VerdictConsistent,
			Fields:  []FieldVerdict{{Field: "name", Verdict: "close"}},
		}.Validate())
	})

	s.Run("conclusive face match without confidence", func() {
		s.Error(FaceMatch{Signal: Signal{Status: StatusPass}, Live: true}.Validate())
		s.NoError(FaceMatch{Signal: Signal{Status: StatusInconclusive}, Live: true}.Validate())
	})
}

func (s *SignalSuite) TestFaceMatchJSONRequiresLiveness() {
	var f FaceMatch
	s.Error(json.Unmarshal([]byte(`{"status":"pass","confidence":90}`), &f))

	s.Require().NoError(json.Unmarshal([]byte(`{"status":"inconclusive"}`), &f))
	s.True(f.Live)

	s.Require().NoError(json.Unmarshal([]byte(`{"status":"fail","confidence":40,"live":false}`), &f))
	s.False(f.Live)
	s.Equal(40, *f.Confidence)

	orig := NormalizeFaceMatch(ports.FaceMatchResult{Confidence: 91, IsLive: true, Notes: []string{"glare"}})
	data, err := json.Marshal(orig)
	s.Require().NoError(err)
	var back FaceMatch
	s.Require().NoError(json.Unmarshal(data, &back))
	s.Equal(orig, back)
}

func TestValidateObserved(t *testing.T) {
	assert.NoError(t, ValidateObserved(Observed[Validation]{}))
	assert.NoError(t, ValidateObserved(Unavailable[Validation]("timeout")))
	assert.NoError(t, ValidateObserved(Present(NormalizeIdentifier(validators.ValidateIdentifierFormat("13-7404-000-0012345")))))
	assert.Error(t, ValidateObserved(Present(Validation{Signal: Signal{Status: "ok"}})))

	assert.True(t, LookupFound.Valid())
	assert.False(t, Lookup(99).Valid())
}
