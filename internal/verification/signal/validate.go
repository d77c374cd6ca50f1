package signal

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Validator is implemented by every category record.
type Validator interface {
	Validate() error
}

// ValidateObserved checks the value of a present observation. Absent
// observations carry nothing to check.
func ValidateObserved[T Validator](o Observed[T]) error {
	v, ok := o.Get()
	if !ok {
		return nil
	}
	return v.Validate()
}

// Validate checks a decoded document analysis. A conclusive analysis must
// carry a suspicion level.
func (d DocumentForensics) Validate() error {
	if err := d.Signal.Validate(); err != nil {
		return err
	}
	if d.ForgerySignals < 0 {
		return fmt.Errorf("forgery signal count %d is negative", d.ForgerySignals)
	}
	return requireLevel(d.Signal)
}

func (d SupportingDocForensics) Validate() error {
	if err := d.Signal.Validate(); err != nil {
		return err
	}
	return requireLevel(d.Signal)
}

func (c CrossDocumentConsistency) Validate() error {
	if err := c.Signal.Validate(); err != nil {
		return err
	}
	if c.Inconclusive() {
		if c.Verdict != "" {
			return fmt.Errorf("inconclusive comparison with verdict %q", c.Verdict)
		}
	} else if !knownVerdict(c.Verdict) {
		return fmt.Errorf("unknown consistency verdict %q", c.Verdict)
	}
	var errs []error
	for _, f := range c.Fields {
		if !knownVerdict(f.Verdict) {
			errs = append(errs, fmt.Errorf("field %q: unknown verdict %q", f.Field, f.Verdict))
		}
	}
	return errors.Join(errs...)
}

// Validate checks a decoded face match. A conclusive match must carry a
// confidence.
func (f FaceMatch) Validate() error {
	if err := f.Signal.Validate(); err != nil {
		return err
	}
	if !f.Inconclusive() && f.Confidence == nil {
		return errors.New("conclusive face match without a confidence")
	}
	return nil
}

func (v Validation) Validate() error {
	return v.Signal.Validate()
}

// Valid reports whether l is one of the known lookup outcomes.
func (l Lookup) Valid() bool {
	_, ok := lookupNames[l]
	return ok
}

// UnmarshalJSON requires liveness on a conclusive match; a missing "live"
// would otherwise read as a failed liveness check. Inconclusive matches
// default to live, as NormalizeFaceMatch builds them.
func (f *FaceMatch) UnmarshalJSON(data []byte) error {
	type plain FaceMatch
	var in struct {
		plain
		Live *bool `json:"live"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*f = FaceMatch(in.plain)
	switch {
	case in.Live != nil:
		f.Live = *in.Live
	case f.Inconclusive():
		f.Live = true
	default:
		return errors.New("face match: conclusive result without liveness")
	}
	return nil
}

func knownVerdict(v Verdict) bool {
	switch v {
	case VerdictConsistent, VerdictMinorIssues, VerdictInconsistent:
		return true
	}
	return false
}

func requireLevel(s Signal) error {
	if !s.Inconclusive() && s.Level == "" {
		return fmt.Errorf("%s signal without a suspicion level", s.Status)
	}
	return nil
}
