// Package signal holds the normalized evidence shapes the risk aggregator
// consumes. Constructors panic on contract violations: a malformed signal is a
// programming error in an adapter, not a scoring input. Records decoded from
// JSON skip the constructors and are checked with Validate instead.
package signal

import (
	"fmt"
	"strings"
)

// Status is the outcome of a check.
type Status string

const (
	StatusPass         Status = "pass"
	StatusFail         Status = "fail"
	StatusInconclusive Status = "inconclusive"
)

// Level is a suspicion level.
type Level string

const (
	LevelLow    Level = "LOW"
	LevelMedium Level = "MEDIUM"
	LevelHigh   Level = "HIGH"
)

// ParseLevel accepts LOW, MEDIUM or HIGH in any case.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToUpper(strings.TrimSpace(s))); l {
	case LevelLow, LevelMedium, LevelHigh:
		return l, nil
	default:
		return "", fmt.Errorf("unknown suspicion level %q", s)
	}
}

// Verdict is a cross-document consistency verdict.
type Verdict string

const (
	VerdictConsistent   Verdict = "CONSISTENT"
	VerdictMinorIssues  Verdict = "MINOR_ISSUES"
	VerdictInconsistent Verdict = "INCONSISTENT"
)

// ParseVerdict accepts the three verdicts in any case.
func ParseVerdict(s string) (Verdict, error) {
	switch v := Verdict(strings.ToUpper(strings.TrimSpace(s))); v {
	case VerdictConsistent, VerdictMinorIssues, VerdictInconsistent:
		return v, nil
	default:
		return "", fmt.Errorf("unknown consistency verdict %q", s)
	}
}

// Signal is the common shape every normalized check shares.
type Signal struct {
	Status     Status   `json:"status"`
	Level      Level    `json:"level,omitempty"`
	Confidence *int     `json:"confidence,omitempty"`
	Flags      []string `json:"flags,omitempty"`
}

// New builds a Signal, panicking on an unknown status or level, or a
// confidence outside 0-100.
func New(status Status, level Level, confidence *int, flags []string) Signal {
	sig := Signal{
		Status:     status,
		Level:      level,
		Confidence: confidence,
		Flags:      cloneStrings(flags),
	}
	if err := sig.Validate(); err != nil {
		panic("signal: " + err.Error())
	}
	return sig
}

// Validate applies the checks New enforces. Decoded signals never pass
// through New, so anything read from outside the process is checked here.
func (s Signal) Validate() error {
	switch s.Status {
	case StatusPass, StatusFail, StatusInconclusive:
	default:
		return fmt.Errorf("unknown status %q", s.Status)
	}
	switch s.Level {
	case "", LevelLow, LevelMedium, LevelHigh:
	default:
		return fmt.Errorf("unknown level %q", s.Level)
	}
	if s.Confidence != nil && (*s.Confidence < 0 || *s.Confidence > 100) {
		return fmt.Errorf("confidence %d outside 0-100", *s.Confidence)
	}
	return nil
}

// Inconclusive reports whether the check ran without reaching a verdict.
func (s Signal) Inconclusive() bool {
	return s.Status == StatusInconclusive
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

func cloneStrings(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
