// Package summary renders risk results for reviewers.
package summary

import (
	"maps"

	"trustgate/internal/verification/scoring"
)

// MaxTopFlags is how many flags a summary leads with.
const MaxTopFlags = 3

// Labels shown to reviewers per decision.
const (
	LabelAutoApprove = "Low risk: auto-approved"
	LabelHumanReview = "Medium risk: needs human review"
	LabelReject      = "High risk: rejected"
)

// Summary is the reviewer-facing view of a RiskResult.
type Summary struct {
	Label         string            `json:"label"`
	Decision      scoring.Decision  `json:"decision"`
	Score         int               `json:"score"`
	FlagCount     int               `json:"flag_count"`
	TopFlags      []string          `json:"top_flags"`
	Breakdown     map[string]string `json:"breakdown"`
	PolicyVersion string            `json:"policy_version"`
}

// FormatRiskSummary renders res without changing its score or decision.
func FormatRiskSummary(res scoring.RiskResult) Summary {
	top := res.Flags
	if len(top) > MaxTopFlags {
		top = top[:MaxTopFlags]
	}
	return Summary{
		Label:         label(res.Decision),
		Decision:      res.Decision,
		Score:         res.Score,
		FlagCount:     len(res.Flags),
		TopFlags:      append([]string{}, top...),
		Breakdown:     maps.Clone(res.Breakdown),
		PolicyVersion: res.PolicyVersion,
	}
}

func label(d scoring.Decision) string {
	switch d {
	case scoring.DecisionAutoApprove:
		return LabelAutoApprove
	case scoring.DecisionHumanReview:
		return LabelHumanReview
	default:
		return LabelReject
	}
}
