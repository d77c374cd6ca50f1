package scoring

// FlagDuplicateSubmission is the only flag of a duplicate rejection.
const FlagDuplicateSubmission = "duplicate submission"

// RiskResult is the scored, routed verdict for one bundle.
type RiskResult struct {
	Score         int               `json:"score"`
	Decision      Decision          `json:"decision"`
	Flags         []string          `json:"flags"`
	Breakdown     map[string]string `json:"breakdown"`
	PolicyVersion string            `json:"policy_version"`
}

// Outcome is either Rejected or Scored.
type Outcome interface {
	// Result flattens the outcome into a RiskResult.
	Result() RiskResult
	isOutcome()
}

// Rejected short-circuits scoring entirely.
type Rejected struct {
	Reason        string
	PolicyVersion string
}

func (Rejected) isOutcome() {}

// Result reports score 0 and REJECT with the reason as the sole flag.
func (r Rejected) Result() RiskResult {
	return RiskResult{
		Score:         0,
		Decision:      DecisionReject,
		Flags:         []string{r.Reason},
		Breakdown:     map[string]string{BreakdownDuplicate: "rejected: " + r.Reason},
		PolicyVersion: r.PolicyVersion,
	}
}

// Scored is a bundle that went through every category.
type Scored struct {
	RiskResult
}

func (Scored) isOutcome() {}

// Result returns the scored result.
func (s Scored) Result() RiskResult {
	return s.RiskResult
}
