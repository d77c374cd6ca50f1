package scoring

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"trustgate/internal/verification/behavior"
)

// BaseScore is the score of a bundle before any event applies.
const BaseScore = 100

// Decision is the routing outcome.
type Decision string

const (
	DecisionAutoApprove Decision = "AUTO_APPROVE"
	DecisionHumanReview Decision = "HUMAN_REVIEW"
	DecisionReject      Decision = "REJECT"
)

// ErrInvalidPolicy wraps every policy validation failure.
var ErrInvalidPolicy = errors.New("invalid scoring policy")

// WeightTable is the signed score delta per event for one policy version.
type WeightTable struct {
	Version string
	Deltas  map[Event]int
	// BehavioralCap bounds the combined behavioral penalty. Zero means uncapped.
	BehavioralCap int
}

// Delta returns the weight of e. Unknown events weigh nothing.
func (w WeightTable) Delta(e Event) int {
	return w.Deltas[e]
}

// Validate checks every event is present with a correctly signed weight.
func (w WeightTable) Validate() error {
	var problems []string
	for _, e := range AllEvents {
		d, ok := w.Deltas[e]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("%s has no weight", e))
		case e.IsBonus() && d < 0:
			problems = append(problems, fmt.Sprintf("%s is a bonus and must not be negative (got %d)", e, d))
		case !e.IsBonus() && d > 0:
			problems = append(problems, fmt.Sprintf("%s is a penalty and must not be positive (got %d)", e, d))
		}
	}
	if w.BehavioralCap < 0 {
		problems = append(problems, fmt.Sprintf("behavioral cap must not be negative (got %d)", w.BehavioralCap))
	}
	for e := range w.Deltas {
		if !e.Known() {
			problems = append(problems, fmt.Sprintf("%s is not a known event", e))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidPolicy, strings.Join(problems, "; "))
	}
	return nil
}

// ThresholdSet holds the inclusive lower bounds of the approve and review bands.
type ThresholdSet struct {
	AutoApprove int `json:"auto_approve" yaml:"auto_approve"`
	HumanReview int `json:"human_review" yaml:"human_review"`
}

// Validate requires 100 >= AutoApprove > HumanReview >= 0.
func (t ThresholdSet) Validate() error {
	if t.AutoApprove > BaseScore || t.HumanReview < 0 || t.AutoApprove <= t.HumanReview {
		return fmt.Errorf("%w: thresholds must satisfy 100 >= auto_approve > human_review >= 0 (got %d, %d)",
			ErrInvalidPolicy, t.AutoApprove, t.HumanReview)
	}
	return nil
}

// Route maps a clamped score onto a decision.
func (t ThresholdSet) Route(score int) Decision {
	switch {
	case score >= t.AutoApprove:
		return DecisionAutoApprove
	case score >= t.HumanReview:
		return DecisionHumanReview
	default:
		return DecisionReject
	}
}

// Policy is a complete, versioned scoring configuration.
type Policy struct {
	Weights    WeightTable
	Thresholds ThresholdSet
	Behavior   behavior.Rules
}

// Version identifies the policy in results and stored decisions.
func (p Policy) Version() string {
	return p.Weights.Version
}

// Validate checks the version, weights and thresholds.
func (p Policy) Validate() error {
	if strings.TrimSpace(p.Version()) == "" {
		return fmt.Errorf("%w: version is required", ErrInvalidPolicy)
	}
	if err := p.Weights.Validate(); err != nil {
		return err
	}
	if err := p.Thresholds.Validate(); err != nil {
		return err
	}
	if c := p.Weights.BehavioralCap; c > 0 && BaseScore-c < p.Thresholds.HumanReview {
		return fmt.Errorf("%w: behavioral cap %d lets behavior alone reject below human_review %d",
			ErrInvalidPolicy, c, p.Thresholds.HumanReview)
	}
	return nil
}

// Equal reports whether two policies score identically.
func (p Policy) Equal(other Policy) bool {
	return p.Version() == other.Version() &&
		p.Thresholds == other.Thresholds &&
		p.Behavior == other.Behavior &&
		p.Weights.BehavioralCap == other.Weights.BehavioralCap &&
		maps.Equal(p.Weights.Deltas, other.Weights.Deltas)
}

// DefaultPolicyVersion names the built-in policy.
const DefaultPolicyVersion = "v1"

// DefaultPolicy returns the built-in v1 policy.
func DefaultPolicy() Policy {
	return Policy{
		Weights: WeightTable{
			Version: DefaultPolicyVersion,
			Deltas: map[Event]int{
				EventLivenessFailed:        -45,
				EventFaceMatchVeryLow:      -50,
				EventFaceMatchLow:          -35,
				EventFaceMatchStrong:       3,
				EventIDNotVisibleInSelfie:  -10,
				EventAISuspicionMedium:     -15,
				EventAISuspicionHigh:       -35,
				EventForgerySignalsFew:     -15,
				EventForgerySignalsMany:    -35,
				EventDocumentExpired:       -30,
				EventMissingRequiredFields: -10,
				EventAllFieldsPresent:      3,
				EventSupportingMedium:      -10,
				EventSupportingHigh:        -25,
				EventSupportingEdited:      -20,
				EventSupportingRecent:      -10,
				EventCrossDocMinorIssues:   -10,
				EventCrossDocInconsistent:  -30,
				EventCrossDocConsistent:    2,
				EventIDFormatInvalid:       -20,
				EventDesignationIncorrect:  -10,
				EventCategoryInvalid:       -20,
				EventRegistryMatch:         5,
				EventLicenseValid:          5,
				EventBehavioralFlag:        -15,
			},
			BehavioralCap: 45,
		},
		Thresholds: ThresholdSet{AutoApprove: 85, HumanReview: 50},
		Behavior:   behavior.DefaultRules(),
	}
}
