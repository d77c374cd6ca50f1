package scoring

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"trustgate/internal/verification/behavior"
)

// Document is the serialized form of a Policy, used for policy files and
// the policy API.
type Document struct {
	Version       string           `yaml:"version" json:"version"`
	Thresholds    ThresholdSet     `yaml:"thresholds" json:"thresholds"`
	Weights       map[Event]int    `yaml:"weights" json:"weights"`
	BehavioralCap int              `yaml:"behavioral_cap" json:"behavioral_cap"`
	Behavior      *BehaviorSection `yaml:"behavior,omitempty" json:"behavior,omitempty"`
}

// BehaviorSection configures the behavioral detector. Durations use Go
// duration syntax ("60s", "72h"). Omitted fields keep their defaults.
type BehaviorSection struct {
	MinSubmissionDuration string `yaml:"min_submission_duration,omitempty" json:"min_submission_duration,omitempty"`
	MinAccountAge         string `yaml:"min_account_age,omitempty" json:"min_account_age,omitempty"`
	DetectAutomation      *bool  `yaml:"detect_automation,omitempty" json:"detect_automation,omitempty"`
}

// Document returns the serializable form of p.
func (p Policy) Document() Document {
	weights := make(map[Event]int, len(p.Weights.Deltas))
	for e, d := range p.Weights.Deltas {
		weights[e] = d
	}
	detect := p.Behavior.DetectAutomation
	return Document{
		Version:       p.Version(),
		Thresholds:    p.Thresholds,
		Weights:       weights,
		BehavioralCap: p.Weights.BehavioralCap,
		Behavior: &BehaviorSection{
			MinSubmissionDuration: p.Behavior.MinSubmissionDuration.String(),
			MinAccountAge:         p.Behavior.MinAccountAge.String(),
			DetectAutomation:      &detect,
		},
	}
}

// Policy validates d and converts it.
func (d Document) Policy() (Policy, error) {
	deltas := make(map[Event]int, len(d.Weights))
	for e, w := range d.Weights {
		deltas[e] = w
	}
	rules, err := d.Behavior.rules()
	if err != nil {
		return Policy{}, err
	}
	p := Policy{
		Weights:    WeightTable{Version: d.Version, Deltas: deltas, BehavioralCap: d.BehavioralCap},
		Thresholds: d.Thresholds,
		Behavior:   rules,
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func (b *BehaviorSection) rules() (behavior.Rules, error) {
	rules := behavior.DefaultRules()
	if b == nil {
		return rules, nil
	}
	var err error
	if b.MinSubmissionDuration != "" {
		if rules.MinSubmissionDuration, err = parseDuration("min_submission_duration", b.MinSubmissionDuration); err != nil {
			return behavior.Rules{}, err
		}
	}
	if b.MinAccountAge != "" {
		if rules.MinAccountAge, err = parseDuration("min_account_age", b.MinAccountAge); err != nil {
			return behavior.Rules{}, err
		}
	}
	if b.DetectAutomation != nil {
		rules.DetectAutomation = *b.DetectAutomation
	}
	return rules, nil
}

func parseDuration(field, v string) (time.Duration, error) {
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: behavior.%s: invalid duration %q", ErrInvalidPolicy, field, v)
	}
	return d, nil
}

// ParsePolicy decodes a YAML policy document. Unknown keys are rejected.
func ParsePolicy(data []byte) (Policy, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Policy{}, fmt.Errorf("%w: decode: %v", ErrInvalidPolicy, err)
	}
	return doc.Policy()
}

// LoadPolicyFile reads and parses the policy at path.
func LoadPolicyFile(path string) (Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy %s: %w", path, err)
	}
	p, err := ParsePolicy(data)
	if err != nil {
		return Policy{}, fmt.Errorf("load policy %s: %w", path, err)
	}
	return p, nil
}

// MarshalPolicy encodes p as YAML.
func MarshalPolicy(p Policy) ([]byte, error) {
	return yaml.Marshal(p.Document())
}
