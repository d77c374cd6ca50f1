package signal

import (
	"encoding/json"
	"fmt"
)

// State distinguishes why a value is or is not available.
type State string

const (
	// StateNotRequested is the zero value: the check was never asked for.
	StateNotRequested State = "not_requested"
	// StateUnavailable means the check was asked for and did not answer.
	StateUnavailable State = "unavailable"
	StatePresent     State = "present"
)

// Observed wraps a signal that may be absent. The zero value is "not
// requested"; both absent states score neutrally.
type Observed[T any] struct {
	state  State
	value  T
	reason string
}

// Present wraps an available value.
func Present[T any](v T) Observed[T] {
	return Observed[T]{state: StatePresent, value: v}
}

// Unavailable records that a requested check did not answer.
func Unavailable[T any](reason string) Observed[T] {
	if reason == "" {
		reason = "unavailable"
	}
	return Observed[T]{state: StateUnavailable, reason: reason}
}

// State returns the availability state.
func (o Observed[T]) State() State {
	if o.state == "" {
		return StateNotRequested
	}
	return o.state
}

// Get returns the value and whether it is present.
func (o Observed[T]) Get() (T, bool) {
	return o.value, o.state == StatePresent
}

// Reason returns why an unavailable value is missing.
func (o Observed[T]) Reason() string {
	return o.reason
}

type observedJSON[T any] struct {
	State  State  `json:"state"`
	Value  *T     `json:"value,omitempty"`
	Reason string `json:"reason,omitempty"`
}

func (o Observed[T]) MarshalJSON() ([]byte, error) {
	out := observedJSON[T]{State: o.State(), Reason: o.reason}
	if o.state == StatePresent {
		v := o.value
		out.Value = &v
	}
	return json.Marshal(out)
}

func (o *Observed[T]) UnmarshalJSON(data []byte) error {
	var in observedJSON[T]
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	switch in.State {
	case "", StateNotRequested:
		*o = Observed[T]{}
	case StateUnavailable:
		*o = Unavailable[T](in.Reason)
	case StatePresent:
		if in.Value == nil {
			return fmt.Errorf("observed value: state present without a value")
		}
		*o = Present(*in.Value)
	default:
		return fmt.Errorf("observed value: unknown state %q", in.State)
	}
	return nil
}
