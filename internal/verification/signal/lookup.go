package signal

import (
	"encoding/json"
	"fmt"
)

// Lookup is the outcome of an authoritative lookup. Only LookupFound scores;
// a failed lookup is kept distinct from "no record" so reviewers can tell an
// outage from a miss.
type Lookup int

const (
	LookupNotChecked Lookup = iota
	LookupFound
	LookupNotFound
	LookupFailed
)

var lookupNames = map[Lookup]string{
	LookupNotChecked: "not_checked",
	LookupFound:      "found",
	LookupNotFound:   "not_found",
	LookupFailed:     "failed",
}

func (l Lookup) String() string {
	if name, ok := lookupNames[l]; ok {
		return name
	}
	return fmt.Sprintf("lookup(%d)", int(l))
}

func (l Lookup) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *Lookup) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for k, name := range lookupNames {
		if name == s {
			*l = k
			return nil
		}
	}
	return fmt.Errorf("unknown lookup outcome %q", s)
}

// LookupFromObserved maps a lookup answer onto a Lookup.
func LookupFromObserved(o Observed[bool]) Lookup {
	switch o.State() {
	case StatePresent:
		if found, _ := o.Get(); found {
			return LookupFound
		}
		return LookupNotFound
	case StateUnavailable:
		return LookupFailed
	default:
		return LookupNotChecked
	}
}
