package validators

import (
	"fmt"
	"strings"
)

// Designation is the official local-government class of a locality.
type Designation string

const (
	DesignationCity         Designation = "city"
	DesignationMunicipality Designation = "municipality"
)

// DesignationResult reports whether a claimed designation is correct.
type DesignationResult struct {
	Correct bool    `json:"correct"`
	Flag    *string `json:"flag,omitempty"`
}

// DefaultLocalities is the built-in designation directory, keyed by folded name.
var DefaultLocalities = NewLocalityDirectory(map[string]Designation{
	"Antipolo":      DesignationCity,
	"Bacoor":        DesignationCity,
	"Baguio":        DesignationCity,
	"Cainta":        DesignationMunicipality,
	"Caloocan":      DesignationCity,
	"Cebu":          DesignationCity,
	"Dasmariñas":    DesignationCity,
	"Davao":         DesignationCity,
	"General Trias": DesignationCity,
	"Iloilo":        DesignationCity,
	"Imus":          DesignationCity,
	"La Trinidad":   DesignationMunicipality,
	"Las Piñas":     DesignationCity,
	"Makati":        DesignationCity,
	"Malabon":       DesignationCity,
	"Mandaluyong":   DesignationCity,
	"Manila":        DesignationCity,
	"Marikina":      DesignationCity,
	"Muntinlupa":    DesignationCity,
	"Navotas":       DesignationCity,
	"Parañaque":     DesignationCity,
	"Pasay":         DesignationCity,
	"Pasig":         DesignationCity,
	"Pateros":       DesignationMunicipality,
	"Quezon":        DesignationCity,
	"Rodriguez":     DesignationMunicipality,
	"Rosario":       DesignationMunicipality,
	"San Juan":      DesignationCity,
	"San Mateo":     DesignationMunicipality,
	"Taguig":        DesignationCity,
	"Tanay":         DesignationMunicipality,
	"Taytay":        DesignationMunicipality,
	"Valenzuela":    DesignationCity,
})

// LocalityDirectory maps folded locality names to their official designation.
type LocalityDirectory struct {
	entries map[string]Designation
}

// NewLocalityDirectory builds a directory from display names.
func NewLocalityDirectory(entries map[string]Designation) LocalityDirectory {
	d := LocalityDirectory{entries: make(map[string]Designation, len(entries))}
	for name, des := range entries {
		d.entries[localityKey(name)] = des
	}
	return d
}

// Lookup returns the designation for locality.
func (d LocalityDirectory) Lookup(locality string) (Designation, bool) {
	des, ok := d.entries[localityKey(locality)]
	return des, ok
}

// ValidateAdministrativeDesignation checks the claim against DefaultLocalities.
func ValidateAdministrativeDesignation(locality, claimedDesignation string) DesignationResult {
	return DefaultLocalities.Validate(locality, claimedDesignation)
}

// Validate checks that locality's official designation matches the claim.
// Unknown localities and unrecognized claims are incorrect, with a flag.
func (d LocalityDirectory) Validate(locality, claimedDesignation string) DesignationResult {
	if strings.TrimSpace(locality) == "" {
		return incorrect("locality is missing")
	}

	claimed, ok := parseDesignation(claimedDesignation)
	if !ok {
		return incorrect(fmt.Sprintf("claimed designation %q is not a recognized designation", strings.TrimSpace(claimedDesignation)))
	}

	actual, ok := d.Lookup(locality)
	if !ok {
		return incorrect(fmt.Sprintf("locality %q is not in the designation directory", strings.TrimSpace(locality)))
	}
	if actual != claimed {
		return incorrect(fmt.Sprintf("%s is a %s, not a %s", strings.TrimSpace(locality), actual, claimed))
	}
	return DesignationResult{Correct: true}
}

func incorrect(flag string) DesignationResult {
	return DesignationResult{Correct: false, Flag: &flag}
}

func parseDesignation(s string) (Designation, bool) {
	switch fold(s) {
	case "city", "component city", "highly urbanized city", "independent component city":
		return DesignationCity, true
	case "municipality", "municipal", "mun", "town":
		return DesignationMunicipality, true
	default:
		return "", false
	}
}

// localityKey folds a locality name and strips "City of"/"City"/"Municipality of"
// decorations so "City of Makati" and "Makati City" share a key.
func localityKey(name string) string {
	k := fold(name)
	for _, prefix := range []string{"city of ", "municipality of "} {
		k = strings.TrimPrefix(k, prefix)
	}
	return strings.TrimSuffix(k, " city")
}
