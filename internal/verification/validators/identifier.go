package validators

import (
	"fmt"
	"regexp"
	"strings"
)

// IdentifierResult is the outcome of an identifier format check. Failures are
// reported as flags, never as errors.
type IdentifierResult struct {
	Valid      bool     `json:"valid"`
	Normalized string   `json:"normalized"`
	Flags      []string `json:"flags,omitempty"`
}

// IdentifierScheme describes a geographically coded identifier layout.
type IdentifierScheme struct {
	Name string
	// Layout is shown to reviewers in format flags.
	Layout string
	// Pattern must match the normalized (dash-separated) form and capture the
	// region, locality, sub-locality and sequence groups in that order.
	Pattern *regexp.Regexp
	// Regions maps valid region codes to their names.
	Regions map[string]string
}

// DefaultScheme is the PSGC-coded ID number RR-PPMM-BBB-NNNNNNN: region,
// province/city-municipality, barangay and sequence.
var DefaultScheme = IdentifierScheme{
	Name:    "PSGC ID number",
	Layout:  "RR-PPMM-BBB-NNNNNNN",
	Pattern: regexp.MustCompile(`^(\d{2})-(\d{4})-(\d{3})-(\d{7})$`),
	Regions: map[string]string{
		"01": "Ilocos Region",
		"02": "Cagayan Valley",
		"03": "Central Luzon",
		"04": "CALABARZON",
		"05": "Bicol Region",
		"06": "Western Visayas",
		"07": "Central Visayas",
		"08": "Eastern Visayas",
		"09": "Zamboanga Peninsula",
		"10": "Northern Mindanao",
		"11": "Davao Region",
		"12": "SOCCSKSARGEN",
		"13": "National Capital Region",
		"14": "Cordillera Administrative Region",
		"16": "Caraga",
		"17": "MIMAROPA",
		"18": "Negros Island Region",
		"19": "BARMM",
	},
}

var separators = strings.NewReplacer(" ", "-", ".", "-", "_", "-", "/", "-")

// ValidateIdentifierFormat checks raw against DefaultScheme.
func ValidateIdentifierFormat(raw string) IdentifierResult {
	return DefaultScheme.Validate(raw)
}

// Validate normalizes raw and checks layout and region code.
func (s IdentifierScheme) Validate(raw string) IdentifierResult {
	normalized := s.normalize(raw)
	res := IdentifierResult{Normalized: normalized}

	if normalized == "" {
		res.Flags = append(res.Flags, "identifier is missing")
		return res
	}

	m := s.Pattern.FindStringSubmatch(normalized)
	if m == nil {
		res.Flags = append(res.Flags, fmt.Sprintf("identifier does not match %s layout %s", s.Name, s.Layout))
		return res
	}

	region, locality, sequence := m[1], m[2], m[4]
	if _, ok := s.Regions[region]; !ok {
		res.Flags = append(res.Flags, fmt.Sprintf("identifier has unknown region code %s", region))
	}
	if strings.Trim(locality, "0") == "" {
		res.Flags = append(res.Flags, "identifier has an empty locality code")
	}
	if strings.Trim(sequence, "0") == "" {
		res.Flags = append(res.Flags, "identifier has an empty sequence number")
	}

	res.Valid = len(res.Flags) == 0
	return res
}

// normalize uppercases, unifies separators to '-', collapses repeats and
// inserts dashes into a bare digit run of the scheme's total length.
func (s IdentifierScheme) normalize(raw string) string {
	v := strings.ToUpper(strings.TrimSpace(raw))
	v = separators.Replace(v)
	for strings.Contains(v, "--") {
		v = strings.ReplaceAll(v, "--", "-")
	}
	v = strings.Trim(v, "-")

	if isDigits(v) {
		if parts := splitByLayout(v, s.Layout); parts != "" {
			return parts
		}
	}
	return v
}

// splitByLayout re-inserts dashes when digits has exactly the layout's digit count.
func splitByLayout(digits, layout string) string {
	groups := strings.Split(layout, "-")
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	if len(digits) != total {
		return ""
	}
	out := make([]string, 0, len(groups))
	pos := 0
	for _, g := range groups {
		out = append(out, digits[pos:pos+len(g)])
		pos += len(g)
	}
	return strings.Join(out, "-")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
