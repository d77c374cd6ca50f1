package validators

import (
	"fmt"
	"strings"
)

// CategoryResult reports whether a claimed category is in the taxonomy.
type CategoryResult struct {
	Valid   bool    `json:"valid"`
	Matched *string `json:"matched,omitempty"`
	Flag    *string `json:"flag,omitempty"`
}

// DefaultTaxonomy lists the recognized disability categories. Diagnoses
// ("schizophrenia", "autism") are deliberately absent: the category field
// takes a category, not a medical condition.
var DefaultTaxonomy = []string{
	"Deaf or Hard of Hearing",
	"Intellectual Disability",
	"Learning Disability",
	"Mental Disability",
	"Physical Disability (Orthopedic)",
	"Psychosocial Disability",
	"Speech and Language Impairment",
	"Visual Disability",
	"Cancer (RA 11215)",
	"Rare Disease (RA 10747)",
}

// ValidateCategoryMembership matches claimedCategory against taxonomy,
// ignoring case, diacritics and punctuation. Matched is the taxonomy entry as
// written in the taxonomy.
func ValidateCategoryMembership(claimedCategory string, taxonomy []string) CategoryResult {
	claimed := fold(claimedCategory)
	if claimed == "" {
		return invalidCategory("category is missing")
	}
	if len(taxonomy) == 0 {
		return invalidCategory("no recognized categories are configured")
	}

	for _, entry := range taxonomy {
		if fold(entry) == claimed {
			matched := entry
			return CategoryResult{Valid: true, Matched: &matched}
		}
	}
	return invalidCategory(fmt.Sprintf("category %q is not a recognized category", strings.TrimSpace(claimedCategory)))
}

func invalidCategory(flag string) CategoryResult {
	return CategoryResult{Valid: false, Flag: &flag}
}
