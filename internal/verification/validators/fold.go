package validators

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// fold lowercases s, strips diacritics and collapses every run of
// non-alphanumeric characters to a single space, so "Dasmariñas" and
// "dasmarinas", or "Physical Disability (Orthopedic)" and
// "physical disability orthopedic", compare equal.
func fold(s string) string {
	// transform.Chain keeps state between calls, so build one per use.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	words := strings.FieldsFunc(strings.ToLower(stripped), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	return strings.Join(words, " ")
}
