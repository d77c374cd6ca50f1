// Package strings provides string slice helpers used when assembling
// reviewer-facing reason lists.
package strings

import (
	"strings"
)

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. First occurrence wins, so the
// output keeps the order in which reasons were produced.
//
// Example:
//
//	DedupeAndTrim([]string{"  expired ", "edited", "expired", "", "  "})
//	// Returns: []string{"expired", "edited"}
func DedupeAndTrim(values []string) []string {
	return dedupe(values, strings.TrimSpace)
}

// DedupeAndTrimLower is like DedupeAndTrim but also lowercases each element.
func DedupeAndTrimLower(values []string) []string {
	return dedupe(values, func(s string) string {
		return strings.ToLower(strings.TrimSpace(s))
	})
}

// AppendUnique appends each value not already present in dst, trimming
// whitespace and skipping empties. dst is assumed to be deduplicated already.
func AppendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" || contains(dst, trimmed) {
			continue
		}
		dst = append(dst, trimmed)
	}
	return dst
}

func dedupe(values []string, normalize func(string) string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		n := normalize(v)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; !ok {
			seen[n] = struct{}{}
			result = append(result, n)
		}
	}
	return result
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
