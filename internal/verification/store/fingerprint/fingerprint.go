// Package fingerprint detects identity material that was already submitted
// by a different applicant. Fingerprints are SHA-256 hashes of the normalized
// document number, so raw identifiers never reach the store.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Of returns the fingerprint of a normalized identifier. Empty input yields
// an empty fingerprint, which the stores treat as "nothing to check".
func Of(normalizedID string) string {
	key := strings.ToUpper(strings.TrimSpace(normalizedID))
	if key == "" {
		return ""
	}
	sum := sha256.Sum256([]byte("trustgate:id:" + key))
	return hex.EncodeToString(sum[:])
}
