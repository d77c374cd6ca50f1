// Package behavior derives behavioral risk flags from submission telemetry.
package behavior

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/mssola/useragent"
)

// Flag texts. They are stable strings: reviewers and dashboards group on them.
const (
	FlagFastSubmission  = "submission completed unusually fast"
	FlagVPNOrProxy      = "submitted through a VPN or proxy"
	FlagPriorRejection  = "device previously linked to a rejected submission"
	FlagMetadataEdited  = "uploaded file metadata shows editing software"
	FlagNewAccount      = "account created recently"
	FlagAutomatedClient = "submitted by an automated client"
)

// Telemetry is what the intake channel observed while the applicant filled in
// the form. Zero durations mean "not reported" and never produce a flag.
type Telemetry struct {
	SubmissionDuration     time.Duration `json:"submission_duration"`
	VPNOrProxy             bool          `json:"vpn_or_proxy"`
	PriorRejectionOnDevice bool          `json:"prior_rejection_on_device"`
	FileMetadataEdited     bool          `json:"file_metadata_edited"`
	AccountAge             time.Duration `json:"account_age"`
	UserAgent              string        `json:"user_agent,omitempty"`
	DeviceID               string        `json:"device_id,omitempty"`
}

// Rules tune the detector.
type Rules struct {
	MinSubmissionDuration time.Duration
	MinAccountAge         time.Duration
	DetectAutomation      bool
}

// DefaultRules flags submissions under a minute and accounts younger than three days.
func DefaultRules() Rules {
	return Rules{
		MinSubmissionDuration: time.Minute,
		MinAccountAge:         72 * time.Hour,
		DetectAutomation:      true,
	}
}

// DetectBehavioralFlags applies DefaultRules to t.
func DetectBehavioralFlags(t Telemetry) []string {
	return DefaultRules().Detect(t)
}

// Detect returns the flags raised by t, in a fixed order.
func (r Rules) Detect(t Telemetry) []string {
	var flags []string
	if r.MinSubmissionDuration > 0 && t.SubmissionDuration > 0 && t.SubmissionDuration < r.MinSubmissionDuration {
		flags = append(flags, FlagFastSubmission)
	}
	if t.VPNOrProxy {
		flags = append(flags, FlagVPNOrProxy)
	}
	if t.PriorRejectionOnDevice {
		flags = append(flags, FlagPriorRejection)
	}
	if t.FileMetadataEdited {
		flags = append(flags, FlagMetadataEdited)
	}
	if r.MinAccountAge > 0 && t.AccountAge > 0 && t.AccountAge < r.MinAccountAge {
		flags = append(flags, FlagNewAccount)
	}
	if r.DetectAutomation && IsAutomatedClient(t.UserAgent) {
		flags = append(flags, FlagAutomatedClient)
	}
	return flags
}

var automationMarkers = []string{
	"headlesschrome",
	"phantomjs",
	"selenium",
	"puppeteer",
	"playwright",
	"python-requests",
	"curl/",
	"wget/",
	"go-http-client",
}

// IsAutomatedClient reports whether userAgent belongs to a crawler, script or
// headless browser. An empty user agent is not reported as automated.
func IsAutomatedClient(userAgent string) bool {
	if strings.TrimSpace(userAgent) == "" {
		return false
	}
	if useragent.New(userAgent).Bot() {
		return true
	}
	lower := strings.ToLower(userAgent)
	for _, marker := range automationMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// DeviceFingerprint returns a stable hash of the reported device ID, or ""
// when the channel reported none. A user agent alone is shared by too many
// applicants to link submissions to one device.
func DeviceFingerprint(t Telemetry) string {
	id := strings.TrimSpace(t.DeviceID)
	if id == "" {
		return ""
	}
	return hash("id:" + id)
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
