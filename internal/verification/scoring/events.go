// Package scoring turns a verification bundle into a risk score and routing
// decision under a versioned policy. Everything here is pure: the same bundle
// and policy always produce the same result.
package scoring

// Event names one weighted scoring rule.
type Event string

const (
	EventLivenessFailed        Event = "LIVENESS_FAILED"
	EventFaceMatchVeryLow      Event = "FACE_MATCH_VERY_LOW"
	EventFaceMatchLow          Event = "FACE_MATCH_LOW"
	EventFaceMatchStrong       Event = "FACE_MATCH_STRONG"
	EventIDNotVisibleInSelfie  Event = "ID_NOT_VISIBLE_IN_SELFIE"
	EventAISuspicionMedium     Event = "AI_SUSPICION_MEDIUM"
	EventAISuspicionHigh       Event = "AI_SUSPICION_HIGH"
	EventForgerySignalsFew     Event = "FORGERY_SIGNALS_FEW"
	EventForgerySignalsMany    Event = "FORGERY_SIGNALS_MANY"
	EventDocumentExpired       Event = "DOCUMENT_EXPIRED"
	EventMissingRequiredFields Event = "MISSING_REQUIRED_FIELDS"
	EventAllFieldsPresent      Event = "ALL_FIELDS_PRESENT"
	EventSupportingMedium      Event = "SUPPORTING_SUSPICION_MEDIUM"
	EventSupportingHigh        Event = "SUPPORTING_SUSPICION_HIGH"
	EventSupportingEdited      Event = "SUPPORTING_DOC_EDITED"
	EventSupportingRecent      Event = "SUPPORTING_DOC_RECENTLY_ISSUED"
	EventCrossDocMinorIssues   Event = "CROSS_DOC_MINOR_ISSUES"
	EventCrossDocInconsistent  Event = "CROSS_DOC_INCONSISTENT"
	EventCrossDocConsistent    Event = "CROSS_DOC_CONSISTENT"
	EventIDFormatInvalid       Event = "ID_FORMAT_INVALID"
	EventDesignationIncorrect  Event = "DESIGNATION_INCORRECT"
	EventCategoryInvalid       Event = "CATEGORY_INVALID"
	EventRegistryMatch         Event = "REGISTRY_MATCH"
	EventLicenseValid          Event = "LICENSE_VALID"
	EventBehavioralFlag        Event = "BEHAVIORAL_FLAG"
)

// eventInfo describes how an event is reported. Bonus events must carry a
// non-negative weight and never produce a flag; penalties must be
// non-positive and always produce their flag.
type eventInfo struct {
	bonus bool
	flag  string
}

var events = map[Event]eventInfo{
	EventLivenessFailed:        {flag: "liveness check failed"},
	EventFaceMatchVeryLow:      {flag: "face match confidence very low"},
	EventFaceMatchLow:          {flag: "face match confidence low"},
	EventFaceMatchStrong:       {bonus: true},
	EventIDNotVisibleInSelfie:  {flag: "ID not visible in selfie"},
	EventAISuspicionMedium:     {flag: "document shows medium suspicion of manipulation"},
	EventAISuspicionHigh:       {flag: "document shows high suspicion of manipulation"},
	EventForgerySignalsFew:     {flag: "document has forgery signals"},
	EventForgerySignalsMany:    {flag: "document has many forgery signals"},
	EventDocumentExpired:       {flag: "document expired"},
	EventMissingRequiredFields: {flag: "document is missing required fields"},
	EventAllFieldsPresent:      {bonus: true},
	EventSupportingMedium:      {flag: "supporting document shows medium suspicion of manipulation"},
	EventSupportingHigh:        {flag: "supporting document shows high suspicion of manipulation"},
	EventSupportingEdited:      {flag: "supporting document was edited"},
	EventSupportingRecent:      {flag: "supporting document was recently issued"},
	EventCrossDocMinorIssues:   {flag: "documents have minor inconsistencies"},
	EventCrossDocInconsistent:  {flag: "documents are inconsistent"},
	EventCrossDocConsistent:    {bonus: true},
	EventIDFormatInvalid:       {flag: "ID number format invalid"},
	EventDesignationIncorrect:  {flag: "administrative designation incorrect"},
	EventCategoryInvalid:       {flag: "category not recognized"},
	EventRegistryMatch:         {bonus: true},
	EventLicenseValid:          {bonus: true},
	EventBehavioralFlag:        {},
}

// AllEvents lists every event in evaluation order.
var AllEvents = []Event{
	EventAISuspicionMedium,
	EventAISuspicionHigh,
	EventForgerySignalsFew,
	EventForgerySignalsMany,
	EventDocumentExpired,
	EventMissingRequiredFields,
	EventAllFieldsPresent,
	EventSupportingMedium,
	EventSupportingHigh,
	EventSupportingEdited,
	EventSupportingRecent,
	EventCrossDocMinorIssues,
	EventCrossDocInconsistent,
	EventCrossDocConsistent,
	EventLivenessFailed,
	EventFaceMatchVeryLow,
	EventFaceMatchLow,
	EventFaceMatchStrong,
	EventIDNotVisibleInSelfie,
	EventIDFormatInvalid,
	EventDesignationIncorrect,
	EventCategoryInvalid,
	EventRegistryMatch,
	EventLicenseValid,
	EventBehavioralFlag,
}

// IsBonus reports whether e rewards the applicant.
func (e Event) IsBonus() bool {
	return events[e].bonus
}

// Known reports whether e is a defined event.
func (e Event) Known() bool {
	_, ok := events[e]
	return ok
}
