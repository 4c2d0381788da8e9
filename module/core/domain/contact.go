package domain

// CaregiverContact carries the display and delivery data needed to notify a
// caregiver about their dependent. Resolved only when a notification fires.
type CaregiverContact struct {
	CaregiverName  string `json:"caregiver_name"`
	CaregiverPhone string `json:"caregiver_phone"`
	LineRecipient  string `json:"line_recipient"`
	DependentName  string `json:"dependent_name"`
	DependentPhone string `json:"dependent_phone"`
}
