package types

import "time"

// IntakeForm describes a patient intake form as served by the platform.
type IntakeForm struct {
	ID     string        `json:"id"`
	Title  string        `json:"title"`
	Fields []IntakeField `json:"fields"`
}

// IntakeField is one question on an intake form.
type IntakeField struct {
	Name     string   `json:"name"`
	Label    string   `json:"label"`
	Kind     string   `json:"kind"`
	Required bool     `json:"required,omitempty"`
	Options  []string `json:"options,omitempty"`
}

// IntakeSubmission carries a filled-in intake form. The client submits it
// verbatim; validation happens server-side.
type IntakeSubmission struct {
	FormID    string            `json:"formId"`
	PatientID string            `json:"patientId"`
	Answers   map[string]string `json:"answers"`
}

// SubmissionReceipt acknowledges a stored submission.
type SubmissionReceipt struct {
	ID         string    `json:"id"`
	ReceivedAt time.Time `json:"receivedAt"`
}
