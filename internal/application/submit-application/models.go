// internal/application/submit-application/models.go
package submitapplication

import (
	"employment-application/internal/models"
)

type Input struct {
	SessionID string            `json:"sessionId"`
	Fields    models.FormFields `json:"fields"`
}

// Outcome is how a submit ended.
type Outcome string

const (
	OutcomeSaved   Outcome = "saved"
	OutcomeInvalid Outcome = "invalid"
	OutcomeFailed  Outcome = "failed"
)

// Output is everything the rendering surface needs to show the result of a
// submit: the notice and the form content to display next.
type Output struct {
	Outcome     Outcome           `json:"outcome"`
	Title       string            `json:"title"`
	Header      string            `json:"header"`
	Messages    []string          `json:"messages,omitempty"`
	ApplicantID int64             `json:"applicantId,omitempty"`
	Fields      models.FormFields `json:"fields"`
}

// Notice wording.
const (
	TitleValidation  = "Validation errors"
	HeaderValidation = "Please fix the following:"

	TitleSuccess  = "Success"
	HeaderSuccess = "Application submitted and stored successfully."

	TitleDatabase  = "Database Error"
	HeaderDatabase = "Could not save application"
)
