// internal/models/application.go
package models

import "time"

// DateLayout is the wire format of a chosen calendar date.
const DateLayout = "2006-01-02"

// Education is the highest completed education level.
type Education string

const (
	EducationMasters        Education = "Masters"
	EducationBachelors      Education = "Bachelors"
	EducationCollegeDiploma Education = "College Diploma"
)

// EducationOptions lists the dropdown entries in display order.
var EducationOptions = []Education{
	EducationMasters,
	EducationBachelors,
	EducationCollegeDiploma,
}

// ParseEducation accepts only the exact option labels.
func ParseEducation(s string) (Education, bool) {
	for _, opt := range EducationOptions {
		if string(opt) == s {
			return opt, true
		}
	}
	return "", false
}

// Choice is the state of an exclusive Yes/No toggle pair.
type Choice string

const (
	ChoiceUnset Choice = ""
	ChoiceYes   Choice = "yes"
	ChoiceNo    Choice = "no"
)

// ParseChoice maps a submitted toggle value. Only "yes" and "no" select a
// side, matching what the JSON payload schema accepts; anything else stays unset.
func ParseChoice(s string) Choice {
	switch Choice(s) {
	case ChoiceYes:
		return ChoiceYes
	case ChoiceNo:
		return ChoiceNo
	default:
		return ChoiceUnset
	}
}

// IsSet reports whether one side of the pair was selected.
func (c Choice) IsSet() bool {
	return c == ChoiceYes || c == ChoiceNo
}

// FormFields is the raw, unvalidated content of the form as the operator left it.
// The zero value is the empty/unselected initial state.
type FormFields struct {
	FullName             string `json:"fullName"`
	CurrentAddress       string `json:"currentAddress"`
	ContactNumber        string `json:"contactNumber"`
	Email                string `json:"email"`
	HighestEducation     string `json:"highestEducation"`
	DateAvailable        string `json:"dateAvailable"`
	DesiredPosition      string `json:"desiredPosition"`
	DesiredSalary        string `json:"desiredSalary"`
	AuthorizedToWork     Choice `json:"authorizedToWork"`
	RelativesAtCompany   Choice `json:"relativesAtCompany"`
	RelativesExplanation string `json:"relativesExplanation"`
}

// IsEmpty reports whether every field is back in its initial state.
func (f FormFields) IsEmpty() bool {
	return f == FormFields{}
}

// SubmissionRequest is a validated, normalized submission ready to persist.
type SubmissionRequest struct {
	FullName                string
	ContactNumber           string
	Email                   string
	CurrentAddress          string
	HighestEducation        Education
	DateAvailable           time.Time
	DesiredPosition         string
	DesiredSalary           string // exact decimal text, e.g. "55000.00"
	AuthorizedToWork        bool
	RelativesWorkForCompany bool
	RelativesExplanation    string
}

// Applicant mirrors a row of ApplicantTable.
type Applicant struct {
	ID               int64     `json:"id"`
	FullName         string    `json:"fullName"`
	ContactNumber    string    `json:"contactNumber"`
	Email            string    `json:"email"`
	CurrentAddress   string    `json:"currentAddress"`
	HighestEducation Education `json:"highestEducation"`
}

// EmploymentEligibility mirrors a row of EmploymentTable.
type EmploymentEligibility struct {
	ID                      int64     `json:"id"`
	ApplicantID             int64     `json:"applicantId"`
	DateAvailable           time.Time `json:"dateAvailable"`
	DesiredPosition         string    `json:"desiredPosition"`
	DesiredSalary           string    `json:"desiredSalary"`
	AuthorizedToWork        bool      `json:"authorizedToWork"`
	RelativesWorkForCompany bool      `json:"relativesWorkForCompany"`
	RelativesExplanation    string    `json:"relativesExplanation"`
}

// Applicant splits out the parent row.
func (r *SubmissionRequest) Applicant() Applicant {
	return Applicant{
		FullName:         r.FullName,
		ContactNumber:    r.ContactNumber,
		Email:            r.Email,
		CurrentAddress:   r.CurrentAddress,
		HighestEducation: r.HighestEducation,
	}
}

// Eligibility splits out the child row bound to applicantID.
func (r *SubmissionRequest) Eligibility(applicantID int64) EmploymentEligibility {
	return EmploymentEligibility{
		ApplicantID:             applicantID,
		DateAvailable:           r.DateAvailable,
		DesiredPosition:         r.DesiredPosition,
		DesiredSalary:           r.DesiredSalary,
		AuthorizedToWork:        r.AuthorizedToWork,
		RelativesWorkForCompany: r.RelativesWorkForCompany,
		RelativesExplanation:    r.RelativesExplanation,
	}
}
