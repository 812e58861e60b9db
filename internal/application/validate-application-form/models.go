// internal/application/validate-application-form/models.go
package validateapplicationform

import (
	"regexp"

	"employment-application/internal/models"
)

type Input struct {
	Fields models.FormFields `json:"fields"`
}

type Output struct {
	Request *models.SubmissionRequest `json:"request"`
}

// Field names used in ValidationError.Fields and metrics labels.
const (
	FieldFullName           = "fullName"
	FieldContactNumber      = "contactNumber"
	FieldHighestEducation   = "highestEducation"
	FieldDateAvailable      = "dateAvailable"
	FieldDesiredSalary      = "desiredSalary"
	FieldAuthorizedToWork   = "authorizedToWork"
	FieldRelativesAtCompany = "relativesAtCompany"
)

// Messages shown to the operator, one per failed rule.
const (
	MsgFullName           = "Full name must be letters/spaces only and up to 50 chars."
	MsgContactNumber      = "Contact number must be exactly 10 digits."
	MsgHighestEducation   = "Highest education must be selected."
	MsgDateAvailable      = "Date available must be chosen."
	MsgDesiredSalary      = "Salary must be up to 8 digits before decimal and have exactly two decimals (e.g. 12345678.50)."
	MsgAuthorizedToWork   = "Answer whether you are authorized to work."
	MsgRelativesAtCompany = "Answer whether you have relatives working for the company."
)

var (
	nameRegex    = regexp.MustCompile(`^[A-Za-z ]{1,50}$`)
	contactRegex = regexp.MustCompile(`^[0-9]{10}$`)
	// at most 8 integer digits, exactly two fractional digits
	salaryRegex = regexp.MustCompile(`^[0-9]{1,8}\.[0-9]{2}$`)
)
