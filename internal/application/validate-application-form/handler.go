// internal/application/validate-application-form/handler.go
package validateapplicationform

import (
	"context"
	"strings"
	"time"

	apperrors "employment-application/internal/common/errors"
	"employment-application/internal/common/logger"
	"employment-application/internal/common/metrics"
	"employment-application/internal/models"
)

const Stage = "validate-application-form"

type Handler struct {
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		logger: log.WithFields(map[string]interface{}{"stage": Stage}),
	}
}

// Execute checks every rule independently. When any rule fails it returns a
// *apperrors.ValidationError listing all failures in form order; otherwise the
// normalized request.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	f := input.Fields

	fullName := strings.TrimSpace(f.FullName)
	contact := strings.TrimSpace(f.ContactNumber)
	salary := strings.TrimSpace(f.DesiredSalary)

	vErr := &apperrors.ValidationError{}

	if !nameRegex.MatchString(fullName) {
		vErr.Add(FieldFullName, MsgFullName)
	}
	if !contactRegex.MatchString(contact) {
		vErr.Add(FieldContactNumber, MsgContactNumber)
	}
	education, ok := models.ParseEducation(f.HighestEducation)
	if !ok {
		vErr.Add(FieldHighestEducation, MsgHighestEducation)
	}
	dateAvailable, ok := parseDate(f.DateAvailable)
	if !ok {
		vErr.Add(FieldDateAvailable, MsgDateAvailable)
	}
	if !salaryRegex.MatchString(salary) {
		vErr.Add(FieldDesiredSalary, MsgDesiredSalary)
	}
	if !f.AuthorizedToWork.IsSet() {
		vErr.Add(FieldAuthorizedToWork, MsgAuthorizedToWork)
	}
	if !f.RelativesAtCompany.IsSet() {
		vErr.Add(FieldRelativesAtCompany, MsgRelativesAtCompany)
	}

	if vErr.HasErrors() {
		for _, field := range vErr.Fields {
			metrics.ValidationFailures.WithLabelValues(field).Inc()
		}
		h.logger.Info("validation failed", map[string]interface{}{
			"errorCount": len(vErr.Messages),
			"fields":     vErr.Fields,
		})
		return nil, vErr
	}

	h.logger.Debug("validation passed", nil)

	return &Output{
		Request: &models.SubmissionRequest{
			FullName:                fullName,
			ContactNumber:           contact,
			Email:                   strings.TrimSpace(f.Email),
			CurrentAddress:          strings.TrimSpace(f.CurrentAddress),
			HighestEducation:        education,
			DateAvailable:           dateAvailable,
			DesiredPosition:         strings.TrimSpace(f.DesiredPosition),
			DesiredSalary:           salary,
			AuthorizedToWork:        f.AuthorizedToWork == models.ChoiceYes,
			RelativesWorkForCompany: f.RelativesAtCompany == models.ChoiceYes,
			RelativesExplanation:    strings.TrimSpace(f.RelativesExplanation),
		},
	}, nil
}

// parseDate treats an empty or malformed date as not chosen.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
