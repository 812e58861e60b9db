package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	submitapplication "employment-application/internal/application/submit-application"
	apperrors "employment-application/internal/common/errors"
	"employment-application/internal/common/validation"
	"employment-application/internal/models"

	"github.com/google/uuid"
)

const maxBodyBytes = 64 << 10

type pageData struct {
	Title            string
	ShowLogo         bool
	Fields           models.FormFields
	EducationOptions []models.Education
	Notice           *submitapplication.Output
}

// GET /
func (s *Server) showForm(w http.ResponseWriter, r *http.Request) {
	sessionID := s.session(w, r)

	fields, err := s.presenter.Form(r.Context(), sessionID)
	if err != nil {
		s.logger.Warn("form state unavailable, showing empty form", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err,
		})
		fields = models.FormFields{}
	}

	s.render(w, http.StatusOK, fields, nil)
}

// POST /applications
func (s *Server) submitForm(w http.ResponseWriter, r *http.Request) {
	sessionID := s.session(w, r)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	fields := fieldsFromForm(r)
	out, err := s.presenter.Execute(r.Context(), &submitapplication.Input{
		SessionID: sessionID,
		Fields:    fields,
	})
	if errors.Is(err, apperrors.ErrSubmissionInProgress) {
		http.Error(w, "a submission for this form is already in progress", http.StatusConflict)
		return
	}
	if err != nil {
		s.logger.Error("submission failed unexpectedly", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err,
		})
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.render(w, statusFor(out.Outcome), out.Fields, out)
}

// POST /api/applications
func (s *Server) submitJSON(w http.ResponseWriter, r *http.Request) {
	sessionID := r.Header.Get(sessionHeader)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	w.Header().Set(sessionHeader, sessionID)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unable to read request body"})
		return
	}

	result, err := validation.ValidateApplicationPayload(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed JSON"})
		return
	}
	if !result.Valid {
		writeJSON(w, http.StatusBadRequest, result)
		return
	}

	var fields models.FormFields
	if err := json.Unmarshal(body, &fields); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed JSON"})
		return
	}

	out, err := s.presenter.Execute(r.Context(), &submitapplication.Input{
		SessionID: sessionID,
		Fields:    fields,
	})
	if errors.Is(err, apperrors.ErrSubmissionInProgress) {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": string(apperrors.ErrCodeSubmissionInProgress),
		})
		return
	}
	if err != nil {
		s.logger.Error("submission failed unexpectedly", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err,
		})
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, statusFor(out.Outcome), out)
}

func (s *Server) render(w http.ResponseWriter, status int, fields models.FormFields, notice *submitapplication.Output) {
	data := pageData{
		Title:            s.form.Title,
		ShowLogo:         s.logoAvailable(),
		Fields:           fields,
		EducationOptions: models.EducationOptions,
		Notice:           notice,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error("render form failed", map[string]interface{}{"error": err})
	}
}

// session returns the form session id from the cookie, issuing one if absent.
func (s *Server) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(s.form.SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     s.form.SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func fieldsFromForm(r *http.Request) models.FormFields {
	return models.FormFields{
		FullName:             r.PostFormValue("fullName"),
		CurrentAddress:       r.PostFormValue("currentAddress"),
		ContactNumber:        r.PostFormValue("contactNumber"),
		Email:                r.PostFormValue("email"),
		HighestEducation:     r.PostFormValue("highestEducation"),
		DateAvailable:        r.PostFormValue("dateAvailable"),
		DesiredPosition:      r.PostFormValue("desiredPosition"),
		DesiredSalary:        r.PostFormValue("desiredSalary"),
		AuthorizedToWork:     models.ParseChoice(r.PostFormValue("authorizedToWork")),
		RelativesAtCompany:   models.ParseChoice(r.PostFormValue("relativesAtCompany")),
		RelativesExplanation: r.PostFormValue("relativesExplanation"),
	}
}

func statusFor(outcome submitapplication.Outcome) int {
	switch outcome {
	case submitapplication.OutcomeInvalid:
		return http.StatusUnprocessableEntity
	case submitapplication.OutcomeFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
