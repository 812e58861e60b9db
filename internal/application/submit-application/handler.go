// internal/application/submit-application/handler.go
package submitapplication

import (
	"context"
	"errors"
	"fmt"
	"sync"

	createapplicantrecord "employment-application/internal/application/create-applicant-record"
	validateapplicationform "employment-application/internal/application/validate-application-form"
	apperrors "employment-application/internal/common/errors"
	"employment-application/internal/common/logger"
	"employment-application/internal/common/metrics"
	"employment-application/internal/common/observability"
	"employment-application/internal/formstate"
	"employment-application/internal/models"
)

const Stage = "submit-application"

type Validator interface {
	Execute(ctx context.Context, input *validateapplicationform.Input) (*validateapplicationform.Output, error)
}

type Repository interface {
	Execute(ctx context.Context, req *models.SubmissionRequest) (*createapplicantrecord.Output, error)
}

// Handler runs one submit through validate, save and result, keeping the
// session's form state in step with the outcome.
type Handler struct {
	validator  Validator
	repository Repository
	store      formstate.Store
	obs        *observability.Observability
	logger     logger.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewHandler(
	config *Config,
	validator Validator,
	repository Repository,
	store formstate.Store,
	obs *observability.Observability,
	log logger.Logger,
) *Handler {
	return &Handler{
		validator:  validator,
		repository: repository,
		store:      store,
		obs:        obs,
		logger:     log.WithFields(map[string]interface{}{"stage": Stage}),
		inFlight:   make(map[string]struct{}),
	}
}

// Execute handles one press of Submit. A second submit for a session that
// still has one in flight gets apperrors.ErrSubmissionInProgress and changes
// nothing. Validation and store failures are reported in the Output, not as
// errors.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if !h.acquire(input.SessionID) {
		metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeBusy).Inc()
		h.logger.Warn("submission already in progress", map[string]interface{}{
			"sessionId": input.SessionID,
		})
		return nil, apperrors.ErrSubmissionInProgress
	}
	defer h.release(input.SessionID)

	log := h.logger.WithFields(map[string]interface{}{"sessionId": input.SessionID})

	if err := h.store.Save(ctx, input.SessionID, input.Fields); err != nil {
		log.Warn("failed to store form state", map[string]interface{}{"error": err})
	}

	vctx, endValidate := h.obs.StartStage(ctx, validateapplicationform.Stage)
	validated, err := h.validator.Execute(vctx, &validateapplicationform.Input{Fields: input.Fields})
	endValidate(err)
	if err != nil {
		var vErr *apperrors.ValidationError
		if !errors.As(err, &vErr) {
			return nil, fmt.Errorf("validate submission: %w", err)
		}
		metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeInvalid).Inc()
		return &Output{
			Outcome:  OutcomeInvalid,
			Title:    TitleValidation,
			Header:   HeaderValidation,
			Messages: vErr.Messages,
			Fields:   input.Fields,
		}, nil
	}

	sctx, endSave := h.obs.StartStage(ctx, createapplicantrecord.Stage)
	saved, err := h.repository.Execute(sctx, validated.Request)
	endSave(err)
	if err != nil {
		var pErr *apperrors.PersistenceError
		if !errors.As(err, &pErr) {
			pErr = apperrors.NewPersistenceError(apperrors.ErrCodeDatabaseInsertFailed, err)
		}
		metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		log.Error("submission not saved", map[string]interface{}{
			"errorCode": string(pErr.Code),
		})
		return &Output{
			Outcome:  OutcomeFailed,
			Title:    TitleDatabase,
			Header:   HeaderDatabase,
			Messages: []string{pErr.Error()},
			Fields:   input.Fields,
		}, nil
	}

	if err := h.store.Clear(ctx, input.SessionID); err != nil {
		log.Warn("failed to clear form state", map[string]interface{}{"error": err})
	}

	metrics.SubmissionsTotal.WithLabelValues(metrics.OutcomeSaved).Inc()
	log.Info("submission saved", map[string]interface{}{
		"applicantId": saved.ApplicantID,
	})

	return &Output{
		Outcome:     OutcomeSaved,
		Title:       TitleSuccess,
		Header:      HeaderSuccess,
		ApplicantID: saved.ApplicantID,
	}, nil
}

// Form returns what the session's form currently holds; empty for a new or
// just-saved session.
func (h *Handler) Form(ctx context.Context, sessionID string) (models.FormFields, error) {
	fields, err := h.store.Load(ctx, sessionID)
	if err != nil {
		return models.FormFields{}, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return fields, nil
}

func (h *Handler) acquire(sessionID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, busy := h.inFlight[sessionID]; busy {
		return false
	}
	h.inFlight[sessionID] = struct{}{}
	return true
}

func (h *Handler) release(sessionID string) {
	h.mu.Lock()
	delete(h.inFlight, sessionID)
	h.mu.Unlock()
}
