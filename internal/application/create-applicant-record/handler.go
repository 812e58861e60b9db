// internal/application/create-applicant-record/handler.go
package createapplicantrecord

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"employment-application/internal/common/database"
	apperrors "employment-application/internal/common/errors"
	"employment-application/internal/common/logger"
	"employment-application/internal/common/metrics"
	"employment-application/internal/models"

	"github.com/lib/pq"
)

const Stage = "create-applicant-record"

type Handler struct {
	db      *sql.DB
	timeout time.Duration
	logger  logger.Logger
}

func NewHandler(config *Config, db *sql.DB, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	return &Handler{
		db:      db,
		timeout: config.Timeout,
		logger:  log.WithFields(map[string]interface{}{"stage": Stage}),
	}
}

// Execute writes the applicant row and its eligibility row in one
// transaction on one connection. Either both rows become visible or neither
// does; every failure comes back as *apperrors.PersistenceError.
func (h *Handler) Execute(ctx context.Context, req *models.SubmissionRequest) (*Output, error) {
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	start := time.Now()
	defer func() {
		metrics.SaveDuration.Observe(time.Since(start).Seconds())
	}()

	var applicantID int64
	step := "begin"

	err := database.WithConnTx(ctx, h.db, func(tx *sql.Tx) error {
		step = "insert_applicant"
		applicant := req.Applicant()

		var id sql.NullInt64
		err := tx.QueryRowContext(ctx, insertApplicantSQL,
			applicant.FullName,
			applicant.ContactNumber,
			applicant.Email,
			applicant.CurrentAddress,
			string(applicant.HighestEducation),
		).Scan(&id)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && !id.Valid) {
			return apperrors.NewApplicantIDMissingError()
		}
		if err != nil {
			return apperrors.NewPersistenceError(apperrors.ErrCodeDatabaseInsertFailed, err)
		}
		applicantID = id.Int64

		step = "insert_eligibility"
		eligibility := req.Eligibility(applicantID)
		_, err = tx.ExecContext(ctx, insertEmploymentSQL,
			eligibility.ApplicantID,
			eligibility.DateAvailable,
			eligibility.DesiredPosition,
			eligibility.DesiredSalary,
			eligibility.AuthorizedToWork,
			eligibility.RelativesWorkForCompany,
			eligibility.RelativesExplanation,
		)
		if err != nil {
			return apperrors.NewPersistenceError(apperrors.ErrCodeDatabaseInsertFailed, err)
		}

		step = "commit"
		return nil
	})
	if err != nil {
		pErr := toPersistenceError(err)
		metrics.PersistenceFailures.WithLabelValues(string(pErr.Code)).Inc()
		h.logFailure(step, pErr)
		return nil, pErr
	}

	h.logger.Info("applicant record created", map[string]interface{}{
		"applicantId": applicantID,
		"durationMs":  time.Since(start).Milliseconds(),
	})

	return &Output{
		ApplicantID: applicantID,
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// toPersistenceError maps transaction-level failures onto their codes and
// passes statement failures through.
func toPersistenceError(err error) *apperrors.PersistenceError {
	var pErr *apperrors.PersistenceError
	if errors.As(err, &pErr) {
		return pErr
	}

	var txErr *database.TxError
	if errors.As(err, &txErr) {
		code := apperrors.ErrCodeDatabaseConnectionFailed
		if txErr.Op == database.TxOpCommit {
			code = apperrors.ErrCodeTransactionCommitFailed
		}
		return apperrors.NewPersistenceError(code, txErr.Err)
	}

	return apperrors.NewPersistenceError(apperrors.ErrCodeDatabaseInsertFailed, err)
}

// logFailure never logs submitted values, only where the save broke.
func (h *Handler) logFailure(step string, pErr *apperrors.PersistenceError) {
	fields := map[string]interface{}{
		"step":      step,
		"errorCode": string(pErr.Code),
		"category":  apperrors.GetErrorCategory(pErr.Code),
	}

	var pqErr *pq.Error
	if errors.As(pErr, &pqErr) {
		fields["sqlState"] = string(pqErr.Code)
		fields["sqlCondition"] = pqErr.Code.Name()
		if pqErr.Constraint != "" {
			fields["constraint"] = pqErr.Constraint
		}
	}

	h.logger.Error("applicant record save failed", fields)
}
