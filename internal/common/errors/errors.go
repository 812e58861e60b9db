// Package errors defines the two failure kinds a submission can end in:
// an aggregated validation report and a persistence failure.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeApplicationValidationFailed ErrorCode = "APPLICATION_VALIDATION_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed     ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeApplicantIDMissing       ErrorCode = "APPLICANT_ID_MISSING"
	ErrCodeTransactionCommitFailed  ErrorCode = "TRANSACTION_COMMIT_FAILED"

	ErrCodeSubmissionInProgress ErrorCode = "SUBMISSION_IN_PROGRESS"
)

// MsgApplicantIDMissing is reported when the applicant insert returns no generated key.
const MsgApplicantIDMissing = "Failed to retrieve applicant id"

// ErrSubmissionInProgress is returned when a form already has a submission in flight.
var ErrSubmissionInProgress = errors.New("submission already in progress")

// ValidationError is the aggregated report of every failed field rule.
// Messages and Fields are parallel: Fields[i] names the field Messages[i] is about.
type ValidationError struct {
	Messages []string
	Fields   []string
}

// Add records one failed rule.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, field)
	e.Messages = append(e.Messages, message)
}

// HasErrors reports whether any rule failed.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Messages) > 0
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCodeApplicationValidationFailed, strings.Join(e.Messages, "; "))
}

// Code returns the error code shared by all validation reports.
func (e *ValidationError) Code() ErrorCode {
	return ErrCodeApplicationValidationFailed
}

// PersistenceError wraps any failure of the store while saving a submission.
type PersistenceError struct {
	Code      ErrorCode
	Message   string
	Err       error
	Timestamp time.Time
}

// Error returns the store's message unchanged so it can be shown to the operator.
func (e *PersistenceError) Error() string {
	return e.Message
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// NewPersistenceError wraps a store error under the given code.
func NewPersistenceError(code ErrorCode, err error) *PersistenceError {
	return &PersistenceError{
		Code:      code,
		Message:   err.Error(),
		Err:       err,
		Timestamp: time.Now().UTC(),
	}
}

// NewApplicantIDMissingError is raised when the store assigned no identifier.
func NewApplicantIDMissingError() *PersistenceError {
	return &PersistenceError{
		Code:      ErrCodeApplicantIDMissing,
		Message:   MsgApplicantIDMissing,
		Timestamp: time.Now().UTC(),
	}
}

// CodeOf extracts the ErrorCode carried by err, or "" when err is not one of ours.
func CodeOf(err error) ErrorCode {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Code()
	}
	var pErr *PersistenceError
	if errors.As(err, &pErr) {
		return pErr.Code
	}
	if errors.Is(err, ErrSubmissionInProgress) {
		return ErrCodeSubmissionInProgress
	}
	return ""
}

// GetErrorCategory groups codes for metrics labels.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	case strings.Contains(codeStr, "DATABASE"),
		strings.Contains(codeStr, "TRANSACTION"),
		strings.Contains(codeStr, "APPLICANT_ID"):
		return "DATABASE"
	case strings.Contains(codeStr, "IN_PROGRESS"):
		return "CONCURRENCY"
	default:
		return "OTHER"
	}
}
