// internal/application/submit-application/handler_test.go
package submitapplication

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	createapplicantrecord "employment-application/internal/application/create-applicant-record"
	validateapplicationform "employment-application/internal/application/validate-application-form"
	apperrors "employment-application/internal/common/errors"
	"employment-application/internal/common/logger"
	"employment-application/internal/common/metrics"
	"employment-application/internal/common/observability"
	"employment-application/internal/formstate"
	"employment-application/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type repositoryFunc func(ctx context.Context, req *models.SubmissionRequest) (*createapplicantrecord.Output, error)

func (f repositoryFunc) Execute(ctx context.Context, req *models.SubmissionRequest) (*createapplicantrecord.Output, error) {
	return f(ctx, req)
}

type recordingRepository struct {
	mu       sync.Mutex
	requests []*models.SubmissionRequest
	nextID   int64
	err      error
}

func (r *recordingRepository) Execute(_ context.Context, req *models.SubmissionRequest) (*createapplicantrecord.Output, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
	if r.err != nil {
		return nil, r.err
	}
	r.nextID++
	return &createapplicantrecord.Output{ApplicantID: r.nextID}, nil
}

func (r *recordingRepository) calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.requests)
}

func validFields() models.FormFields {
	return models.FormFields{
		FullName:           "Jane Doe",
		CurrentAddress:     "12 Elm St",
		ContactNumber:      "5551234567",
		Email:              "jane@x.com",
		HighestEducation:   "Bachelors",
		DateAvailable:      "2025-09-01",
		DesiredPosition:    "Analyst",
		DesiredSalary:      "55000.00",
		AuthorizedToWork:   models.ChoiceYes,
		RelativesAtCompany: models.ChoiceNo,
	}
}

func newTestHandler(t *testing.T, repo Repository) (*Handler, *formstate.MemoryStore) {
	log := logger.NewTestLogger(t)
	store := formstate.NewMemoryStore(time.Hour)
	validator := validateapplicationform.NewHandler(validateapplicationform.LoadConfig(), log)
	return NewHandler(LoadConfig(), validator, repo, store, nil, log), store
}

func outcomeCount(outcome string) float64 {
	return testutil.ToFloat64(metrics.SubmissionsTotal.WithLabelValues(outcome))
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_ValidationFailureKeepsFields(t *testing.T) {
	repo := &recordingRepository{}
	h, store := newTestHandler(t, repo)
	before := outcomeCount(metrics.OutcomeInvalid)

	fields := validFields()
	fields.FullName = "John123"
	fields.ContactNumber = "555-1234"

	out, err := h.Execute(context.Background(), &Input{SessionID: "s1", Fields: fields})

	require.NoError(t, err)
	assert.Equal(t, OutcomeInvalid, out.Outcome)
	assert.Equal(t, TitleValidation, out.Title)
	assert.Equal(t, HeaderValidation, out.Header)
	assert.Equal(t, []string{
		validateapplicationform.MsgFullName,
		validateapplicationform.MsgContactNumber,
	}, out.Messages)
	assert.Equal(t, fields, out.Fields)
	assert.Zero(t, out.ApplicantID)
	assert.Equal(t, 0, repo.calls(), "invalid submissions never reach the store")

	kept, err := store.Load(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, fields, kept)
	assert.Equal(t, before+1, outcomeCount(metrics.OutcomeInvalid))
}

func TestHandler_Execute_SuccessClearsFields(t *testing.T) {
	repo := &recordingRepository{}
	h, store := newTestHandler(t, repo)
	before := outcomeCount(metrics.OutcomeSaved)

	out, err := h.Execute(context.Background(), &Input{SessionID: "s1", Fields: validFields()})

	require.NoError(t, err)
	assert.Equal(t, OutcomeSaved, out.Outcome)
	assert.Equal(t, TitleSuccess, out.Title)
	assert.Equal(t, HeaderSuccess, out.Header)
	assert.Empty(t, out.Messages)
	assert.Equal(t, int64(1), out.ApplicantID)
	assert.True(t, out.Fields.IsEmpty())

	require.Equal(t, 1, repo.calls())
	req := repo.requests[0]
	assert.Equal(t, "Jane Doe", req.FullName)
	assert.Equal(t, models.EducationBachelors, req.HighestEducation)
	assert.Equal(t, "55000.00", req.DesiredSalary)
	assert.True(t, req.AuthorizedToWork)
	assert.False(t, req.RelativesWorkForCompany)

	form, err := h.Form(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, form.IsEmpty())
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, before+1, outcomeCount(metrics.OutcomeSaved))
}

func TestHandler_Execute_StoreFailureKeepsFields(t *testing.T) {
	repo := &recordingRepository{
		err: apperrors.NewPersistenceError(apperrors.ErrCodeDatabaseConnectionFailed,
			errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")),
	}
	h, _ := newTestHandler(t, repo)
	before := outcomeCount(metrics.OutcomeFailed)
	fields := validFields()

	out, err := h.Execute(context.Background(), &Input{SessionID: "s1", Fields: fields})

	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, out.Outcome)
	assert.Equal(t, TitleDatabase, out.Title)
	assert.Equal(t, HeaderDatabase, out.Header)
	assert.Equal(t, []string{"dial tcp 127.0.0.1:5432: connect: connection refused"}, out.Messages)
	assert.Equal(t, fields, out.Fields)

	form, err := h.Form(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, fields, form)
	assert.Equal(t, before+1, outcomeCount(metrics.OutcomeFailed))
}

func TestHandler_Execute_MissingIDMessage(t *testing.T) {
	repo := &recordingRepository{err: apperrors.NewApplicantIDMissingError()}
	h, _ := newTestHandler(t, repo)

	out, err := h.Execute(context.Background(), &Input{SessionID: "s1", Fields: validFields()})

	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, out.Outcome)
	assert.Equal(t, []string{"Failed to retrieve applicant id"}, out.Messages)
}

func TestHandler_Execute_UntypedRepositoryErrorIsStoreFailure(t *testing.T) {
	h, _ := newTestHandler(t, repositoryFunc(func(context.Context, *models.SubmissionRequest) (*createapplicantrecord.Output, error) {
		return nil, errors.New("driver: bad connection")
	}))

	out, err := h.Execute(context.Background(), &Input{SessionID: "s1", Fields: validFields()})

	require.NoError(t, err)
	assert.Equal(t, OutcomeFailed, out.Outcome)
	assert.Equal(t, []string{"driver: bad connection"}, out.Messages)
}

func TestHandler_Execute_ResubmitAfterCorrection(t *testing.T) {
	repo := &recordingRepository{}
	h, _ := newTestHandler(t, repo)

	bad := validFields()
	bad.DesiredSalary = "55000"
	out, err := h.Execute(context.Background(), &Input{SessionID: "s1", Fields: bad})
	require.NoError(t, err)
	require.Equal(t, OutcomeInvalid, out.Outcome)
	assert.Equal(t, []string{validateapplicationform.MsgDesiredSalary}, out.Messages)

	fixed := out.Fields
	fixed.DesiredSalary = "55000.00"
	out, err = h.Execute(context.Background(), &Input{SessionID: "s1", Fields: fixed})
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaved, out.Outcome)
	assert.Equal(t, 1, repo.calls())
}

func TestHandler_Execute_RetryAfterStoreFailure(t *testing.T) {
	repo := &recordingRepository{err: apperrors.NewPersistenceError(apperrors.ErrCodeDatabaseInsertFailed, errors.New("boom"))}
	h, _ := newTestHandler(t, repo)

	out, err := h.Execute(context.Background(), &Input{SessionID: "s1", Fields: validFields()})
	require.NoError(t, err)
	require.Equal(t, OutcomeFailed, out.Outcome)

	repo.mu.Lock()
	repo.err = nil
	repo.mu.Unlock()

	out, err = h.Execute(context.Background(), &Input{SessionID: "s1", Fields: out.Fields})
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaved, out.Outcome)
	assert.Equal(t, 2, repo.calls(), "no automatic retry; each press is one attempt")
}

// ==========================
// Concurrency Tests
// ==========================

func TestHandler_Execute_OverlappingSubmitIsRejected(t *testing.T) {
	entered := make(chan struct{})
	unblock := make(chan struct{})
	var calls int
	var mu sync.Mutex

	h, _ := newTestHandler(t, repositoryFunc(func(context.Context, *models.SubmissionRequest) (*createapplicantrecord.Output, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		close(entered)
		<-unblock
		return &createapplicantrecord.Output{ApplicantID: 9}, nil
	}))
	before := outcomeCount(metrics.OutcomeBusy)

	done := make(chan *Output, 1)
	go func() {
		out, err := h.Execute(context.Background(), &Input{SessionID: "s1", Fields: validFields()})
		assert.NoError(t, err)
		done <- out
	}()
	<-entered

	second := validFields()
	second.FullName = "Someone Else"
	out, err := h.Execute(context.Background(), &Input{SessionID: "s1", Fields: second})
	assert.Nil(t, out)
	assert.ErrorIs(t, err, apperrors.ErrSubmissionInProgress)
	assert.Equal(t, apperrors.ErrCodeSubmissionInProgress, apperrors.CodeOf(err))
	assert.Equal(t, before+1, outcomeCount(metrics.OutcomeBusy))

	close(unblock)
	first := <-done
	require.NotNil(t, first)
	assert.Equal(t, OutcomeSaved, first.Outcome)
	assert.Equal(t, int64(9), first.ApplicantID)

	mu.Lock()
	assert.Equal(t, 1, calls)
	mu.Unlock()
}

func TestHandler_Execute_SessionsAreIndependent(t *testing.T) {
	repo := &recordingRepository{}
	h, _ := newTestHandler(t, repo)

	var wg sync.WaitGroup
	for _, id := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			out, err := h.Execute(context.Background(), &Input{SessionID: id, Fields: validFields()})
			assert.NoError(t, err)
			assert.Equal(t, OutcomeSaved, out.Outcome)
		}(id)
	}
	wg.Wait()

	assert.Equal(t, 3, repo.calls())
}

func TestHandler_Execute_GuardReleasedAfterEachOutcome(t *testing.T) {
	repo := &recordingRepository{}
	h, _ := newTestHandler(t, repo)

	bad := validFields()
	bad.FullName = ""
	_, err := h.Execute(context.Background(), &Input{SessionID: "s1", Fields: bad})
	require.NoError(t, err)

	out, err := h.Execute(context.Background(), &Input{SessionID: "s1", Fields: validFields()})
	require.NoError(t, err)
	assert.Equal(t, OutcomeSaved, out.Outcome)
}

// ==========================
// Observability Tests
// ==========================

func TestHandler_Execute_RecordsStages(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := observability.New("submit-application-test", reg)
	require.NoError(t, err)
	t.Cleanup(obs.Shutdown)

	log := logger.NewTestLogger(t)
	validator := validateapplicationform.NewHandler(validateapplicationform.LoadConfig(), log)
	h := NewHandler(LoadConfig(), validator, &recordingRepository{}, formstate.NewMemoryStore(time.Hour), obs, log)

	_, err = h.Execute(context.Background(), &Input{SessionID: "s1", Fields: validFields()})
	require.NoError(t, err)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, strings.Join(names, ","), "form.stage.runs")
}
