package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for SubmissionsTotal.
const (
	OutcomeSaved   = "saved"
	OutcomeInvalid = "invalid"
	OutcomeFailed  = "failed"
	OutcomeBusy    = "busy"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "application_form_submissions_total",
			Help: "Total number of form submissions by outcome",
		},
		[]string{"outcome"},
	)

	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "application_form_validation_failures_total",
			Help: "Total number of failed field rules by field",
		},
		[]string{"field"},
	)

	PersistenceFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "application_form_persistence_failures_total",
			Help: "Total number of failed saves by error code",
		},
		[]string{"error_code"},
	)

	SaveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "application_form_save_duration_seconds",
			Help:    "Duration of the applicant/eligibility transaction in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
