package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tbourn/go-survey-backend/internal/domain"
)

// Submission outcomes, used as the "outcome" label.
const (
	OutcomeAccepted        = "accepted"
	OutcomeInvalidJSON     = "invalid_json"
	OutcomeValidationError = "validation_error"
	OutcomeStorageError    = "storage_error"
)

var (
	// submissionsTotal counts POST /v1/survey results by outcome.
	submissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_submissions_total",
			Help: "Survey submissions by outcome.",
		},
		[]string{"outcome"},
	)

	// violationsTotal counts individual field violations. Both labels come
	// from fixed sets (declared fields, violation kinds).
	violationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_violations_total",
			Help: "Field-level validation violations by field and kind.",
		},
		[]string{"field", "type"},
	)

	// appendDuration records the latency of a single record append.
	appendDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_append_duration_seconds",
			Help:    "Duration of append-only store writes in seconds.",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"backend", "result"},
	)
)

func init() {
	prometheus.MustRegister(submissionsTotal, violationsTotal, appendDuration)
}

// RecordSubmission increments the outcome counter.
func RecordSubmission(outcome string) {
	submissionsTotal.WithLabelValues(outcome).Inc()
}

// RecordViolations counts each violation under its field and kind.
func RecordViolations(vs []domain.Violation) {
	for _, v := range vs {
		field := "body"
		if len(v.Loc) > 1 {
			field = v.Loc[len(v.Loc)-1]
		}
		violationsTotal.WithLabelValues(field, v.Type).Inc()
	}
}

// ObserveAppend records one store write for backend.
func ObserveAppend(backend string, err error, d time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	appendDuration.WithLabelValues(backend, result).Observe(d.Seconds())
}
