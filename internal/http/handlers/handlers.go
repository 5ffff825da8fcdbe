// Handler wiring.
//
// Handlers are transport-thin: they read the body, hand it to the validator,
// pass request metadata to the record writer, and translate the typed
// results into HTTP responses. They never format or inspect records.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/tbourn/go-survey-backend/internal/domain"
)

// SubmissionValidator checks a raw body against the submission schema.
//
// Implementations return services.ErrInvalidJSON or a
// *services.ValidationError on failure and must be safe for concurrent use.
type SubmissionValidator interface {
	Validate(body []byte) (domain.SurveySubmission, error)
}

// SubmissionWriter pseudonymizes and persists a validated submission.
//
// Implementations must honor ctx and be safe for concurrent use. Any
// returned error means the record may not have been persisted.
type SubmissionWriter interface {
	Submit(ctx context.Context, sub domain.SurveySubmission, meta domain.RequestMeta) (*domain.StoredSurveyRecord, error)
}

// Options tunes deployment-dependent response behavior.
type Options struct {
	// IncludeSubmissionID adds submission_id to 201 responses.
	IncludeSubmissionID bool
	// StoreFailureStatus is the status for storage errors (400 or 500).
	StoreFailureStatus int
	// Now is the clock used by the health endpoints; nil means time.Now.
	Now func() time.Time
}

// Handlers groups the HTTP endpoints of the service.
type Handlers struct {
	validator SubmissionValidator
	writer    SubmissionWriter
	opts      Options
}

// New constructs a Handlers instance bound to the given collaborators.
func New(v SubmissionValidator, w SubmissionWriter, opts Options) *Handlers {
	if opts.StoreFailureStatus == 0 {
		opts.StoreFailureStatus = http.StatusInternalServerError
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Handlers{validator: v, writer: w, opts: opts}
}
