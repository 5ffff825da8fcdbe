// Survey HTTP handlers.
//
// This file exposes the submission endpoint:
//   - POST /v1/survey  (validate, pseudonymize, append)
//
// Validation happens entirely before the single side effect (the append), so
// a rejected request never touches the store.
package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-survey-backend/internal/domain"
	"github.com/tbourn/go-survey-backend/internal/observability"
	"github.com/tbourn/go-survey-backend/internal/services"
)

// SubmitSurveyRequest documents the accepted JSON body. The handler does not
// bind into it; the validator reads the raw body so that every violation can
// be reported at once.
type SubmitSurveyRequest struct {
	Name         string  `json:"name" example:"Ada"`
	Email        string  `json:"email" example:"ada.l@example.com"`
	Age          int     `json:"age" example:"30"`
	Consent      *bool   `json:"consent,omitempty" example:"true"`
	Rating       int     `json:"rating" example:"5"`
	Comments     *string `json:"comments,omitempty" example:"Great service"`
	Source       *string `json:"source,omitempty" example:"web"`
	UserAgent    *string `json:"user_agent,omitempty"`
	SubmissionID *string `json:"submission_id,omitempty"`
}

// SubmitSurveyResponse is returned on 201 Created.
type SubmitSurveyResponse struct {
	Status       string `json:"status" example:"ok"`
	SubmissionID string `json:"submission_id,omitempty" example:"9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08"`
}

// SubmitSurvey godoc
// @ID          submitSurvey
// @Summary     Submit a survey
// @Description Validates a survey submission, hashes email and age, derives a submission id when none is supplied, and appends one NDJSON record.
// @Tags        Survey
// @Accept      json
// @Produce     json
//
// @Param       X-Forwarded-For  header  string                        false  "Client address as seen by the proxy"
// @Param       body             body    handlers.SubmitSurveyRequest  true   "Survey submission"
//
// @Success     201  {object}  handlers.SubmitSurveyResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Body is not a JSON object"
// @Failure     413  {object}  handlers.ErrorResponse  "Body too large"
// @Failure     422  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     500  {object}  handlers.ErrorResponse  "Record could not be persisted"
// @Router      /survey [post]
func (h *Handlers) SubmitSurvey(c *gin.Context) {
	if !isJSONContentType(c.ContentType()) {
		rejectInvalidJSON(c)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			observability.RecordSubmission(observability.OutcomeInvalidJSON)
			fail(c, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge, "request body too large")
			return
		}
		rejectInvalidJSON(c)
		return
	}

	sub, err := h.validator.Validate(body)
	if err != nil {
		var verr *services.ValidationError
		switch {
		case errors.Is(err, services.ErrInvalidJSON):
			rejectInvalidJSON(c)
		case errors.As(err, &verr):
			observability.RecordSubmission(observability.OutcomeValidationError)
			observability.RecordViolations(verr.Violations)
			failDetail(c, http.StatusUnprocessableEntity, ErrorResponse{
				Error:  ErrCodeValidation,
				Detail: verr.Violations,
			})
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	meta := domain.RequestMeta{
		RemoteAddr:   c.Request.RemoteAddr,
		ForwardedFor: c.GetHeader("X-Forwarded-For"),
		UserAgent:    c.GetHeader("User-Agent"),
	}
	rec, err := h.writer.Submit(c.Request.Context(), sub, meta)
	if err != nil {
		observability.RecordSubmission(observability.OutcomeStorageError)
		fail(c, h.opts.StoreFailureStatus, ErrCodeStorage, "failed to persist submission")
		return
	}

	observability.RecordSubmission(observability.OutcomeAccepted)
	resp := SubmitSurveyResponse{Status: "ok"}
	if h.opts.IncludeSubmissionID {
		resp.SubmissionID = rec.SubmissionID
	}
	ok(c, http.StatusCreated, resp)
}

func rejectInvalidJSON(c *gin.Context) {
	observability.RecordSubmission(observability.OutcomeInvalidJSON)
	fail(c, http.StatusBadRequest, ErrCodeInvalidJSON, "")
}

// isJSONContentType accepts a missing media type (the body decides) and any
// application/json or +json media type.
func isJSONContentType(mt string) bool {
	mt = strings.ToLower(strings.TrimSpace(mt))
	return mt == "" || mt == "application/json" || strings.HasSuffix(mt, "+json")
}
