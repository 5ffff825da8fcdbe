// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response helpers shared by all endpoints. Every
// error leaves through fail()/failDetail() so the envelope shape is uniform:
//
//	HTTP/1.1 400 Bad Request
//	{"error": "invalid_json"}
//
//	HTTP/1.1 422 Unprocessable Entity
//	{"error": "validation_error", "detail": [{"loc": ["body", "age"], "msg": "...", "type": "..."}]}
//
// The correlation id travels in the X-Request-ID response header rather than
// the body.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-survey-backend/internal/domain"
	"github.com/tbourn/go-survey-backend/internal/http/middleware"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Stable, machine-readable code (see errors.go constants)
	Error string `json:"error" example:"invalid_json"`
	// Human-readable message, present for storage and internal failures
	Message string `json:"message,omitempty" example:"failed to persist submission"`
	// Field-level violations, present for validation_error only
	Detail []domain.Violation `json:"detail,omitempty"`
}

// fail aborts the request with a structured error and logs server-side errors.
func fail(c *gin.Context, status int, code, msg string) {
	failDetail(c, status, ErrorResponse{Error: code, Message: msg})
}

// failDetail aborts with a fully populated envelope. Responses >= 500 are
// logged with the request-scoped logger.
func failDetail(c *gin.Context, status int, resp ErrorResponse) {
	if status >= http.StatusInternalServerError {
		lg := middleware.LoggerFrom(c)
		lg.Error().
			Int("status", status).
			Str("code", resp.Error).
			Str("message", resp.Message).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail() for router-level fallbacks.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
