// Package services defines the business logic of the survey intake pipeline:
// schema validation of inbound submissions and pseudonymized persistence of
// accepted ones. This file centralizes the service-level errors so handlers
// can map them to HTTP results with errors.Is / errors.As.
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tbourn/go-survey-backend/internal/domain"
)

var (
	// ErrInvalidJSON is returned when the body is absent, unparseable, or
	// not a JSON object. No field-level validation is attempted.
	ErrInvalidJSON = errors.New("invalid_json")

	// ErrStorage wraps any failure to append a record. The caller must not
	// assume the record was persisted.
	ErrStorage = errors.New("storage_error")
)

// ValidationError carries every field-level violation found in one pass,
// in schema declaration order.
type ValidationError struct {
	Violations []domain.Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 1 {
		v := e.Violations[0]
		return fmt.Sprintf("validation_error: %s: %s", strings.Join(v.Loc, "."), v.Msg)
	}
	return fmt.Sprintf("validation_error: %d violations", len(e.Violations))
}
