// Package handlers defines the error codes carried in the "error" field of
// every error envelope. Clients branch on these; messages are for humans.
//
// Codes are lowercase snake_case. The survey codes mirror the service error
// taxonomy (invalid_json, validation_error, storage_error); the rest mirror
// HTTP status semantics for router-level fallbacks.
package handlers

const (
	ErrCodeInvalidJSON      = "invalid_json"
	ErrCodeValidation       = "validation_error"
	ErrCodeStorage          = "storage_error"
	ErrCodePayloadTooLarge  = "payload_too_large"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"
)
