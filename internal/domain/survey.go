// Package domain defines the core models of the survey intake service.
// These types are shared across the validation, persistence, and HTTP
// layers and carry no behavior of their own beyond small helpers.
package domain

import "time"

// SurveySubmission is a validated inbound submission. It is owned by a
// single request and never persisted as-is: email and age only leave the
// service in hashed form (see StoredSurveyRecord).
type SurveySubmission struct {
	Name     string
	Email    string
	Age      int
	Consent  bool
	Rating   int
	Comments *string
	Source   string
	// UserAgent is the body-supplied value; the request header wins when set.
	UserAgent *string
	// SubmissionID is trusted verbatim when non-empty.
	SubmissionID string
}

// StoredSurveyRecord is the append-only, persisted form of an accepted
// submission. Field order here is the order of keys in each NDJSON line.
//
// HashedAge is a pseudonym, not protection: there is one digest per valid
// age, so the original value is recoverable by enumerating the range.
type StoredSurveyRecord struct {
	Name         string    `json:"name"`
	Consent      bool      `json:"consent"`
	Rating       int       `json:"rating"`
	Comments     *string   `json:"comments"`
	Source       *string   `json:"source,omitempty"`
	UserAgent    *string   `json:"user_agent"`
	SubmissionID string    `json:"submission_id"`
	HashedEmail  string    `json:"hashed_email"`
	HashedAge    string    `json:"hashed_age"`
	ReceivedAt   time.Time `json:"received_at"`
	IP           string    `json:"ip"`
}

// RequestMeta carries the transport-observed facts the record writer needs.
// It is filled by the HTTP layer; the core never reads headers itself.
type RequestMeta struct {
	RemoteAddr   string // socket address, usually host:port
	ForwardedFor string // raw X-Forwarded-For header value
	UserAgent    string // raw User-Agent header value
}

// Policy holds the deployment-dependent validation choices.
type Policy struct {
	MinAge        int    // inclusive
	MaxAge        int    // inclusive
	DefaultSource string // used when the submission omits "source"
	RecordSource  bool   // when false, "source" is dropped from stored records
}

// DefaultPolicy returns the canonical policy: ages 13–120, source "other".
func DefaultPolicy() Policy {
	return Policy{
		MinAge:        13,
		MaxAge:        120,
		DefaultSource: "other",
		RecordSource:  true,
	}
}
