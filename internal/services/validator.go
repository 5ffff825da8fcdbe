// Package services – Validator
//
// This file implements the schema validation pass for survey submissions.
// The inbound body is decoded into a key → raw-token map first, so that a
// type mismatch on one field never hides violations on the others. Each
// declared field is then type-checked against its raw token and, when the
// type is right, range-checked with go-playground/validator (the engine
// behind gin's binding tags) using tags derived from the deployment policy.
//
// Violations are collected, never short-circuited, and reported in schema
// declaration order:
//
//	name, email, age, consent, rating, comments, source, user_agent, submission_id
package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tbourn/go-survey-backend/internal/domain"
)

// Field constraints that do not vary by deployment.
const (
	NameMaxLen     = 100
	CommentsMaxLen = 1000
	RatingMin      = 1
	RatingMax      = 5
)

// Validator turns a raw request body into a SurveySubmission or a
// *ValidationError. It holds no per-request state and is safe for
// concurrent use.
type Validator struct {
	policy domain.Policy
	engine *validator.Validate

	nameTag     string
	ageTag      string
	ratingTag   string
	commentsTag string
}

// NewValidator builds a Validator for the given policy.
func NewValidator(p domain.Policy) *Validator {
	return &Validator{
		policy:      p,
		engine:      validator.New(),
		nameTag:     fmt.Sprintf("min=1,max=%d", NameMaxLen),
		ageTag:      fmt.Sprintf("gte=%d,lte=%d", p.MinAge, p.MaxAge),
		ratingTag:   fmt.Sprintf("gte=%d,lte=%d", RatingMin, RatingMax),
		commentsTag: fmt.Sprintf("max=%d", CommentsMaxLen),
	}
}

// Policy returns the policy this validator enforces.
func (v *Validator) Policy() domain.Policy { return v.policy }

// Validate parses body and checks it against the submission schema.
//
// Errors:
//   - ErrInvalidJSON when body is empty, not JSON, or not a JSON object.
//   - *ValidationError listing every violated constraint otherwise.
func (v *Validator) Validate(body []byte) (domain.SurveySubmission, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return domain.SurveySubmission{}, ErrInvalidJSON
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		return domain.SurveySubmission{}, ErrInvalidJSON
	}

	r := &fieldReader{obj: obj}
	var sub domain.SurveySubmission

	if s, present, ok := r.str("name"); !present {
		r.missing("name")
	} else if ok {
		v.check(r, "name", s, v.nameTag)
		sub.Name = s
	}

	if s, present, ok := r.str("email"); !present {
		r.missing("email")
	} else if ok {
		// Surrounding whitespace is dropped at normalization time, so it
		// must not fail the syntax check either.
		v.check(r, "email", strings.TrimSpace(s), "email")
		sub.Email = s
	}

	if n, present, ok := r.integer("age"); !present {
		r.missing("age")
	} else if ok {
		v.check(r, "age", n, v.ageTag)
		sub.Age = n
	}

	sub.Consent = true
	if b, present, ok := r.boolean("consent"); present && ok {
		sub.Consent = b
	}

	if n, present, ok := r.integer("rating"); !present {
		r.missing("rating")
	} else if ok {
		v.check(r, "rating", n, v.ratingTag)
		sub.Rating = n
	}

	if s, present, ok := r.str("comments"); present && ok {
		v.check(r, "comments", s, v.commentsTag)
		sub.Comments = &s
	}

	sub.Source = v.policy.DefaultSource
	if s, present, ok := r.str("source"); present && ok {
		sub.Source = s
	}

	if s, present, ok := r.str("user_agent"); present && ok {
		sub.UserAgent = &s
	}

	if s, present, ok := r.str("submission_id"); present && ok {
		sub.SubmissionID = s
	}

	if len(r.violations) > 0 {
		return domain.SurveySubmission{}, &ValidationError{Violations: r.violations}
	}
	return sub, nil
}

// check runs a validator tag against an already type-checked value and
// records the first failing rule, if any.
func (v *Validator) check(r *fieldReader, field string, value any, tag string) {
	err := v.engine.Var(value, tag)
	if err == nil {
		return
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		r.add(field, err.Error(), domain.KindInvalidValue)
		return
	}
	msg, kind := describe(ves[0])
	r.add(field, msg, kind)
}

// describe maps a validator rule failure to a message and violation kind.
func describe(fe validator.FieldError) (msg, kind string) {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("ensure this value has at least %s characters", fe.Param()), domain.KindMinLength
	case "max":
		return fmt.Sprintf("ensure this value has at most %s characters", fe.Param()), domain.KindMaxLength
	case "gte":
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param()), domain.KindNumberNotGE
	case "lte":
		return fmt.Sprintf("ensure this value is less than or equal to %s", fe.Param()), domain.KindNumberNotLE
	case "email":
		return "value is not a valid email address", domain.KindEmail
	default:
		return fmt.Sprintf("failed on the %q rule", fe.Tag()), domain.KindInvalidValue
	}
}

// fieldReader type-checks raw JSON tokens field by field and accumulates
// violations. A JSON null counts as absent.
type fieldReader struct {
	obj        map[string]json.RawMessage
	violations []domain.Violation
}

func (r *fieldReader) add(field, msg, kind string) {
	r.violations = append(r.violations, domain.Violation{
		Loc:  domain.FieldLoc(field),
		Msg:  msg,
		Type: kind,
	})
}

func (r *fieldReader) missing(field string) {
	r.add(field, "field required", domain.KindMissing)
}

func (r *fieldReader) raw(field string) (json.RawMessage, bool) {
	raw, ok := r.obj[field]
	if !ok {
		return nil, false
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false
	}
	return raw, true
}

// str reads a JSON string. present reports whether the key carried a
// non-null value; ok reports whether that value had the right type.
func (r *fieldReader) str(field string) (s string, present, ok bool) {
	raw, present := r.raw(field)
	if !present {
		return "", false, false
	}
	if raw[0] != '"' || json.Unmarshal(raw, &s) != nil {
		r.add(field, "str type expected", domain.KindTypeStr)
		return "", true, false
	}
	return s, true, true
}

// integer reads a JSON number with an integral value (30 and 30.0 both
// qualify). Quoted numbers, fractions, and booleans are type errors.
func (r *fieldReader) integer(field string) (n int, present, ok bool) {
	raw, present := r.raw(field)
	if !present {
		return 0, false, false
	}
	lit := string(raw)
	if c := lit[0]; c != '-' && (c < '0' || c > '9') {
		r.add(field, "value is not a valid integer", domain.KindTypeInteger)
		return 0, true, false
	}
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil && i >= math.MinInt32 && i <= math.MaxInt32 {
		return int(i), true, true
	}
	if f, err := strconv.ParseFloat(lit, 64); err == nil && f == math.Trunc(f) &&
		f >= math.MinInt32 && f <= math.MaxInt32 {
		return int(f), true, true
	}
	r.add(field, "value is not a valid integer", domain.KindTypeInteger)
	return 0, true, false
}

func (r *fieldReader) boolean(field string) (b bool, present, ok bool) {
	raw, present := r.raw(field)
	if !present {
		return false, false, false
	}
	if json.Unmarshal(raw, &b) != nil {
		r.add(field, "value could not be parsed to a boolean", domain.KindTypeBool)
		return false, true, false
	}
	return b, true, true
}
