// Package services – SurveyService
//
// This file implements the record writer: it turns a validated submission
// into a StoredSurveyRecord (pseudonymized email and age, derived or
// caller-supplied submission id, server-assigned timestamp and client
// address) and appends it to the injected append-only log exactly once.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/tbourn/go-survey-backend/internal/domain"
	"github.com/tbourn/go-survey-backend/internal/observability"
	"github.com/tbourn/go-survey-backend/internal/repo"
)

// SurveyService persists accepted submissions. It holds no cross-request
// state; all shared mutation happens inside the AppendLog.
type SurveyService struct {
	// Log is the append-only store records are written to.
	Log repo.AppendLog
	// Policy controls whether "source" is carried into stored records.
	Policy domain.Policy
	// Now is the server clock; nil means time.Now.
	Now func() time.Time
}

// NewSurveyService returns a SurveyService writing to log.
func NewSurveyService(log repo.AppendLog, p domain.Policy) *SurveyService {
	return &SurveyService{Log: log, Policy: p, Now: time.Now}
}

// Submit builds the stored record for sub and appends it.
//
// The returned record is exactly what was written. On error nothing may be
// assumed about persistence; the error wraps ErrStorage.
func (s *SurveyService) Submit(ctx context.Context, sub domain.SurveySubmission, meta domain.RequestMeta) (rec *domain.StoredSurveyRecord, err error) {
	ctx, span := observability.StartSpan(ctx, "survey.submit")
	defer func() { observability.EndSpan(span, err) }()

	rec = s.buildRecord(sub, meta)
	span.SetAttributes(
		attribute.String("survey.submission_id", rec.SubmissionID),
		attribute.Bool("survey.derived_id", sub.SubmissionID == ""),
	)

	line, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("%w: encode record: %w", ErrStorage, err)
	}
	if err := s.Log.Append(ctx, rec.SubmissionID, line); err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Str("submission_id", rec.SubmissionID).
			Msg("survey record append failed")
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("submission_id", rec.SubmissionID).
		Str("hashed_email", rec.HashedEmail).
		Bool("derived_id", sub.SubmissionID == "").
		Msg("survey record appended")
	return rec, nil
}

func (s *SurveyService) buildRecord(sub domain.SurveySubmission, meta domain.RequestMeta) *domain.StoredSurveyRecord {
	now := s.now().UTC()
	email := NormalizeEmail(sub.Email)

	id := sub.SubmissionID
	if id == "" {
		id = DeriveSubmissionID(email, now)
	}

	ua := sub.UserAgent
	if meta.UserAgent != "" {
		h := meta.UserAgent
		ua = &h
	}

	var source *string
	if s.Policy.RecordSource {
		src := sub.Source
		source = &src
	}

	return &domain.StoredSurveyRecord{
		Name:         sub.Name,
		Consent:      sub.Consent,
		Rating:       sub.Rating,
		Comments:     sub.Comments,
		Source:       source,
		UserAgent:    ua,
		SubmissionID: id,
		HashedEmail:  HashHex(email),
		HashedAge:    HashAge(sub.Age),
		ReceivedAt:   now,
		IP:           ClientIP(meta),
	}
}

func (s *SurveyService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
