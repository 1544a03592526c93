package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/arenalabs/quizarena-backend/internal/config"
	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Session lifecycle errors.
var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrParticipantInactive = errors.New("participant account is inactive")
	ErrAlreadyInSession    = errors.New("participant already has a session in progress")
	ErrNoActiveRound       = errors.New("no round is currently active")
	ErrNotEligible         = errors.New("participant is not assigned to the active round")
)

// SessionParticipantStore is the participant access a session needs.
type SessionParticipantStore interface {
	GetByID(ctx context.Context, id int) (*model.Participant, error)
	ClaimSession(ctx context.Context, id int) (bool, error)
	ReleaseSession(ctx context.Context, id int) error
}

// SessionRoundStore exposes the active round lookup.
type SessionRoundStore interface {
	ListActive(ctx context.Context) ([]model.Round, error)
}

// SessionQuestionStore loads a round's questions for the payload.
type SessionQuestionStore interface {
	ListByRound(ctx context.Context, roundID uuid.UUID) ([]model.Question, error)
}

// SessionRecordStore persists the test session audit trail.
type SessionRecordStore interface {
	Create(ctx context.Context, s *model.TestSession) error
	CloseActive(ctx context.Context, participantID int, status model.SessionStatus) error
	GetActiveByParticipant(ctx context.Context, participantID int) (*model.TestSession, error)
	ListByRound(ctx context.Context, roundID uuid.UUID) ([]model.TestSession, error)
}

// ErrNoActiveSession is returned when a participant has no session in
// progress.
var ErrNoActiveSession = errors.New("no session in progress")

// SessionService owns test session start and release. Starting a session
// runs the full eligibility gate and atomically claims the participant's
// in_session flag before any payload is served.
type SessionService struct {
	participants SessionParticipantStore
	rounds       SessionRoundStore
	questions    SessionQuestionStore
	sessions     SessionRecordStore
	rdb          *redis.Client
	events       *EventPublisher
}

// NewSessionService creates a new SessionService.
func NewSessionService(
	participants SessionParticipantStore,
	rounds SessionRoundStore,
	questions SessionQuestionStore,
	sessions SessionRecordStore,
	rdb *redis.Client,
	events *EventPublisher,
) *SessionService {
	return &SessionService{
		participants: participants,
		rounds:       rounds,
		questions:    questions,
		sessions:     sessions,
		rdb:          rdb,
		events:       events,
	}
}

// StartSession runs the eligibility gate in order and, on success, claims
// the participant's session and returns the active round's payload with
// canonical answers stripped. The checks are ordered so the client can show
// the most specific denial reason:
//
//	account exists → account active → not already in session →
//	exactly one active round → assigned to that round.
//
// The actual lockout is the conditional claim, not the earlier read —
// two concurrent starts race on the UPDATE and exactly one wins.
func (s *SessionService) StartSession(ctx context.Context, participantID int) (*model.RoundPayload, error) {
	participant, err := s.participants.GetByID(ctx, participantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}

	if !participant.IsActive {
		return nil, ErrParticipantInactive
	}
	if participant.InSession {
		return nil, ErrAlreadyInSession
	}

	round, err := s.activeRound(ctx)
	if err != nil {
		return nil, err
	}
	if participant.CurrentRound != round.Seq {
		return nil, ErrNotEligible
	}

	claimed, err := s.participants.ClaimSession(ctx, participantID)
	if err != nil {
		return nil, fmt.Errorf("claim session: %w", err)
	}
	if !claimed {
		return nil, ErrAlreadyInSession
	}

	session := &model.TestSession{
		ParticipantID: participantID,
		RoundID:       round.ID,
		Status:        model.SessionStatusActive,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		// Undo the claim so the participant is not locked out of a
		// session that was never recorded.
		if relErr := s.participants.ReleaseSession(ctx, participantID); relErr != nil {
			log.Error().Err(relErr).Int("participant_id", participantID).
				Msg("Failed to release session claim after create failure")
		}
		return nil, fmt.Errorf("create test session: %w", err)
	}

	payload, err := s.loadRoundPayload(ctx, round)
	if err != nil {
		// The participant never received questions, so the start did not
		// happen: unwind the claim and the record like the create failure
		// above.
		if relErr := s.participants.ReleaseSession(ctx, participantID); relErr != nil {
			log.Error().Err(relErr).Int("participant_id", participantID).
				Msg("Failed to release session claim after payload failure")
		}
		if closeErr := s.sessions.CloseActive(ctx, participantID, model.SessionStatusReleased); closeErr != nil {
			log.Error().Err(closeErr).Int("participant_id", participantID).
				Msg("Failed to close session record after payload failure")
		}
		return nil, err
	}

	s.events.Publish(ctx, model.SessionEventStarted, participantID, round.ID, round.Seq)
	return payload, nil
}

// ReleaseSession clears a participant's in_session flag and closes any
// active session record as RELEASED. Used by operators to unstick a
// participant whose client died mid-test; idempotent by design.
func (s *SessionService) ReleaseSession(ctx context.Context, participantID int) error {
	if _, err := s.participants.GetByID(ctx, participantID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrParticipantNotFound
		}
		return fmt.Errorf("get participant: %w", err)
	}

	// Look up the open session before closing it so the monitor event can
	// name the round. A missing record just means nothing to report.
	active, err := s.sessions.GetActiveByParticipant(ctx, participantID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("get active session: %w", err)
	}

	if err := s.participants.ReleaseSession(ctx, participantID); err != nil {
		return fmt.Errorf("release session: %w", err)
	}
	if err := s.sessions.CloseActive(ctx, participantID, model.SessionStatusReleased); err != nil {
		return fmt.Errorf("close session record: %w", err)
	}

	if active != nil {
		s.events.Publish(ctx, model.SessionEventReleased, participantID, active.RoundID, 0)
	}
	return nil
}

// CurrentSession returns the participant's in-progress session record, so
// a reconnecting client can tell whether to resume or start fresh.
func (s *SessionService) CurrentSession(ctx context.Context, participantID int) (*model.TestSession, error) {
	session, err := s.sessions.GetActiveByParticipant(ctx, participantID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoActiveSession
		}
		return nil, fmt.Errorf("get active session: %w", err)
	}
	return session, nil
}

// RoundSessions returns the audit trail of sessions recorded for a round,
// newest first.
func (s *SessionService) RoundSessions(ctx context.Context, roundID uuid.UUID) ([]model.TestSession, error) {
	return s.sessions.ListByRound(ctx, roundID)
}

// activeRound returns the single active round. Zero active rounds means
// the contest is between phases; more than one means the activation
// invariant was violated outside the API and is treated the same way.
func (s *SessionService) activeRound(ctx context.Context) (*model.Round, error) {
	active, err := s.rounds.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active rounds: %w", err)
	}
	if len(active) != 1 {
		if len(active) > 1 {
			log.Error().Int("count", len(active)).Msg("Multiple rounds flagged active")
		}
		return nil, ErrNoActiveRound
	}
	return &active[0], nil
}

// loadRoundPayload serves the round's stripped question payload from the
// Redis cache, falling back to the database and re-warming the cache on a
// miss. Cache failures degrade to the database silently.
func (s *SessionService) loadRoundPayload(ctx context.Context, round *model.Round) (*model.RoundPayload, error) {
	cacheKey := config.CacheKey.RoundPayloadKey(round.ID.String())

	cached, err := s.rdb.Get(ctx, cacheKey).Result()
	if err == nil {
		payload := &model.RoundPayload{}
		if err := json.Unmarshal([]byte(cached), payload); err == nil {
			return payload, nil
		}
		log.Warn().Str("round_id", round.ID.String()).Msg("Corrupt round payload cache entry, rebuilding")
	} else if !errors.Is(err, redis.Nil) {
		log.Warn().Err(err).Msg("Round payload cache read failed, falling back to database")
	}

	payload, err := s.buildRoundPayload(ctx, round)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(payload); err == nil {
		if err := s.rdb.Set(ctx, cacheKey, raw, time.Hour).Err(); err != nil {
			log.Warn().Err(err).Msg("Failed to warm round payload cache")
		}
	}

	return payload, nil
}

func (s *SessionService) buildRoundPayload(ctx context.Context, round *model.Round) (*model.RoundPayload, error) {
	questions, err := s.questions.ListByRound(ctx, round.ID)
	if err != nil {
		return nil, fmt.Errorf("list round questions: %w", err)
	}

	stripped := make([]model.QuestionForParticipant, 0, len(questions))
	for _, q := range questions {
		stripped = append(stripped, model.QuestionForParticipant{
			ID:           q.ID,
			QuestionType: q.QuestionType,
			Prompt:       q.Prompt,
			Options:      q.Options,
		})
	}

	return &model.RoundPayload{
		RoundID:          round.ID,
		Seq:              round.Seq,
		Name:             round.Name,
		TimeLimitMinutes: round.TimeLimitMinutes,
		Questions:        stripped,
	}, nil
}

// PrewarmActiveRound rebuilds the payload cache for the active round, if
// any. Called at startup and after a round switch.
func (s *SessionService) PrewarmActiveRound(ctx context.Context) error {
	active, err := s.rounds.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("list active rounds: %w", err)
	}
	if len(active) != 1 {
		return nil
	}

	round := &active[0]
	payload, err := s.buildRoundPayload(ctx, round)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal round payload: %w", err)
	}
	return s.rdb.Set(ctx, config.CacheKey.RoundPayloadKey(round.ID.String()), raw, time.Hour).Err()
}
