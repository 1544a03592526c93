package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/arenalabs/quizarena-backend/internal/config"
	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/arenalabs/quizarena-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Round management errors.
var (
	ErrRoundActive     = errors.New("round is currently active")
	ErrRoundHasHistory = errors.New("round has recorded sessions or submissions")
)

// RoundStore is the round data access the round service needs.
type RoundStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Round, error)
	List(ctx context.Context) ([]model.Round, error)
	ListActive(ctx context.Context) ([]model.Round, error)
	Create(ctx context.Context, rd *model.Round) error
	Activate(ctx context.Context, id uuid.UUID) (*model.Round, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*model.Round, error)
	UpdateTimeLimit(ctx context.Context, id uuid.UUID, minutes int) (*model.Round, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// RoundService manages the round registry: ordering, the single-active
// invariant, time limits, and deletion guards.
type RoundService struct {
	rounds RoundStore
	rdb    *redis.Client
}

// NewRoundService creates a new RoundService.
func NewRoundService(rounds RoundStore, rdb *redis.Client) *RoundService {
	return &RoundService{rounds: rounds, rdb: rdb}
}

// List returns all rounds in sequence order.
func (s *RoundService) List(ctx context.Context) ([]model.Round, error) {
	return s.rounds.List(ctx)
}

// GetActive returns the currently active round, or ErrNoActiveRound.
func (s *RoundService) GetActive(ctx context.Context) (*model.Round, error) {
	active, err := s.rounds.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active rounds: %w", err)
	}
	if len(active) != 1 {
		return nil, ErrNoActiveRound
	}
	return &active[0], nil
}

// Create adds a new inactive round at the end of the sequence.
func (s *RoundService) Create(ctx context.Context, req *model.CreateRoundRequest) (*model.Round, error) {
	round := &model.Round{
		Name:             req.Name,
		TimeLimitMinutes: req.TimeLimitMinutes,
	}
	if err := s.rounds.Create(ctx, round); err != nil {
		return nil, fmt.Errorf("create round: %w", err)
	}
	return round, nil
}

// Activate makes the round the single active one; any previously active
// round is deactivated in the same atomic switch. The payload cache for
// the round is invalidated so the next session start rebuilds it.
func (s *RoundService) Activate(ctx context.Context, id uuid.UUID) (*model.Round, error) {
	round, err := s.rounds.Activate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("activate round: %w", err)
	}
	s.invalidatePayload(ctx, id)
	return round, nil
}

// Deactivate clears the active flag, leaving no round active.
func (s *RoundService) Deactivate(ctx context.Context, id uuid.UUID) (*model.Round, error) {
	round, err := s.rounds.Deactivate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("deactivate round: %w", err)
	}
	s.invalidatePayload(ctx, id)
	return round, nil
}

// UpdateTimeLimit changes a round's time limit and invalidates its cached
// payload so in-flight sessions are unaffected but new ones see the change.
func (s *RoundService) UpdateTimeLimit(ctx context.Context, id uuid.UUID, minutes int) (*model.Round, error) {
	round, err := s.rounds.UpdateTimeLimit(ctx, id, minutes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("update time limit: %w", err)
	}
	s.invalidatePayload(ctx, id)
	return round, nil
}

// Delete removes a round. Refused while the round is active or once any
// session or submission references it — history is never cascaded away.
func (s *RoundService) Delete(ctx context.Context, id uuid.UUID) error {
	round, err := s.rounds.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRoundNotFound
		}
		return fmt.Errorf("get round: %w", err)
	}
	if round.IsActive {
		return ErrRoundActive
	}

	if err := s.rounds.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return ErrRoundNotFound
		case errors.Is(err, repository.ErrRoundHasHistory):
			return ErrRoundHasHistory
		}
		return fmt.Errorf("delete round: %w", err)
	}

	s.invalidatePayload(ctx, id)
	return nil
}

func (s *RoundService) invalidatePayload(ctx context.Context, id uuid.UUID) {
	key := config.CacheKey.RoundPayloadKey(id.String())
	if err := s.rdb.Del(ctx, key).Err(); err != nil {
		log.Warn().Err(err).Str("round_id", id.String()).Msg("Failed to invalidate round payload cache")
	}
}
