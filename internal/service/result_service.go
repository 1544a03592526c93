package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/arenalabs/quizarena-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrWeightNotConfigured is returned when results are requested before
// the question_weight event setting is set.
var ErrWeightNotConfigured = errors.New("question weight setting not configured")

// ResultSettingStore reads event settings for scoring.
type ResultSettingStore interface {
	GetByKey(ctx context.Context, key string) (*model.EventSetting, error)
}

// ResultSubmissionStore aggregates per-participant round results.
type ResultSubmissionStore interface {
	RoundResults(ctx context.Context, roundID uuid.UUID, questionWeight float64) ([]repository.RoundResult, error)
}

// ResultService computes per-round leaderboards weighted by the
// configured per-question mark.
type ResultService struct {
	rounds      GradingRoundStore
	settings    ResultSettingStore
	submissions ResultSubmissionStore
}

// NewResultService creates a new ResultService.
func NewResultService(rounds GradingRoundStore, settings ResultSettingStore, submissions ResultSubmissionStore) *ResultService {
	return &ResultService{rounds: rounds, settings: settings, submissions: submissions}
}

// RoundResults returns the weighted leaderboard for one round, ordered by
// correct answers descending.
func (s *ResultService) RoundResults(ctx context.Context, roundID uuid.UUID) ([]repository.RoundResult, error) {
	if _, err := s.rounds.GetByID(ctx, roundID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("get round: %w", err)
	}

	weight, err := s.questionWeight(ctx)
	if err != nil {
		return nil, err
	}

	results, err := s.submissions.RoundResults(ctx, roundID, weight)
	if err != nil {
		return nil, fmt.Errorf("aggregate round results: %w", err)
	}
	return results, nil
}

func (s *ResultService) questionWeight(ctx context.Context) (float64, error) {
	setting, err := s.settings.GetByKey(ctx, model.SettingQuestionWeight)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrWeightNotConfigured
		}
		return 0, fmt.Errorf("get question weight: %w", err)
	}

	weight, err := strconv.ParseFloat(setting.Value, 64)
	if err != nil || weight <= 0 {
		return 0, ErrWeightNotConfigured
	}
	return weight, nil
}
