package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Question management errors.
var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrOptionsRequired  = errors.New("single-select questions need at least two options")
)

// QuestionStore is the question data access for operator flows.
type QuestionStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error)
	ListByRound(ctx context.Context, roundID uuid.UUID) ([]model.Question, error)
	Create(ctx context.Context, q *model.Question) error
	Update(ctx context.Context, q *model.Question) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// QuestionService manages the question bank per round.
type QuestionService struct {
	rounds    GradingRoundStore
	questions QuestionStore
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(rounds GradingRoundStore, questions QuestionStore) *QuestionService {
	return &QuestionService{rounds: rounds, questions: questions}
}

// ListByRound returns all questions of a round, canonical answers included.
func (s *QuestionService) ListByRound(ctx context.Context, roundID uuid.UUID) ([]model.Question, error) {
	if _, err := s.rounds.GetByID(ctx, roundID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("get round: %w", err)
	}
	return s.questions.ListByRound(ctx, roundID)
}

// Create adds a question to a round. Single-select questions must carry at
// least two options; other types carry none.
func (s *QuestionService) Create(ctx context.Context, roundID uuid.UUID, req *model.CreateQuestionRequest) (*model.Question, error) {
	if _, err := s.rounds.GetByID(ctx, roundID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("get round: %w", err)
	}

	options, err := encodeOptions(req.QuestionType, req.Options)
	if err != nil {
		return nil, err
	}

	question := &model.Question{
		RoundID:         roundID,
		QuestionType:    req.QuestionType,
		Prompt:          req.Prompt,
		Options:         options,
		CanonicalAnswer: req.CanonicalAnswer,
	}
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return question, nil
}

// Update edits a question's prompt, options, or canonical answer. The
// question type is immutable — replace the question instead.
func (s *QuestionService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateQuestionRequest) (*model.Question, error) {
	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}

	if req.Prompt != "" {
		question.Prompt = req.Prompt
	}
	if req.CanonicalAnswer != "" {
		question.CanonicalAnswer = req.CanonicalAnswer
	}
	if len(req.Options) > 0 {
		options, err := encodeOptions(question.QuestionType, req.Options)
		if err != nil {
			return nil, err
		}
		question.Options = options
	}

	if err := s.questions.Update(ctx, question); err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	return question, nil
}

// Delete removes a question from its round.
func (s *QuestionService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.questions.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if !deleted {
		return ErrQuestionNotFound
	}
	return nil
}

// encodeOptions validates and serializes the option list for storage.
func encodeOptions(questionType model.QuestionType, options []string) (json.RawMessage, error) {
	if questionType != model.QuestionTypeSingleSelect {
		return nil, nil
	}
	if len(options) < 2 {
		return nil, ErrOptionsRequired
	}
	raw, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("encode options: %w", err)
	}
	return raw, nil
}
