package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/google/uuid"
)

// Manual validation errors.
var (
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrAlreadyValidated   = errors.New("submission already validated")
)

// ValidationSubmissionStore is the submission access manual review needs.
type ValidationSubmissionStore interface {
	ListPending(ctx context.Context) ([]model.PendingSubmission, error)
	Resolve(ctx context.Context, id uuid.UUID, correctness model.Correctness) (bool, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	Stats(ctx context.Context) (*model.ValidationStats, error)
}

// ValidationService handles manual review of free-text submissions.
type ValidationService struct {
	submissions ValidationSubmissionStore
}

// NewValidationService creates a new ValidationService.
func NewValidationService(submissions ValidationSubmissionStore) *ValidationService {
	return &ValidationService{submissions: submissions}
}

// ListPending returns all submissions awaiting manual review, oldest first.
func (s *ValidationService) ListPending(ctx context.Context) ([]model.PendingSubmission, error) {
	return s.submissions.ListPending(ctx)
}

// Validate resolves one PENDING submission to CORRECT or INCORRECT. A
// submission that was already resolved is refused — a verdict is written
// exactly once and never silently overwritten.
func (s *ValidationService) Validate(ctx context.Context, id uuid.UUID, correct bool) error {
	correctness := model.CorrectnessIncorrect
	if correct {
		correctness = model.CorrectnessCorrect
	}

	resolved, err := s.submissions.Resolve(ctx, id, correctness)
	if err != nil {
		return fmt.Errorf("resolve submission: %w", err)
	}
	if resolved {
		return nil
	}

	exists, err := s.submissions.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check submission: %w", err)
	}
	if !exists {
		return ErrSubmissionNotFound
	}
	return ErrAlreadyValidated
}

// Stats returns aggregate manual-review progress counters.
func (s *ValidationService) Stats(ctx context.Context) (*model.ValidationStats, error) {
	return s.submissions.Stats(ctx)
}
