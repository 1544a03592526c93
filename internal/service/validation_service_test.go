package service

import (
	"context"
	"errors"
	"testing"

	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/google/uuid"
)

type fakeValidationStore struct {
	submissions map[uuid.UUID]*model.Submission
}

func newFakeValidationStore(subs ...*model.Submission) *fakeValidationStore {
	f := &fakeValidationStore{submissions: map[uuid.UUID]*model.Submission{}}
	for _, s := range subs {
		f.submissions[s.ID] = s
	}
	return f
}

func (f *fakeValidationStore) ListPending(_ context.Context) ([]model.PendingSubmission, error) {
	var out []model.PendingSubmission
	for _, s := range f.submissions {
		if s.Correctness == model.CorrectnessPending {
			out = append(out, model.PendingSubmission{Submission: *s})
		}
	}
	return out, nil
}

func (f *fakeValidationStore) Resolve(_ context.Context, id uuid.UUID, correctness model.Correctness) (bool, error) {
	s, ok := f.submissions[id]
	if !ok || s.Correctness.Resolved() {
		return false, nil
	}
	s.Correctness = correctness
	return true, nil
}

func (f *fakeValidationStore) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := f.submissions[id]
	return ok, nil
}

func (f *fakeValidationStore) Stats(_ context.Context) (*model.ValidationStats, error) {
	stats := &model.ValidationStats{}
	for _, s := range f.submissions {
		stats.Total++
		switch s.Correctness {
		case model.CorrectnessPending:
			stats.Pending++
		case model.CorrectnessCorrect:
			stats.Validated++
			stats.Correct++
		case model.CorrectnessIncorrect:
			stats.Validated++
			stats.Incorrect++
		}
	}
	return stats, nil
}

func TestValidateResolvesPendingOnce(t *testing.T) {
	sub := &model.Submission{ID: uuid.New(), Correctness: model.CorrectnessPending}
	store := newFakeValidationStore(sub)
	svc := NewValidationService(store)
	ctx := context.Background()

	if err := svc.Validate(ctx, sub.ID, true); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if sub.Correctness != model.CorrectnessCorrect {
		t.Errorf("correctness = %s, want CORRECT", sub.Correctness)
	}

	// A verdict is written once; a second attempt is refused.
	if err := svc.Validate(ctx, sub.ID, false); !errors.Is(err, ErrAlreadyValidated) {
		t.Fatalf("second Validate error = %v, want ErrAlreadyValidated", err)
	}
	if sub.Correctness != model.CorrectnessCorrect {
		t.Errorf("correctness overwritten to %s", sub.Correctness)
	}
}

func TestValidateIncorrectVerdict(t *testing.T) {
	sub := &model.Submission{ID: uuid.New(), Correctness: model.CorrectnessPending}
	store := newFakeValidationStore(sub)
	svc := NewValidationService(store)

	if err := svc.Validate(context.Background(), sub.ID, false); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if sub.Correctness != model.CorrectnessIncorrect {
		t.Errorf("correctness = %s, want INCORRECT", sub.Correctness)
	}
}

func TestValidateUnknownSubmission(t *testing.T) {
	svc := NewValidationService(newFakeValidationStore())

	err := svc.Validate(context.Background(), uuid.New(), true)
	if !errors.Is(err, ErrSubmissionNotFound) {
		t.Fatalf("Validate error = %v, want ErrSubmissionNotFound", err)
	}
}

func TestListPendingFiltersResolved(t *testing.T) {
	pending := &model.Submission{ID: uuid.New(), Correctness: model.CorrectnessPending}
	resolved := &model.Submission{ID: uuid.New(), Correctness: model.CorrectnessCorrect}
	svc := NewValidationService(newFakeValidationStore(pending, resolved))

	list, err := svc.ListPending(context.Background())
	if err != nil {
		t.Fatalf("ListPending failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != pending.ID {
		t.Fatalf("ListPending = %+v, want only the pending submission", list)
	}
}
