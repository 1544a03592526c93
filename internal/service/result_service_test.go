package service

import (
	"context"
	"errors"
	"testing"

	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/arenalabs/quizarena-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type fakeResultSettingStore struct {
	settings map[string]string
}

func (f *fakeResultSettingStore) GetByKey(_ context.Context, key string) (*model.EventSetting, error) {
	value, ok := f.settings[key]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &model.EventSetting{Key: key, Value: value}, nil
}

type fakeResultSubmissionStore struct {
	results []repository.RoundResult
	weight  float64
}

func (f *fakeResultSubmissionStore) RoundResults(_ context.Context, _ uuid.UUID, questionWeight float64) ([]repository.RoundResult, error) {
	f.weight = questionWeight
	return f.results, nil
}

func TestRoundResultsUsesConfiguredWeight(t *testing.T) {
	round := activeRound(1)
	settings := &fakeResultSettingStore{settings: map[string]string{model.SettingQuestionWeight: "2.5"}}
	submissions := &fakeResultSubmissionStore{results: []repository.RoundResult{
		{ParticipantID: 1, CorrectAnswers: 4, Score: 10},
	}}
	svc := NewResultService(newFakeRoundStore(round), settings, submissions)

	results, err := svc.RoundResults(context.Background(), round.ID)
	if err != nil {
		t.Fatalf("RoundResults failed: %v", err)
	}
	if submissions.weight != 2.5 {
		t.Errorf("weight passed = %v, want 2.5", submissions.weight)
	}
	if len(results) != 1 || results[0].Score != 10 {
		t.Errorf("results = %+v", results)
	}
}

func TestRoundResultsWeightMisconfigured(t *testing.T) {
	round := activeRound(1)
	submissions := &fakeResultSubmissionStore{}

	tests := []struct {
		name     string
		settings map[string]string
	}{
		{"missing setting", map[string]string{}},
		{"non-numeric value", map[string]string{model.SettingQuestionWeight: "lots"}},
		{"zero weight", map[string]string{model.SettingQuestionWeight: "0"}},
		{"negative weight", map[string]string{model.SettingQuestionWeight: "-1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewResultService(newFakeRoundStore(round), &fakeResultSettingStore{settings: tt.settings}, submissions)
			_, err := svc.RoundResults(context.Background(), round.ID)
			if !errors.Is(err, ErrWeightNotConfigured) {
				t.Fatalf("RoundResults error = %v, want ErrWeightNotConfigured", err)
			}
		})
	}
}

func TestRoundResultsUnknownRound(t *testing.T) {
	svc := NewResultService(newFakeRoundStore(), &fakeResultSettingStore{}, &fakeResultSubmissionStore{})

	_, err := svc.RoundResults(context.Background(), uuid.New())
	if !errors.Is(err, ErrRoundNotFound) {
		t.Fatalf("RoundResults error = %v, want ErrRoundNotFound", err)
	}
}
