package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/arenalabs/quizarena-backend/internal/config"
	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/google/uuid"
)

func gradingConfig() *config.Config {
	return &config.Config{
		SubmitTimeout:           5 * time.Second,
		ElapsedToleranceSeconds: 120,
	}
}

func newTestGradingService(t *testing.T, rounds *fakeRoundStore, questions *fakeQuestionStore, writer *fakeBatchWriter) *GradingService {
	t.Helper()
	rdb := testRedis(t)
	return NewGradingService(gradingConfig(), rounds, questions, writer, NewEventPublisher(rdb))
}

func TestSubmitGradesAutoGradableAnswers(t *testing.T) {
	round := activeRound(1)
	q1 := model.Question{ID: uuid.New(), RoundID: round.ID, QuestionType: model.QuestionTypeSingleSelect, CanonicalAnswer: "Paris"}
	q2 := model.Question{ID: uuid.New(), RoundID: round.ID, QuestionType: model.QuestionTypeTrueFalse, CanonicalAnswer: "true"}
	q3 := model.Question{ID: uuid.New(), RoundID: round.ID, QuestionType: model.QuestionTypeFreeText, CanonicalAnswer: "anything"}
	questions := &fakeQuestionStore{byRound: map[uuid.UUID][]model.Question{round.ID: {q1, q2, q3}}}
	writer := &fakeBatchWriter{}

	svc := newTestGradingService(t, newFakeRoundStore(round), questions, writer)

	req := &model.SubmitRequest{
		RoundID:        round.ID,
		ElapsedSeconds: 600,
		Answers: []model.SubmitAnswer{
			{QuestionID: q1.ID, AnswerText: "  PARIS "},
			{QuestionID: q2.ID, AnswerText: "false"},
			{QuestionID: q3.ID, AnswerText: "long explanation"},
		},
	}
	if err := svc.Submit(context.Background(), 7, req); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	if writer.calls != 1 {
		t.Fatalf("PersistGradedBatch calls = %d, want 1", writer.calls)
	}
	if writer.participantID != 7 || writer.roundID != round.ID || writer.elapsed != 600 {
		t.Errorf("persisted batch header = (%d, %v, %d)", writer.participantID, writer.roundID, writer.elapsed)
	}
	if len(writer.answers) != 3 {
		t.Fatalf("persisted %d answers, want 3", len(writer.answers))
	}

	want := []struct {
		correctness model.Correctness
		autoGraded  bool
	}{
		{model.CorrectnessCorrect, true},
		{model.CorrectnessIncorrect, true},
		{model.CorrectnessPending, false},
	}
	for i, w := range want {
		got := writer.answers[i]
		if got.Correctness != w.correctness || got.AutoGraded != w.autoGraded {
			t.Errorf("answer %d graded (%s, auto=%t), want (%s, auto=%t)",
				i, got.Correctness, got.AutoGraded, w.correctness, w.autoGraded)
		}
	}
}

func TestSubmitDropsUnknownQuestions(t *testing.T) {
	round := activeRound(1)
	q := model.Question{ID: uuid.New(), RoundID: round.ID, QuestionType: model.QuestionTypeSingleSelect, CanonicalAnswer: "42"}
	questions := &fakeQuestionStore{byRound: map[uuid.UUID][]model.Question{round.ID: {q}}}
	writer := &fakeBatchWriter{}

	svc := newTestGradingService(t, newFakeRoundStore(round), questions, writer)

	req := &model.SubmitRequest{
		RoundID: round.ID,
		Answers: []model.SubmitAnswer{
			{QuestionID: uuid.New(), AnswerText: "stray"},
			{QuestionID: q.ID, AnswerText: "42"},
		},
	}
	if err := svc.Submit(context.Background(), 1, req); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if len(writer.answers) != 1 {
		t.Fatalf("persisted %d answers, want 1 (stray dropped)", len(writer.answers))
	}
	if writer.answers[0].QuestionID != q.ID {
		t.Errorf("kept answer question = %v, want %v", writer.answers[0].QuestionID, q.ID)
	}
}

func TestSubmitEmptyBatchStillClosesSession(t *testing.T) {
	round := activeRound(1)
	writer := &fakeBatchWriter{}
	svc := newTestGradingService(t, newFakeRoundStore(round), &fakeQuestionStore{}, writer)

	req := &model.SubmitRequest{RoundID: round.ID, Answers: []model.SubmitAnswer{}}
	if err := svc.Submit(context.Background(), 1, req); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if writer.calls != 1 {
		t.Fatalf("PersistGradedBatch calls = %d, want 1 for empty batch", writer.calls)
	}
	if len(writer.answers) != 0 {
		t.Errorf("persisted %d answers, want 0", len(writer.answers))
	}
}

func TestSubmitRejectsMissingOrInactiveRound(t *testing.T) {
	inactive := activeRound(1)
	inactive.IsActive = false
	svc := newTestGradingService(t, newFakeRoundStore(inactive), &fakeQuestionStore{}, &fakeBatchWriter{})

	err := svc.Submit(context.Background(), 1, &model.SubmitRequest{RoundID: uuid.New()})
	if !errors.Is(err, ErrRoundNotFound) {
		t.Fatalf("unknown round error = %v, want ErrRoundNotFound", err)
	}

	err = svc.Submit(context.Background(), 1, &model.SubmitRequest{RoundID: inactive.ID})
	if !errors.Is(err, ErrRoundNotActive) {
		t.Fatalf("inactive round error = %v, want ErrRoundNotActive", err)
	}
}

func TestClampElapsed(t *testing.T) {
	svc := &GradingService{cfg: gradingConfig()}
	round := &model.Round{TimeLimitMinutes: 10} // 600s limit, 120s tolerance

	tests := []struct {
		name    string
		elapsed int
		want    int
	}{
		{"negative clamps to zero", -5, 0},
		{"within limit passes through", 300, 300},
		{"inside tolerance passes through", 700, 700},
		{"beyond tolerance clamps to limit", 721, 600},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.clampElapsed(round, tt.elapsed); got != tt.want {
				t.Errorf("clampElapsed(%d) = %d, want %d", tt.elapsed, got, tt.want)
			}
		})
	}
}

func TestSubmitPropagatesWriterError(t *testing.T) {
	round := activeRound(1)
	writer := &fakeBatchWriter{err: errors.New("deadlock detected")}
	svc := newTestGradingService(t, newFakeRoundStore(round), &fakeQuestionStore{}, writer)

	err := svc.Submit(context.Background(), 1, &model.SubmitRequest{RoundID: round.ID})
	if err == nil {
		t.Fatal("Submit should surface a persistence failure")
	}
}
