package service

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/arenalabs/quizarena-backend/internal/config"
	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func activeRound(seq int) *model.Round {
	return &model.Round{
		ID:               uuid.New(),
		Seq:              seq,
		Name:             "Prelims",
		TimeLimitMinutes: 30,
		IsActive:         true,
	}
}

func eligibleParticipant(id, round int) *model.Participant {
	return &model.Participant{
		ID:           id,
		Name:         "Test Participant",
		Email:        "p@example.com",
		IsActive:     true,
		CurrentRound: round,
	}
}

func newTestSessionService(t *testing.T, participants *fakeParticipantStore, rounds *fakeRoundStore, questions *fakeQuestionStore, sessions *fakeSessionRecordStore) (*SessionService, *redis.Client) {
	t.Helper()
	rdb := testRedis(t)
	return NewSessionService(participants, rounds, questions, sessions, rdb, NewEventPublisher(rdb)), rdb
}

func TestStartSessionDeniesInOrder(t *testing.T) {
	round := activeRound(2)

	tests := []struct {
		name        string
		participant *model.Participant
		rounds      *fakeRoundStore
		wantErr     error
	}{
		{
			name:        "inactive account",
			participant: &model.Participant{ID: 1, IsActive: false, CurrentRound: 2},
			rounds:      newFakeRoundStore(round),
			wantErr:     ErrParticipantInactive,
		},
		{
			name:        "already in session",
			participant: &model.Participant{ID: 1, IsActive: true, InSession: true, CurrentRound: 2},
			rounds:      newFakeRoundStore(round),
			wantErr:     ErrAlreadyInSession,
		},
		{
			name:        "no active round",
			participant: eligibleParticipant(1, 2),
			rounds:      newFakeRoundStore(),
			wantErr:     ErrNoActiveRound,
		},
		{
			name:        "wrong round assignment",
			participant: eligibleParticipant(1, 1),
			rounds:      newFakeRoundStore(round),
			wantErr:     ErrNotEligible,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestSessionService(t,
				newFakeParticipantStore(tt.participant),
				tt.rounds,
				&fakeQuestionStore{},
				&fakeSessionRecordStore{},
			)

			_, err := svc.StartSession(context.Background(), 1)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("StartSession error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestStartSessionUnknownParticipant(t *testing.T) {
	svc, _ := newTestSessionService(t,
		newFakeParticipantStore(),
		newFakeRoundStore(activeRound(1)),
		&fakeQuestionStore{},
		&fakeSessionRecordStore{},
	)

	if _, err := svc.StartSession(context.Background(), 42); !errors.Is(err, ErrParticipantNotFound) {
		t.Fatalf("StartSession error = %v, want ErrParticipantNotFound", err)
	}
}

func TestStartSessionStripsAnswersAndClaims(t *testing.T) {
	round := activeRound(1)
	participants := newFakeParticipantStore(eligibleParticipant(1, 1))
	questions := &fakeQuestionStore{byRound: map[uuid.UUID][]model.Question{
		round.ID: {
			{ID: uuid.New(), RoundID: round.ID, QuestionType: model.QuestionTypeSingleSelect, Prompt: "2+2?", CanonicalAnswer: "4"},
			{ID: uuid.New(), RoundID: round.ID, QuestionType: model.QuestionTypeFreeText, Prompt: "Explain.", CanonicalAnswer: "secret rubric"},
		},
	}}
	sessions := &fakeSessionRecordStore{}

	svc, rdb := newTestSessionService(t, participants, newFakeRoundStore(round), questions, sessions)

	payload, err := svc.StartSession(context.Background(), 1)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	if payload.RoundID != round.ID || len(payload.Questions) != 2 {
		t.Fatalf("unexpected payload: %+v", payload)
	}
	if payload.TimeLimitMinutes != 30 {
		t.Errorf("TimeLimitMinutes = %d, want 30", payload.TimeLimitMinutes)
	}

	p := participants.participants[1]
	if !p.InSession {
		t.Error("participant was not claimed")
	}
	if len(sessions.created) != 1 {
		t.Fatalf("created %d session records, want 1", len(sessions.created))
	}
	if sessions.created[0].RoundID != round.ID {
		t.Errorf("session round = %v, want %v", sessions.created[0].RoundID, round.ID)
	}

	queued, err := rdb.LLen(context.Background(), config.WorkerKey.SessionEventsQueue).Result()
	if err != nil || queued != 1 {
		t.Errorf("queued events = %d (err %v), want 1", queued, err)
	}
}

func TestStartSessionSecondStartRejected(t *testing.T) {
	round := activeRound(1)
	participants := newFakeParticipantStore(eligibleParticipant(1, 1))
	svc, _ := newTestSessionService(t, participants, newFakeRoundStore(round), &fakeQuestionStore{}, &fakeSessionRecordStore{})

	if _, err := svc.StartSession(context.Background(), 1); err != nil {
		t.Fatalf("first StartSession failed: %v", err)
	}
	if _, err := svc.StartSession(context.Background(), 1); !errors.Is(err, ErrAlreadyInSession) {
		t.Fatalf("second StartSession error = %v, want ErrAlreadyInSession", err)
	}
}

func TestStartSessionReleasesClaimOnRecordFailure(t *testing.T) {
	round := activeRound(1)
	participants := newFakeParticipantStore(eligibleParticipant(1, 1))
	sessions := &fakeSessionRecordStore{createErr: errors.New("insert failed")}

	svc, _ := newTestSessionService(t, participants, newFakeRoundStore(round), &fakeQuestionStore{}, sessions)

	if _, err := svc.StartSession(context.Background(), 1); err == nil {
		t.Fatal("StartSession should fail when the session record cannot be created")
	}
	if participants.participants[1].InSession {
		t.Error("claim was not released after create failure")
	}
}

func TestStartSessionReleasesClaimOnPayloadFailure(t *testing.T) {
	round := activeRound(1)
	participants := newFakeParticipantStore(eligibleParticipant(1, 1))
	sessions := &fakeSessionRecordStore{}
	questions := &fakeQuestionStore{listErr: errors.New("db down")}

	svc, _ := newTestSessionService(t, participants, newFakeRoundStore(round), questions, sessions)

	if _, err := svc.StartSession(context.Background(), 1); err == nil {
		t.Fatal("StartSession should fail when the payload cannot be loaded")
	}
	if participants.participants[1].InSession {
		t.Error("claim was not released after payload failure")
	}
	if len(sessions.closed) != 1 || sessions.closed[0] != model.SessionStatusReleased {
		t.Errorf("closed statuses = %v, want [RELEASED]", sessions.closed)
	}
}

func TestStartSessionServesCachedPayload(t *testing.T) {
	round := activeRound(1)
	participants := newFakeParticipantStore(eligibleParticipant(1, 1))
	questions := &fakeQuestionStore{byRound: map[uuid.UUID][]model.Question{
		round.ID: {{ID: uuid.New(), RoundID: round.ID, QuestionType: model.QuestionTypeTrueFalse, Prompt: "Go has generics."}},
	}}

	svc, _ := newTestSessionService(t, participants, newFakeRoundStore(round), questions, &fakeSessionRecordStore{})

	if err := svc.PrewarmActiveRound(context.Background()); err != nil {
		t.Fatalf("PrewarmActiveRound failed: %v", err)
	}

	// Remove the backing questions: a cache hit must still serve the
	// prewarmed payload.
	questions.byRound = map[uuid.UUID][]model.Question{}

	payload, err := svc.StartSession(context.Background(), 1)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if len(payload.Questions) != 1 {
		t.Fatalf("payload questions = %d, want 1 from cache", len(payload.Questions))
	}
}

func TestCurrentSessionReflectsLifecycle(t *testing.T) {
	round := activeRound(1)
	participants := newFakeParticipantStore(eligibleParticipant(1, 1))
	sessions := &fakeSessionRecordStore{}
	svc, _ := newTestSessionService(t, participants, newFakeRoundStore(round), &fakeQuestionStore{}, sessions)
	ctx := context.Background()

	if _, err := svc.CurrentSession(ctx, 1); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("CurrentSession before start error = %v, want ErrNoActiveSession", err)
	}

	if _, err := svc.StartSession(ctx, 1); err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}

	session, err := svc.CurrentSession(ctx, 1)
	if err != nil {
		t.Fatalf("CurrentSession failed: %v", err)
	}
	if session.RoundID != round.ID {
		t.Errorf("session round = %v, want %v", session.RoundID, round.ID)
	}
}

func TestReleaseSessionClearsFlagAndClosesRecord(t *testing.T) {
	p := eligibleParticipant(1, 1)
	p.InSession = true
	participants := newFakeParticipantStore(p)
	sessions := &fakeSessionRecordStore{}

	svc, _ := newTestSessionService(t, participants, newFakeRoundStore(), &fakeQuestionStore{}, sessions)

	if err := svc.ReleaseSession(context.Background(), 1); err != nil {
		t.Fatalf("ReleaseSession failed: %v", err)
	}
	if participants.participants[1].InSession {
		t.Error("in_session flag not cleared")
	}
	if len(sessions.closed) != 1 || sessions.closed[0] != model.SessionStatusReleased {
		t.Errorf("closed statuses = %v, want [RELEASED]", sessions.closed)
	}

	// Idempotent for an already-free participant.
	if err := svc.ReleaseSession(context.Background(), 1); err != nil {
		t.Fatalf("second ReleaseSession failed: %v", err)
	}
}
