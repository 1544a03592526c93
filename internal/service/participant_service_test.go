package service

import (
	"context"
	"errors"
	"testing"

	"github.com/arenalabs/quizarena-backend/internal/model"
)

type plainHasher struct{}

func (plainHasher) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	store := newFakeParticipantStore(&model.Participant{ID: 1, Email: "taken@example.com"})
	svc := NewParticipantService(store, plainHasher{})

	_, err := svc.Register(context.Background(), &model.RegisterParticipantRequest{
		Name:     "Dup",
		Email:    "taken@example.com",
		Password: "secret",
	})
	if !errors.Is(err, ErrEmailRegistered) {
		t.Fatalf("Register error = %v, want ErrEmailRegistered", err)
	}
}

func TestRegisterHashesPasswordAndStartsInactive(t *testing.T) {
	store := newFakeParticipantStore()
	svc := NewParticipantService(store, plainHasher{})

	p, err := svc.Register(context.Background(), &model.RegisterParticipantRequest{
		Name:       "Amara Okafor",
		University: "State University",
		Branch:     "CSE",
		Semester:   "6",
		Section:    "A",
		Email:      "amara@example.com",
		Password:   "secret",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if p.PasswordHash != "hashed:secret" {
		t.Errorf("PasswordHash = %q, plaintext must never be stored", p.PasswordHash)
	}
	if p.IsActive || p.CurrentRound != 0 {
		t.Errorf("new account active=%t round=%d, want inactive in round 0", p.IsActive, p.CurrentRound)
	}
}

func TestPromoteAndDepromote(t *testing.T) {
	p := &model.Participant{ID: 1, Email: "p@example.com", CurrentRound: 1}
	store := newFakeParticipantStore(p)
	svc := NewParticipantService(store, plainHasher{})
	ctx := context.Background()

	promoted, err := svc.Promote(ctx, 1)
	if err != nil {
		t.Fatalf("Promote failed: %v", err)
	}
	if promoted.CurrentRound != 2 {
		t.Errorf("CurrentRound after promote = %d, want 2", promoted.CurrentRound)
	}

	demoted, err := svc.Depromote(ctx, 1)
	if err != nil {
		t.Fatalf("Depromote failed: %v", err)
	}
	if demoted.CurrentRound != 1 {
		t.Errorf("CurrentRound after depromote = %d, want 1", demoted.CurrentRound)
	}

	// Round 1 is the floor.
	if _, err := svc.Depromote(ctx, 1); !errors.Is(err, ErrAlreadyFirstRound) {
		t.Fatalf("Depromote at floor error = %v, want ErrAlreadyFirstRound", err)
	}
}

func TestPromoteUnknownParticipant(t *testing.T) {
	svc := NewParticipantService(newFakeParticipantStore(), plainHasher{})

	if _, err := svc.Promote(context.Background(), 99); !errors.Is(err, ErrParticipantNotFound) {
		t.Fatalf("Promote error = %v, want ErrParticipantNotFound", err)
	}
}

func TestRemoveParticipant(t *testing.T) {
	store := newFakeParticipantStore(&model.Participant{ID: 1, Email: "gone@example.com"})
	svc := NewParticipantService(store, plainHasher{})
	ctx := context.Background()

	if err := svc.Remove(ctx, "gone@example.com"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := svc.Remove(ctx, "gone@example.com"); !errors.Is(err, ErrParticipantNotFound) {
		t.Fatalf("second Remove error = %v, want ErrParticipantNotFound", err)
	}
}

func TestSetActiveUnknownParticipant(t *testing.T) {
	svc := NewParticipantService(newFakeParticipantStore(), plainHasher{})

	if _, err := svc.SetActive(context.Background(), 42, true); !errors.Is(err, ErrParticipantNotFound) {
		t.Fatalf("SetActive error = %v, want ErrParticipantNotFound", err)
	}
}
