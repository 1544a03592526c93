package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/jackc/pgx/v5"
)

// Participant management errors.
var (
	ErrEmailRegistered   = errors.New("email already registered")
	ErrAlreadyFirstRound = errors.New("participant is already in the first round")
)

// ParticipantStore is the full participant data access for operator flows.
type ParticipantStore interface {
	GetByID(ctx context.Context, id int) (*model.Participant, error)
	GetByEmail(ctx context.Context, email string) (*model.Participant, error)
	Create(ctx context.Context, p *model.Participant) error
	List(ctx context.Context) ([]model.Participant, error)
	ListByRound(ctx context.Context, roundSeq int) ([]model.Participant, error)
	SetActive(ctx context.Context, id int, active bool) (*model.Participant, error)
	AdjustRound(ctx context.Context, id, delta int) (*model.Participant, error)
	Delete(ctx context.Context, email string) (bool, error)
}

// PasswordHasher hashes registration passwords.
type PasswordHasher interface {
	HashPassword(password string) (string, error)
}

// ParticipantService manages participant accounts and round assignment.
type ParticipantService struct {
	participants ParticipantStore
	hasher       PasswordHasher
}

// NewParticipantService creates a new ParticipantService.
func NewParticipantService(participants ParticipantStore, hasher PasswordHasher) *ParticipantService {
	return &ParticipantService{participants: participants, hasher: hasher}
}

// Register creates a new participant account. New accounts start inactive
// in round 0; an operator activates and promotes them into round 1.
func (s *ParticipantService) Register(ctx context.Context, req *model.RegisterParticipantRequest) (*model.Participant, error) {
	if _, err := s.participants.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailRegistered
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	participant := &model.Participant{
		Name:         req.Name,
		University:   req.University,
		Branch:       req.Branch,
		Semester:     req.Semester,
		Section:      req.Section,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.participants.Create(ctx, participant); err != nil {
		return nil, fmt.Errorf("create participant: %w", err)
	}
	return participant, nil
}

// GetByID retrieves one participant.
func (s *ParticipantService) GetByID(ctx context.Context, id int) (*model.Participant, error) {
	participant, err := s.participants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}
	return participant, nil
}

// GetByEmail retrieves one participant by email.
func (s *ParticipantService) GetByEmail(ctx context.Context, email string) (*model.Participant, error) {
	participant, err := s.participants.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}
	return participant, nil
}

// List returns all participants.
func (s *ParticipantService) List(ctx context.Context) ([]model.Participant, error) {
	return s.participants.List(ctx)
}

// ListByRound returns participants assigned to a round sequence.
func (s *ParticipantService) ListByRound(ctx context.Context, roundSeq int) ([]model.Participant, error) {
	return s.participants.ListByRound(ctx, roundSeq)
}

// Promote advances the participant to the next round.
func (s *ParticipantService) Promote(ctx context.Context, id int) (*model.Participant, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	participant, err := s.participants.AdjustRound(ctx, id, 1)
	if err != nil {
		return nil, fmt.Errorf("promote participant: %w", err)
	}
	return participant, nil
}

// Depromote moves the participant back one round, never below round 1.
func (s *ParticipantService) Depromote(ctx context.Context, id int) (*model.Participant, error) {
	participant, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if participant.CurrentRound <= 1 {
		return nil, ErrAlreadyFirstRound
	}
	participant, err = s.participants.AdjustRound(ctx, id, -1)
	if err != nil {
		return nil, fmt.Errorf("depromote participant: %w", err)
	}
	return participant, nil
}

// SetActive flips a participant's active flag.
func (s *ParticipantService) SetActive(ctx context.Context, id int, active bool) (*model.Participant, error) {
	participant, err := s.participants.SetActive(ctx, id, active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("set participant active: %w", err)
	}
	return participant, nil
}

// Remove deletes a participant account by email.
func (s *ParticipantService) Remove(ctx context.Context, email string) error {
	deleted, err := s.participants.Delete(ctx, email)
	if err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	if !deleted {
		return ErrParticipantNotFound
	}
	return nil
}
