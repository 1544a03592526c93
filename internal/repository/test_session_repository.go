package repository

import (
	"context"

	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TestSessionRepository handles test session audit records.
type TestSessionRepository struct {
	pool *pgxpool.Pool
}

// NewTestSessionRepository creates a new TestSessionRepository.
func NewTestSessionRepository(pool *pgxpool.Pool) *TestSessionRepository {
	return &TestSessionRepository{pool: pool}
}

// Create inserts a new ACTIVE session row for a claimed participant.
func (r *TestSessionRepository) Create(ctx context.Context, s *model.TestSession) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO test_sessions (participant_id, round_id, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, started_at`,
		s.ParticipantID, s.RoundID, model.SessionStatusActive,
	).Scan(&s.ID, &s.StartedAt)
}

// CloseActive ends the participant's ACTIVE session with the given status.
// A no-op when no active session exists.
func (r *TestSessionRepository) CloseActive(ctx context.Context, participantID int, status model.SessionStatus) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE test_sessions SET status = $1, ended_at = NOW()
		 WHERE participant_id = $2 AND status = $3`,
		status, participantID, model.SessionStatusActive)
	return err
}

// GetActiveByParticipant retrieves the participant's ACTIVE session, if any.
func (r *TestSessionRepository) GetActiveByParticipant(ctx context.Context, participantID int) (*model.TestSession, error) {
	s := &model.TestSession{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, participant_id, round_id, started_at, ended_at, status, elapsed_seconds
		 FROM test_sessions
		 WHERE participant_id = $1 AND status = $2`,
		participantID, model.SessionStatusActive,
	).Scan(&s.ID, &s.ParticipantID, &s.RoundID, &s.StartedAt, &s.EndedAt, &s.Status, &s.ElapsedSeconds)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListByRound retrieves all sessions recorded for a round, newest first.
func (r *TestSessionRepository) ListByRound(ctx context.Context, roundID uuid.UUID) ([]model.TestSession, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, participant_id, round_id, started_at, ended_at, status, elapsed_seconds
		 FROM test_sessions
		 WHERE round_id = $1
		 ORDER BY started_at DESC`, roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []model.TestSession
	for rows.Next() {
		var s model.TestSession
		if err := rows.Scan(&s.ID, &s.ParticipantID, &s.RoundID, &s.StartedAt,
			&s.EndedAt, &s.Status, &s.ElapsedSeconds); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
