package repository

import (
	"context"

	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ParticipantRepository handles participant data access.
type ParticipantRepository struct {
	pool *pgxpool.Pool
}

// NewParticipantRepository creates a new ParticipantRepository.
func NewParticipantRepository(pool *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{pool: pool}
}

const participantColumns = `id, name, university, branch, semester, section, email,
	password_hash, is_active, in_session, current_round, created_at, updated_at`

func scanParticipant(row interface{ Scan(...any) error }) (*model.Participant, error) {
	p := &model.Participant{}
	err := row.Scan(&p.ID, &p.Name, &p.University, &p.Branch, &p.Semester, &p.Section,
		&p.Email, &p.PasswordHash, &p.IsActive, &p.InSession, &p.CurrentRound,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID retrieves a participant by ID.
func (r *ParticipantRepository) GetByID(ctx context.Context, id int) (*model.Participant, error) {
	return scanParticipant(r.pool.QueryRow(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE id = $1`, id))
}

// GetByEmail retrieves a participant by email.
func (r *ParticipantRepository) GetByEmail(ctx context.Context, email string) (*model.Participant, error) {
	return scanParticipant(r.pool.QueryRow(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE email = $1`, email))
}

// Create inserts a new participant. New accounts start inactive in round 0
// until an operator activates and promotes them.
func (r *ParticipantRepository) Create(ctx context.Context, p *model.Participant) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO participants (name, university, branch, semester, section, email, password_hash)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, is_active, in_session, current_round, created_at, updated_at`,
		p.Name, p.University, p.Branch, p.Semester, p.Section, p.Email, p.PasswordHash,
	).Scan(&p.ID, &p.IsActive, &p.InSession, &p.CurrentRound, &p.CreatedAt, &p.UpdatedAt)
}

// List retrieves all participants ordered by name.
func (r *ParticipantRepository) List(ctx context.Context) ([]model.Participant, error) {
	return r.queryMany(ctx, `SELECT `+participantColumns+` FROM participants ORDER BY name ASC`)
}

// ListByRound retrieves participants currently assigned to a round sequence.
func (r *ParticipantRepository) ListByRound(ctx context.Context, roundSeq int) ([]model.Participant, error) {
	return r.queryMany(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE current_round = $1 ORDER BY name ASC`,
		roundSeq)
}

func (r *ParticipantRepository) queryMany(ctx context.Context, query string, args ...any) ([]model.Participant, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var participants []model.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, err
		}
		participants = append(participants, *p)
	}
	return participants, rows.Err()
}

// SetActive flips the participant's active flag.
func (r *ParticipantRepository) SetActive(ctx context.Context, id int, active bool) (*model.Participant, error) {
	return scanParticipant(r.pool.QueryRow(ctx,
		`UPDATE participants SET is_active = $1, updated_at = NOW()
		 WHERE id = $2
		 RETURNING `+participantColumns, active, id))
}

// AdjustRound moves the participant's current round by delta (promote +1,
// depromote -1). The caller enforces lower bounds.
func (r *ParticipantRepository) AdjustRound(ctx context.Context, id, delta int) (*model.Participant, error) {
	return scanParticipant(r.pool.QueryRow(ctx,
		`UPDATE participants SET current_round = current_round + $1, updated_at = NOW()
		 WHERE id = $2
		 RETURNING `+participantColumns, delta, id))
}

// ClaimSession atomically sets in_session=true if it was false.
// Returns false when the flag was already set — the participant is
// mid-session and a second login must not succeed.
func (r *ParticipantRepository) ClaimSession(ctx context.Context, id int) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE participants SET in_session = TRUE, updated_at = NOW()
		 WHERE id = $1 AND in_session = FALSE`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ReleaseSession clears the in_session flag unconditionally.
func (r *ParticipantRepository) ReleaseSession(ctx context.Context, id int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE participants SET in_session = FALSE, updated_at = NOW() WHERE id = $1`, id)
	return err
}

// Delete removes a participant by email (operator correction of a bad signup).
func (r *ParticipantRepository) Delete(ctx context.Context, email string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM participants WHERE email = $1`, email)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
