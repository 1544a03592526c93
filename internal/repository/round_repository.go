package repository

import (
	"context"
	"errors"

	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrRoundHasHistory is returned when deleting a round that still has
// sessions or submissions attached.
var ErrRoundHasHistory = errors.New("round has recorded sessions or submissions")

// RoundRepository handles round data access.
type RoundRepository struct {
	pool *pgxpool.Pool
}

// NewRoundRepository creates a new RoundRepository.
func NewRoundRepository(pool *pgxpool.Pool) *RoundRepository {
	return &RoundRepository{pool: pool}
}

const roundColumns = `id, seq, name, time_limit_minutes, is_active, created_at, updated_at`

func scanRound(row interface{ Scan(...any) error }) (*model.Round, error) {
	rd := &model.Round{}
	err := row.Scan(&rd.ID, &rd.Seq, &rd.Name, &rd.TimeLimitMinutes, &rd.IsActive,
		&rd.CreatedAt, &rd.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return rd, nil
}

// GetByID retrieves a round by its UUID.
func (r *RoundRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Round, error) {
	return scanRound(r.pool.QueryRow(ctx,
		`SELECT `+roundColumns+` FROM rounds WHERE id = $1`, id))
}

// List retrieves all rounds ordered by sequence number ascending.
func (r *RoundRepository) List(ctx context.Context) ([]model.Round, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+roundColumns+` FROM rounds ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds []model.Round
	for rows.Next() {
		rd, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, *rd)
	}
	return rounds, rows.Err()
}

// ListActive retrieves every round currently flagged active. The service
// layer treats anything other than exactly one row as a system fault.
func (r *RoundRepository) ListActive(ctx context.Context) ([]model.Round, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+roundColumns+` FROM rounds WHERE is_active = TRUE ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds []model.Round
	for rows.Next() {
		rd, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, *rd)
	}
	return rounds, rows.Err()
}

// Create inserts a new inactive round with the next sequence number.
// Sequence assignment and insert happen in one transaction so two
// concurrent creates cannot collide.
func (r *RoundRepository) Create(ctx context.Context, rd *model.Round) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM rounds`).Scan(&rd.Seq); err != nil {
		return err
	}

	if err := tx.QueryRow(ctx,
		`INSERT INTO rounds (seq, name, time_limit_minutes, is_active)
		 VALUES ($1, $2, $3, FALSE)
		 RETURNING id, is_active, created_at, updated_at`,
		rd.Seq, rd.Name, rd.TimeLimitMinutes,
	).Scan(&rd.ID, &rd.IsActive, &rd.CreatedAt, &rd.UpdatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Activate flips the target round active and every other round inactive in
// a single statement inside one transaction. There is no instant at which
// two rounds are active or the switch is half-applied.
// Returns pgx.ErrNoRows if the round does not exist.
func (r *RoundRepository) Activate(ctx context.Context, id uuid.UUID) (*model.Round, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM rounds WHERE id = $1)`, id).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, pgx.ErrNoRows
	}

	if _, err := tx.Exec(ctx,
		`UPDATE rounds SET is_active = (id = $1), updated_at = NOW()
		 WHERE is_active <> (id = $1)`, id); err != nil {
		return nil, err
	}

	rd, err := scanRound(tx.QueryRow(ctx,
		`SELECT `+roundColumns+` FROM rounds WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rd, nil
}

// Deactivate clears the active flag on one round.
func (r *RoundRepository) Deactivate(ctx context.Context, id uuid.UUID) (*model.Round, error) {
	return scanRound(r.pool.QueryRow(ctx,
		`UPDATE rounds SET is_active = FALSE, updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+roundColumns, id))
}

// UpdateTimeLimit changes a round's time limit in minutes.
func (r *RoundRepository) UpdateTimeLimit(ctx context.Context, id uuid.UUID, minutes int) (*model.Round, error) {
	return scanRound(r.pool.QueryRow(ctx,
		`UPDATE rounds SET time_limit_minutes = $1, updated_at = NOW()
		 WHERE id = $2
		 RETURNING `+roundColumns, minutes, id))
}

// Delete removes a round. Fails with ErrRoundHasHistory when sessions or
// submissions reference it; the existence checks and the delete share one
// transaction so a concurrent submit cannot slip in between.
func (r *RoundRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var hasHistory bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM submissions WHERE round_id = $1)
		     OR EXISTS (SELECT 1 FROM test_sessions WHERE round_id = $1)`, id).
		Scan(&hasHistory); err != nil {
		return err
	}
	if hasHistory {
		return ErrRoundHasHistory
	}

	tag, err := tx.Exec(ctx, `DELETE FROM rounds WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}
