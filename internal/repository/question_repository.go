package repository

import (
	"context"

	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// QuestionRepository handles question data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `id, round_id, question_type, prompt, options, canonical_answer, created_at, updated_at`

func scanQuestion(row interface{ Scan(...any) error }) (*model.Question, error) {
	q := &model.Question{}
	err := row.Scan(&q.ID, &q.RoundID, &q.QuestionType, &q.Prompt, &q.Options,
		&q.CanonicalAnswer, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// GetByID retrieves a question by its UUID.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	return scanQuestion(r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id))
}

// ListByRound retrieves all questions belonging to a round.
func (r *QuestionRepository) ListByRound(ctx context.Context, roundID uuid.UUID) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE round_id = $1 ORDER BY created_at ASC`,
		roundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// Create inserts a new question for a round.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (round_id, question_type, prompt, options, canonical_answer)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		q.RoundID, q.QuestionType, q.Prompt, q.Options, q.CanonicalAnswer,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

// Update modifies prompt, options, and canonical answer of a question.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`UPDATE questions
		 SET prompt = $1, options = $2, canonical_answer = $3, updated_at = NOW()
		 WHERE id = $4
		 RETURNING updated_at`,
		q.Prompt, q.Options, q.CanonicalAnswer, q.ID,
	).Scan(&q.UpdatedAt)
}

// Delete removes a question.
func (r *QuestionRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
