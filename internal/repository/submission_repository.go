package repository

import (
	"context"

	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GradedAnswer is one already-graded answer ready for persistence.
type GradedAnswer struct {
	QuestionID  uuid.UUID
	AnswerText  string
	Correctness model.Correctness
	AutoGraded  bool
}

// RoundResult is one participant's aggregate for a round.
type RoundResult struct {
	ParticipantID  int     `json:"participant_id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	CorrectAnswers int     `json:"correct_answers"`
	TotalQuestions int     `json:"total_questions"`
	Score          float64 `json:"score"`
	TotalPossible  float64 `json:"total_marks_possible"`
}

// SubmissionRepository handles submission data access.
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository.
func NewSubmissionRepository(pool *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{pool: pool}
}

// PersistGradedBatch writes a whole submission batch and ends the session
// as one all-or-nothing unit:
//
//  1. upsert every answer keyed by (participant, question, round) — a
//     retry of the same batch lands on the same rows, never duplicates;
//  2. close the participant's ACTIVE test session as SUBMITTED;
//  3. clear the participant's in_session flag.
//
// Any error rolls the entire transaction back, leaving neither partial
// submissions nor a stuck session flag.
func (r *SubmissionRepository) PersistGradedBatch(
	ctx context.Context,
	participantID int,
	roundID uuid.UUID,
	elapsedSeconds int,
	answers []GradedAnswer,
) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, a := range answers {
		batch.Queue(
			`INSERT INTO submissions
			   (participant_id, round_id, question_id, answer_text, correctness, auto_graded, elapsed_seconds)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)
			 ON CONFLICT (participant_id, question_id, round_id) DO UPDATE
			 SET answer_text = EXCLUDED.answer_text,
			     correctness = EXCLUDED.correctness,
			     auto_graded = EXCLUDED.auto_graded,
			     elapsed_seconds = EXCLUDED.elapsed_seconds,
			     updated_at = NOW()`,
			participantID, roundID, a.QuestionID, a.AnswerText, a.Correctness, a.AutoGraded, elapsedSeconds,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range answers {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return err
		}
	}
	if err := br.Close(); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE test_sessions
		 SET status = $1, ended_at = NOW(), elapsed_seconds = $2
		 WHERE participant_id = $3 AND round_id = $4 AND status = $5`,
		model.SessionStatusSubmitted, elapsedSeconds, participantID, roundID,
		model.SessionStatusActive); err != nil {
		return err
	}

	// Unconditional: the participant must never stay locked out, even if
	// the session row was already closed by an operator reset.
	if _, err := tx.Exec(ctx,
		`UPDATE participants SET in_session = FALSE, updated_at = NOW() WHERE id = $1`,
		participantID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListPending retrieves submissions awaiting manual review, joined with
// participant, round, and question context.
func (r *SubmissionRepository) ListPending(ctx context.Context) ([]model.PendingSubmission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT s.id, s.participant_id, s.round_id, s.question_id, s.answer_text,
		        s.correctness, s.auto_graded, s.elapsed_seconds, s.submitted_at, s.updated_at,
		        p.name, p.email, r.name, q.prompt, q.canonical_answer
		 FROM submissions s
		 JOIN participants p ON s.participant_id = p.id
		 JOIN rounds r ON s.round_id = r.id
		 JOIN questions q ON s.question_id = q.id
		 WHERE s.correctness = $1
		 ORDER BY s.submitted_at ASC`, model.CorrectnessPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pending []model.PendingSubmission
	for rows.Next() {
		var ps model.PendingSubmission
		if err := rows.Scan(&ps.ID, &ps.ParticipantID, &ps.RoundID, &ps.QuestionID,
			&ps.AnswerText, &ps.Correctness, &ps.AutoGraded, &ps.ElapsedSeconds,
			&ps.SubmittedAt, &ps.UpdatedAt,
			&ps.ParticipantName, &ps.ParticipantEmail, &ps.RoundName,
			&ps.Prompt, &ps.CanonicalAnswer); err != nil {
			return nil, err
		}
		pending = append(pending, ps)
	}
	return pending, rows.Err()
}

// Resolve moves a PENDING submission to a definite correctness. Returns
// false when the submission exists but is already resolved.
func (r *SubmissionRepository) Resolve(ctx context.Context, id uuid.UUID, correctness model.Correctness) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE submissions SET correctness = $1, updated_at = NOW()
		 WHERE id = $2 AND correctness = $3`,
		correctness, id, model.CorrectnessPending)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Exists reports whether a submission with the given ID exists at all.
func (r *SubmissionRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM submissions WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// Stats returns aggregate manual-review counters.
func (r *SubmissionRepository) Stats(ctx context.Context) (*model.ValidationStats, error) {
	st := &model.ValidationStats{}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE correctness = $1),
		        COUNT(*) FILTER (WHERE correctness = $2),
		        COUNT(*) FILTER (WHERE correctness = $3)
		 FROM submissions`,
		model.CorrectnessPending, model.CorrectnessCorrect, model.CorrectnessIncorrect,
	).Scan(&st.Total, &st.Pending, &st.Correct, &st.Incorrect)
	if err != nil {
		return nil, err
	}
	st.Validated = st.Total - st.Pending
	return st, nil
}

// RoundResults aggregates per-participant correct counts for a round and
// applies the configured per-question weight.
func (r *SubmissionRepository) RoundResults(ctx context.Context, roundID uuid.UUID, questionWeight float64) ([]RoundResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.id, p.name, p.email,
		        COUNT(*) FILTER (WHERE s.correctness = $2) AS correct_answers,
		        COUNT(*) AS total_questions
		 FROM submissions s
		 JOIN participants p ON s.participant_id = p.id
		 WHERE s.round_id = $1
		 GROUP BY p.id, p.name, p.email
		 ORDER BY correct_answers DESC, p.name ASC`,
		roundID, model.CorrectnessCorrect)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []RoundResult
	for rows.Next() {
		var res RoundResult
		if err := rows.Scan(&res.ParticipantID, &res.Name, &res.Email,
			&res.CorrectAnswers, &res.TotalQuestions); err != nil {
			return nil, err
		}
		res.Score = float64(res.CorrectAnswers) * questionWeight
		res.TotalPossible = float64(res.TotalQuestions) * questionWeight
		results = append(results, res)
	}
	return results, rows.Err()
}
