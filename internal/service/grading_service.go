package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/arenalabs/quizarena-backend/internal/config"
	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/arenalabs/quizarena-backend/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// Grading errors.
var (
	ErrRoundNotFound  = errors.New("round not found")
	ErrRoundNotActive = errors.New("round is not active")
)

// GradingRoundStore looks up the round being submitted against.
type GradingRoundStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Round, error)
}

// GradingQuestionStore loads the answer key for a round.
type GradingQuestionStore interface {
	ListByRound(ctx context.Context, roundID uuid.UUID) ([]model.Question, error)
}

// GradedBatchWriter persists a graded batch, closes the session, and
// clears the participant's in_session flag in one transaction.
type GradedBatchWriter interface {
	PersistGradedBatch(ctx context.Context, participantID int, roundID uuid.UUID, elapsedSeconds int, answers []repository.GradedAnswer) error
}

// GradingService grades submitted answers and ends the test session.
type GradingService struct {
	cfg       *config.Config
	rounds    GradingRoundStore
	questions GradingQuestionStore
	writer    GradedBatchWriter
	events    *EventPublisher
}

// NewGradingService creates a new GradingService.
func NewGradingService(
	cfg *config.Config,
	rounds GradingRoundStore,
	questions GradingQuestionStore,
	writer GradedBatchWriter,
	events *EventPublisher,
) *GradingService {
	return &GradingService{
		cfg:       cfg,
		rounds:    rounds,
		questions: questions,
		writer:    writer,
		events:    events,
	}
}

// Submit grades the whole answer batch and persists it atomically. The
// round must still be active at submit time; answers referencing unknown
// questions are dropped rather than failing the batch. An empty batch is
// valid — an auto-submit after repeated focus violations may carry no
// answers but must still end the session.
func (s *GradingService) Submit(ctx context.Context, participantID int, req *model.SubmitRequest) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SubmitTimeout)
	defer cancel()

	round, err := s.rounds.GetByID(ctx, req.RoundID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrRoundNotFound
		}
		return fmt.Errorf("get round: %w", err)
	}
	if !round.IsActive {
		return ErrRoundNotActive
	}

	questions, err := s.questions.ListByRound(ctx, round.ID)
	if err != nil {
		return fmt.Errorf("list round questions: %w", err)
	}
	byID := make(map[uuid.UUID]*model.Question, len(questions))
	for i := range questions {
		byID[questions[i].ID] = &questions[i]
	}

	graded := make([]repository.GradedAnswer, 0, len(req.Answers))
	for _, answer := range req.Answers {
		question, ok := byID[answer.QuestionID]
		if !ok {
			log.Warn().
				Str("question_id", answer.QuestionID.String()).
				Int("participant_id", participantID).
				Msg("Dropping answer for question not in round")
			continue
		}
		correctness, autoGraded := gradeAnswer(question, answer.AnswerText)
		graded = append(graded, repository.GradedAnswer{
			QuestionID:  question.ID,
			AnswerText:  answer.AnswerText,
			Correctness: correctness,
			AutoGraded:  autoGraded,
		})
	}

	elapsed := s.clampElapsed(round, req.ElapsedSeconds)

	if err := s.writer.PersistGradedBatch(ctx, participantID, round.ID, elapsed, graded); err != nil {
		return fmt.Errorf("persist graded batch: %w", err)
	}

	s.events.Publish(ctx, model.SessionEventSubmitted, participantID, round.ID, round.Seq)
	return nil
}

// gradeAnswer grades one answer against its question. Auto-gradable types
// compare trimmed, case-insensitive; free text stays PENDING for manual
// review. A blank answer to an auto-gradable question is simply wrong.
func gradeAnswer(q *model.Question, answerText string) (model.Correctness, bool) {
	if !q.QuestionType.AutoGradable() {
		return model.CorrectnessPending, false
	}
	if strings.EqualFold(strings.TrimSpace(answerText), strings.TrimSpace(q.CanonicalAnswer)) {
		return model.CorrectnessCorrect, true
	}
	return model.CorrectnessIncorrect, true
}

// clampElapsed bounds the client-reported elapsed time. Clients report
// from a local timer that survives reloads; a value past the limit plus
// tolerance is untrusted and clamped to the limit itself.
func (s *GradingService) clampElapsed(round *model.Round, elapsed int) int {
	limit := round.TimeLimitMinutes * 60
	if elapsed < 0 {
		return 0
	}
	if elapsed > limit+s.cfg.ElapsedToleranceSeconds {
		return limit
	}
	return elapsed
}
