package model

import (
	"time"

	"github.com/google/uuid"
)

// Correctness is the tri-state grading result of a submission.
// PENDING marks answers awaiting manual review; it is never a nullable bool.
type Correctness string

const (
	CorrectnessPending   Correctness = "PENDING"
	CorrectnessCorrect   Correctness = "CORRECT"
	CorrectnessIncorrect Correctness = "INCORRECT"
)

// Resolved reports whether the correctness has a definite value.
func (c Correctness) Resolved() bool {
	return c == CorrectnessCorrect || c == CorrectnessIncorrect
}

// Submission is one participant's answer to one question within one round.
// Unique per (participant, question, round); a resubmission overwrites.
type Submission struct {
	ID             uuid.UUID   `json:"id"`
	ParticipantID  int         `json:"participant_id"`
	RoundID        uuid.UUID   `json:"round_id"`
	QuestionID     uuid.UUID   `json:"question_id"`
	AnswerText     string      `json:"answer_text"`
	Correctness    Correctness `json:"correctness"`
	AutoGraded     bool        `json:"auto_graded"`
	ElapsedSeconds int         `json:"elapsed_seconds"`
	SubmittedAt    time.Time   `json:"submitted_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// SubmitAnswer is a single answer inside a submit request.
type SubmitAnswer struct {
	QuestionID uuid.UUID `json:"question_id" binding:"required"`
	AnswerText string    `json:"answer_text"`
}

// SubmitRequest is the payload ending a test session.
type SubmitRequest struct {
	RoundID        uuid.UUID      `json:"round_id" binding:"required"`
	ElapsedSeconds int            `json:"elapsed_seconds" binding:"min=0"`
	Answers        []SubmitAnswer `json:"answers" binding:"required,dive"`
}

// ValidateSubmissionRequest is the manual-review payload resolving a
// pending submission to a definite correctness.
type ValidateSubmissionRequest struct {
	Correct *bool `json:"correct" binding:"required"`
}

// PendingSubmission is a submission awaiting manual review, joined with
// the context a reviewer needs.
type PendingSubmission struct {
	Submission
	ParticipantName  string `json:"participant_name"`
	ParticipantEmail string `json:"participant_email"`
	RoundName        string `json:"round_name"`
	Prompt           string `json:"prompt"`
	CanonicalAnswer  string `json:"canonical_answer"`
}

// ValidationStats summarizes manual-review progress.
type ValidationStats struct {
	Total     int64 `json:"total_submissions"`
	Pending   int64 `json:"pending_validation"`
	Validated int64 `json:"validated"`
	Correct   int64 `json:"correct_submissions"`
	Incorrect int64 `json:"incorrect_submissions"`
}
