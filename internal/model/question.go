package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// QuestionType enumerates the gradable question kinds.
type QuestionType string

const (
	// QuestionTypeSingleSelect is auto-graded against one canonical option.
	QuestionTypeSingleSelect QuestionType = "SINGLE_SELECT"
	// QuestionTypeTrueFalse is auto-graded as a boolean answer.
	QuestionTypeTrueFalse QuestionType = "TRUE_FALSE"
	// QuestionTypeFreeText is deferred to manual review.
	QuestionTypeFreeText QuestionType = "FREE_TEXT"
)

// AutoGradable reports whether the type is graded by string comparison.
func (t QuestionType) AutoGradable() bool {
	return t == QuestionTypeSingleSelect || t == QuestionTypeTrueFalse
}

// Question represents a gradable item bound to a round.
type Question struct {
	ID              uuid.UUID       `json:"id"`
	RoundID         uuid.UUID       `json:"round_id"`
	QuestionType    QuestionType    `json:"question_type"`
	Prompt          string          `json:"prompt"`
	Options         json.RawMessage `json:"options,omitempty"` // single-select only
	CanonicalAnswer string          `json:"canonical_answer,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// QuestionForParticipant is a question with the canonical answer stripped,
// safe to transmit to the client.
type QuestionForParticipant struct {
	ID           uuid.UUID       `json:"id"`
	QuestionType QuestionType    `json:"question_type"`
	Prompt       string          `json:"prompt"`
	Options      json.RawMessage `json:"options,omitempty"`
}

// RoundPayload is the cached payload served at session start.
type RoundPayload struct {
	RoundID          uuid.UUID                `json:"round_id"`
	Seq              int                      `json:"seq"`
	Name             string                   `json:"name"`
	TimeLimitMinutes int                      `json:"time_limit_minutes"`
	Questions        []QuestionForParticipant `json:"questions"`
}

// CreateQuestionRequest is the payload for adding a question to a round.
type CreateQuestionRequest struct {
	QuestionType    QuestionType `json:"question_type" binding:"required,oneof=SINGLE_SELECT TRUE_FALSE FREE_TEXT"`
	Prompt          string       `json:"prompt" binding:"required,min=3"`
	Options         []string     `json:"options" binding:"omitempty,min=2,dive,required"`
	CanonicalAnswer string       `json:"canonical_answer" binding:"required"`
}

// UpdateQuestionRequest is the payload for editing an existing question.
type UpdateQuestionRequest struct {
	Prompt          string   `json:"prompt" binding:"omitempty,min=3"`
	Options         []string `json:"options" binding:"omitempty,min=2,dive,required"`
	CanonicalAnswer string   `json:"canonical_answer" binding:"omitempty"`
}
