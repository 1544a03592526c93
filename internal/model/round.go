package model

import (
	"time"

	"github.com/google/uuid"
)

// Round represents one timed phase of the contest.
// Invariant: at most one round has IsActive=true at any instant.
type Round struct {
	ID               uuid.UUID `json:"id"`
	Seq              int       `json:"seq"`
	Name             string    `json:"name"`
	TimeLimitMinutes int       `json:"time_limit_minutes"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CreateRoundRequest is the payload for creating a new round.
// The sequence number is assigned server-side (highest existing + 1).
type CreateRoundRequest struct {
	Name             string `json:"name" binding:"required,min=2,max=100"`
	TimeLimitMinutes int    `json:"time_limit_minutes" binding:"required,min=1,max=480"`
}

// UpdateTimeLimitRequest is the payload for changing a round's time limit.
type UpdateTimeLimitRequest struct {
	TimeLimitMinutes int `json:"time_limit_minutes" binding:"required,min=1,max=480"`
}
