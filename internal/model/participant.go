package model

import "time"

// Participant represents a registered test-taker.
type Participant struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	University   string    `json:"university"`
	Branch       string    `json:"branch"`
	Semester     string    `json:"semester"`
	Section      string    `json:"section"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
	InSession    bool      `json:"in_session"`
	CurrentRound int       `json:"current_round"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ParticipantLoginRequest is the payload for participant authentication.
type ParticipantLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=4,max=128"`
}

// RegisterParticipantRequest is the payload for participant self-registration.
type RegisterParticipantRequest struct {
	Name       string `json:"name" binding:"required,min=2,max=100"`
	University string `json:"university" binding:"required,min=2,max=150"`
	Branch     string `json:"branch" binding:"required,min=1,max=100"`
	Semester   string `json:"semester" binding:"required,min=1,max=20"`
	Section    string `json:"section" binding:"required,min=1,max=20"`
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required,min=6,max=128"`
}
