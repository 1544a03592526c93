package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus enumerates the lifecycle of a test session record.
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "ACTIVE"
	SessionStatusSubmitted SessionStatus = "SUBMITTED"
	SessionStatusReleased  SessionStatus = "RELEASED"
	SessionStatusExpired   SessionStatus = "EXPIRED"
)

// TestSession is the audit record of one participant taking one round.
// The participant's in_session flag is the concurrency mutex; this row
// records when the session started and why it ended.
type TestSession struct {
	ID             uuid.UUID     `json:"id"`
	ParticipantID  int           `json:"participant_id"`
	RoundID        uuid.UUID     `json:"round_id"`
	StartedAt      time.Time     `json:"started_at"`
	EndedAt        *time.Time    `json:"ended_at,omitempty"`
	Status         SessionStatus `json:"status"`
	ElapsedSeconds *int          `json:"elapsed_seconds,omitempty"`
}

// SessionEventType enumerates lifecycle events published to the monitor.
type SessionEventType string

const (
	SessionEventStarted   SessionEventType = "SESSION_STARTED"
	SessionEventSubmitted SessionEventType = "SESSION_SUBMITTED"
	SessionEventReleased  SessionEventType = "SESSION_RELEASED"
)

// SessionEvent is pushed to the session events queue on every lifecycle
// transition and fanned out to the admin monitor.
type SessionEvent struct {
	Type          SessionEventType `json:"type"`
	ParticipantID int              `json:"participant_id"`
	RoundID       uuid.UUID        `json:"round_id"`
	RoundSeq      int              `json:"round_seq"`
	OccurredAt    time.Time        `json:"occurred_at"`
}
