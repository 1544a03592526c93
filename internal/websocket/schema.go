package websocket

import "github.com/arenalabs/quizarena-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError   Event = "error"
	EventSession Event = "session"
	EventPong    Event = "pong"
)

// SessionEventMessage carries one session lifecycle event to the monitor.
type SessionEventMessage struct {
	Event   Event              `json:"event"`
	Payload model.SessionEvent `json:"payload"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
