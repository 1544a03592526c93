package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/arenalabs/quizarena-backend/internal/config"
	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EventPublisher pushes session lifecycle events onto the monitor queue.
// Publishing is best-effort: a lost event degrades the live monitor view
// but must never fail the participant's request.
type EventPublisher struct {
	rdb *redis.Client
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(rdb *redis.Client) *EventPublisher {
	return &EventPublisher{rdb: rdb}
}

// Publish enqueues one session event for the monitor worker.
func (p *EventPublisher) Publish(ctx context.Context, eventType model.SessionEventType, participantID int, roundID uuid.UUID, roundSeq int) {
	event := model.SessionEvent{
		Type:          eventType,
		ParticipantID: participantID,
		RoundID:       roundID,
		RoundSeq:      roundSeq,
		OccurredAt:    time.Now(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to marshal session event")
		return
	}

	if err := p.rdb.RPush(ctx, config.WorkerKey.SessionEventsQueue, payload).Err(); err != nil {
		log.Warn().Err(err).
			Str("event_type", string(eventType)).
			Int("participant_id", participantID).
			Msg("Failed to enqueue session event")
	}
}
