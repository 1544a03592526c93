package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/arenalabs/quizarena-backend/internal/config"
	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func testWorker(t *testing.T) (*MonitorWorker, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewMonitorWorker(rdb, zerolog.Nop()), rdb
}

func TestMonitorWorkerFansOutQueuedEvents(t *testing.T) {
	worker, rdb := testWorker(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := rdb.Subscribe(ctx, config.CacheKey.SessionMonitorChannel())
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	event := model.SessionEvent{
		Type:          model.SessionEventStarted,
		ParticipantID: 7,
		RoundID:       uuid.New(),
		RoundSeq:      1,
		OccurredAt:    time.Now().UTC(),
	}
	raw, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}
	if err := rdb.RPush(ctx, config.WorkerKey.SessionEventsQueue, raw).Err(); err != nil {
		t.Fatalf("enqueue event: %v", err)
	}

	go worker.Start(ctx)

	recvCtx, recvCancel := context.WithTimeout(ctx, 5*time.Second)
	defer recvCancel()
	msg, err := sub.ReceiveMessage(recvCtx)
	if err != nil {
		t.Fatalf("no event fanned out: %v", err)
	}

	var got model.SessionEvent
	if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
		t.Fatalf("unmarshal published event: %v", err)
	}
	if got.Type != model.SessionEventStarted || got.ParticipantID != 7 {
		t.Errorf("published event = %+v", got)
	}

	if n, _ := rdb.LLen(ctx, config.WorkerKey.SessionEventsQueue).Result(); n != 0 {
		t.Errorf("queue length after drain = %d, want 0", n)
	}
}

func TestMonitorWorkerSkipsMalformedEntries(t *testing.T) {
	worker, rdb := testWorker(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := rdb.Subscribe(ctx, config.CacheKey.SessionMonitorChannel())
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}

	valid, err := json.Marshal(model.SessionEvent{
		Type:          model.SessionEventSubmitted,
		ParticipantID: 3,
		RoundID:       uuid.New(),
		RoundSeq:      2,
		OccurredAt:    time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}

	queue := config.WorkerKey.SessionEventsQueue
	if err := rdb.RPush(ctx, queue, "not json at all", valid).Err(); err != nil {
		t.Fatalf("enqueue events: %v", err)
	}

	go worker.Start(ctx)

	recvCtx, recvCancel := context.WithTimeout(ctx, 5*time.Second)
	defer recvCancel()
	msg, err := sub.ReceiveMessage(recvCtx)
	if err != nil {
		t.Fatalf("valid event not fanned out: %v", err)
	}

	var got model.SessionEvent
	if err := json.Unmarshal([]byte(msg.Payload), &got); err != nil {
		t.Fatalf("published payload is not the valid event: %v", err)
	}
	if got.ParticipantID != 3 {
		t.Errorf("published event = %+v, want the valid one", got)
	}
}
