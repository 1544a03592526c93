package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/arenalabs/quizarena-backend/internal/config"
	"github.com/arenalabs/quizarena-backend/internal/model"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	MonitorBatchSize    = 50
	MonitorBatchTimeout = 1 * time.Second
	MonitorPollTimeout  = 1 * time.Second
)

// MonitorWorker drains the session events queue and fans events out to the
// admin monitor pub/sub channel. Decoupling the fan-out from the request
// path keeps session start and submit latency independent of how many
// monitor dashboards are attached.
type MonitorWorker struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewMonitorWorker creates a new MonitorWorker.
func NewMonitorWorker(rdb *redis.Client, log zerolog.Logger) *MonitorWorker {
	return &MonitorWorker{
		rdb: rdb,
		log: log.With().Str("component", "monitor_worker").Logger(),
	}
}

// Start runs the worker loop until the context is cancelled. Remaining
// batched events are flushed on shutdown.
func (w *MonitorWorker) Start(ctx context.Context) {
	w.log.Info().Msg("MonitorWorker started")

	batch := make([][]byte, 0, MonitorBatchSize)
	lastFlush := time.Now()

	for {
		if len(batch) > 0 &&
			(len(batch) >= MonitorBatchSize || time.Since(lastFlush) >= MonitorBatchTimeout) {

			w.flush(context.Background(), batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flush(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, MonitorPollTimeout, config.WorkerKey.SessionEventsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			// Validate before fan-out so a malformed entry cannot reach
			// monitor clients.
			var event model.SessionEvent
			if err := json.Unmarshal([]byte(item[1]), &event); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, []byte(item[1]))
		}
	}
}

func (w *MonitorWorker) flush(ctx context.Context, batch [][]byte) {
	if len(batch) == 0 {
		return
	}

	pipe := w.rdb.Pipeline()
	channel := config.CacheKey.SessionMonitorChannel()
	for _, raw := range batch {
		pipe.Publish(ctx, channel, raw)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		w.log.Warn().Err(err).Int("events", len(batch)).Msg("Monitor fan-out failed, dropping batch")
	}
}
