package clientsession

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// PersistInterval is how often the runner re-writes the start time to the
// local store while the session runs.
const PersistInterval = 1 * time.Second

// Callbacks are invoked by the Runner on timer milestones. Both run on the
// runner goroutine; OnExpire fires at most once.
type Callbacks struct {
	// OnTick receives the remaining time once per persist interval.
	OnTick func(remaining time.Duration)
	// OnExpire fires when the limit is reached; the client must submit.
	OnExpire func()
}

// Runner drives a Timer: it re-persists the start time every interval and
// fires OnExpire when the countdown ends. Run blocks until the context is
// cancelled or the timer expires.
type Runner struct {
	timer *Timer
	cb    Callbacks
}

// NewRunner creates a Runner for a started timer.
func NewRunner(timer *Timer, cb Callbacks) *Runner {
	return &Runner{timer: timer, cb: cb}
}

// Run loops until expiry or cancellation. The start time is persisted once
// more on the way out in case the store was wiped while running.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(PersistInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := r.timer.Persist(); err != nil && err != ErrNotRunning {
				log.Warn().Err(err).Msg("Failed to persist elapsed time on shutdown")
			}
			return

		case <-ticker.C:
			if err := r.timer.Persist(); err != nil {
				if err == ErrNotRunning {
					return
				}
				log.Warn().Err(err).Msg("Failed to persist elapsed time")
			}

			if r.cb.OnTick != nil {
				r.cb.OnTick(r.timer.Remaining())
			}

			if r.timer.Expired() {
				if r.cb.OnExpire != nil {
					r.cb.OnExpire()
				}
				return
			}
		}
	}
}
