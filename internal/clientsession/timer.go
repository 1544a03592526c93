// Package clientsession models the device-local test timer used by test
// clients. The countdown is anchored to the wall-clock moment the test
// began: the start time is persisted locally, so a reload or crash resumes
// the same countdown instead of resetting it, and time spent with the
// client closed still counts against the limit. Repeated focus violations
// force an auto-submit.
package clientsession

import (
	"errors"
	"sync"
	"time"
)

// MaxViolations is the number of focus violations after which the session
// is force-submitted.
const MaxViolations = 3

// State is the lifecycle state of a client session timer.
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StateSubmitting
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "NOT_STARTED"
	case StateRunning:
		return "RUNNING"
	case StateSubmitting:
		return "SUBMITTING"
	case StateTerminated:
		return "TERMINATED"
	}
	return "UNKNOWN"
}

// Timer state errors.
var (
	ErrAlreadyStarted = errors.New("timer already started")
	ErrNotRunning     = errors.New("timer is not running")
)

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Store persists the wall-clock start time of a session on the local
// device, keyed by round ID. Implementations must survive process
// restarts.
type Store interface {
	LoadStart(roundID string) (start time.Time, ok bool)
	SaveStart(roundID string, start time.Time) error
	Clear(roundID string) error
}

// Timer is the device-local countdown for one test session. Elapsed time
// is always now minus the persisted start: restoring after a reload or a
// crash resumes the original countdown, and downtime is not paused out.
type Timer struct {
	mu sync.Mutex

	roundID string
	limit   time.Duration
	clock   Clock
	store   Store

	state      State
	startedAt  time.Time
	frozen     time.Duration // elapsed captured at submit/terminate
	violations int
}

// NewTimer creates a timer for one round with the given limit in minutes.
func NewTimer(roundID string, limitMinutes int, clock Clock, store Store) *Timer {
	return &Timer{
		roundID: roundID,
		limit:   time.Duration(limitMinutes) * time.Minute,
		clock:   clock,
		store:   store,
		state:   StateNotStarted,
	}
}

// Start begins (or resumes) the countdown. A start time persisted for this
// round is restored so the countdown picks up where the last run left off;
// a persisted start in the future is ignored rather than letting a skewed
// clock rewind elapsed time below zero.
func (t *Timer) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != StateNotStarted {
		return ErrAlreadyStarted
	}

	now := t.clock.Now()
	t.startedAt = now
	if saved, ok := t.store.LoadStart(t.roundID); ok && saved.Before(now) {
		t.startedAt = saved
	}
	if err := t.store.SaveStart(t.roundID, t.startedAt); err != nil {
		return err
	}
	t.state = StateRunning
	return nil
}

// Elapsed returns total elapsed time since the (possibly restored) start.
func (t *Timer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsedLocked()
}

func (t *Timer) elapsedLocked() time.Duration {
	if t.state != StateRunning {
		return t.frozen
	}
	return t.clock.Now().Sub(t.startedAt)
}

// Remaining returns the time left, floored at zero.
func (t *Timer) Remaining() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	remaining := t.limit - t.elapsedLocked()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether the limit has been reached.
func (t *Timer) Expired() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsedLocked() >= t.limit
}

// Persist re-writes the start time to the local store. The value never
// changes while running; the periodic call heals a store that was wiped
// out from under a live session.
func (t *Timer) Persist() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateRunning {
		return ErrNotRunning
	}
	return t.store.SaveStart(t.roundID, t.startedAt)
}

// RecordViolation counts one focus violation. Returns the running count
// and whether the threshold was crossed — the caller must auto-submit
// exactly once, on the crossing call.
func (t *Timer) RecordViolation() (count int, autoSubmit bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateRunning {
		return t.violations, false
	}
	t.violations++
	return t.violations, t.violations == MaxViolations
}

// Violations returns the current focus violation count.
func (t *Timer) Violations() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.violations
}

// BeginSubmit freezes the timer for submission. The elapsed value reported
// after this call no longer grows.
func (t *Timer) BeginSubmit() (elapsedSeconds int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateRunning {
		return 0, ErrNotRunning
	}
	t.frozen = t.elapsedLocked()
	t.state = StateSubmitting
	return int(t.frozen.Seconds()), nil
}

// Terminate ends the session locally and clears the persisted start time.
// Valid from any state, including before Start — cancelling a session that
// never began is a no-op that still clears stale state.
func (t *Timer) Terminate() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == StateRunning {
		t.frozen = t.elapsedLocked()
	}
	t.state = StateTerminated
	return t.store.Clear(t.roundID)
}

// State returns the current lifecycle state.
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
