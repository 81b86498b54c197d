// Package form tracks the submission status of each client's form.
//
// A client moves idle → submitting → success|error. The outcome is held for
// a fixed duration and then reads as idle again, the server-side analog of
// a status banner that clears itself.
package form

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Status is the submission state reported to a client.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// ErrInFlight is returned by Begin while the client's previous submission
// has not finished.
var ErrInFlight = errors.New("submission already in progress")

// Hold is how long each outcome is reported before reverting to idle.
type Hold struct {
	Success time.Duration
	Error   time.Duration
}

var (
	// ReviewHold matches the review form: success clears after 2s, errors after 5s.
	ReviewHold = Hold{Success: 2 * time.Second, Error: 5 * time.Second}
	// ContactHold clears either outcome after 5s.
	ContactHold = Hold{Success: 5 * time.Second, Error: 5 * time.Second}
)

type entry struct {
	status Status
	until  time.Time // zero while submitting
}

// Tracker is safe for concurrent use.
type Tracker struct {
	mu      sync.Mutex
	hold    Hold
	now     func() time.Time
	entries map[string]*entry
}

// NewTracker creates a Tracker. now defaults to time.Now.
func NewTracker(hold Hold, now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{hold: hold, now: now, entries: make(map[string]*entry)}
}

// Begin marks key as submitting. It fails with ErrInFlight if key is
// already submitting.
func (t *Tracker) Begin(key string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.entries[key]; ok && e.status == StatusSubmitting {
		return ErrInFlight
	}
	t.entries[key] = &entry{status: StatusSubmitting}
	return nil
}

// Finish records the outcome of key's submission and returns it.
func (t *Tracker) Finish(key string, err error) Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	e := &entry{status: StatusSuccess, until: t.now().Add(t.hold.Success)}
	if err != nil {
		e = &entry{status: StatusError, until: t.now().Add(t.hold.Error)}
	}
	t.entries[key] = e
	return e.status
}

// Status reports key's current state.
func (t *Tracker) Status(key string) Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[key]
	if !ok || t.expired(e) {
		return StatusIdle
	}
	return e.status
}

// Sweep drops entries whose hold has elapsed and returns how many it removed.
func (t *Tracker) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := 0
	for key, e := range t.entries {
		if t.expired(e) {
			delete(t.entries, key)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (t *Tracker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.Sweep()
		}
	}
}

// expired must be called with t.mu held.
func (t *Tracker) expired(e *entry) bool {
	return e.status != StatusSubmitting && !t.now().Before(e.until)
}
