// Package lockout tracks recent failed logins per identity and temporarily
// locks accounts that cross the failure threshold.
//
// The state is in-memory, process-wide, and best-effort: a restart clears all
// lockouts. It is not a durable security control, only a brake on online
// brute force. A shared backing store can replace this implementation without
// changing the interface.
package lockout

import (
	"strings"
	"sync"
	"time"
)

type entry struct {
	failures    int
	windowStart time.Time
	lockedUntil time.Time
	lastSeen    time.Time
}

// Tracker counts failed logins per normalized email. All methods are safe for
// concurrent use; increments and reads on the same key are serialized, so a
// race between two failing attempts cannot under-count.
type Tracker struct {
	mu      sync.Mutex
	entries map[string]*entry

	maxFailures int
	window      time.Duration
	cooldown    time.Duration

	// now is a seam for tests to simulate window and cooldown expiry.
	now func() time.Time
}

// NewTracker returns a tracker that locks an account for cooldown after
// maxFailures failed attempts within window.
func NewTracker(maxFailures int, window, cooldown time.Duration) *Tracker {
	return NewTrackerWithClock(maxFailures, window, cooldown, time.Now)
}

// NewTrackerWithClock is NewTracker with an injectable clock.
func NewTrackerWithClock(maxFailures int, window, cooldown time.Duration, now func() time.Time) *Tracker {
	return &Tracker{
		entries:     make(map[string]*entry),
		maxFailures: maxFailures,
		window:      window,
		cooldown:    cooldown,
		now:         now,
	}
}

func normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RecordFailure registers one failed attempt. Crossing the threshold within
// the window puts the account into lockout and resets the counter, so the
// next window starts clean once the lock expires.
func (t *Tracker) RecordFailure(email string) {
	key := normalize(email)
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[key]
	if !ok {
		e = &entry{windowStart: now}
		t.entries[key] = e
	}

	if now.Sub(e.windowStart) > t.window {
		e.failures = 0
		e.windowStart = now
	}

	e.failures++
	e.lastSeen = now

	if e.failures >= t.maxFailures {
		e.lockedUntil = now.Add(t.cooldown)
		e.failures = 0
		e.windowStart = now
	}
}

// RecordSuccess clears all failure and lock state for the email.
func (t *Tracker) RecordSuccess(email string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, normalize(email))
}

// IsLocked reports whether the account is currently in lockout.
func (t *Tracker) IsLocked(email string) bool {
	return t.Remaining(email) > 0
}

// Remaining returns how long the account stays locked, or zero when it is
// not locked.
func (t *Tracker) Remaining(email string) time.Duration {
	key := normalize(email)
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[key]
	if !ok {
		return 0
	}
	if remaining := e.lockedUntil.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}

// Purge drops entries that are not locked and have been idle past the
// failure window. Returns the number of entries removed. Intended to run
// periodically from a janitor.
func (t *Tracker) Purge() int {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	purged := 0
	for key, e := range t.entries {
		if e.lockedUntil.After(now) {
			continue
		}
		if now.Sub(e.lastSeen) > t.window {
			delete(t.entries, key)
			purged++
		}
	}
	return purged
}
