// Package debounce provides the caller-side scheduling used in front of the
// card filter: a debouncer for keystroke streams and a leading-edge throttle.
package debounce

import (
	"sync"
	"time"
)

// DefaultInterval is the settling interval used for search input.
const DefaultInterval = 300 * time.Millisecond

// Debouncer runs the most recently triggered function once no new trigger
// has arrived for the configured interval.
//
// Calls never overlap. Once Flush, Cancel or Stop returns, no call from an
// earlier Trigger is running or will run.
type Debouncer struct {
	run      sync.Mutex // held while a call runs
	mu       sync.Mutex
	interval time.Duration
	timer    *time.Timer
	seq      uint64
	stopped  bool
}

// New returns a Debouncer with the given interval. A non-positive interval
// uses DefaultInterval.
func New(interval time.Duration) *Debouncer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Debouncer{interval: interval}
}

// Interval returns the settling interval.
func (d *Debouncer) Interval() time.Duration { return d.interval }

// Trigger schedules fn, superseding any pending call. It is a no-op after Stop.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.interval, func() {
		d.run.Lock()
		defer d.run.Unlock()

		d.mu.Lock()
		// A timer that already fired cannot be stopped; the sequence check
		// drops it if a newer trigger, Cancel or Stop came in meanwhile.
		current := seq == d.seq && !d.stopped
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Flush cancels the pending timer and runs fn immediately, after any call
// already in progress.
func (d *Debouncer) Flush(fn func()) {
	d.run.Lock()
	defer d.run.Unlock()

	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	stopped := d.stopped
	d.mu.Unlock()
	if !stopped {
		fn()
	}
}

// Cancel drops the pending call, if any, and waits for a call already in
// progress. The Debouncer stays usable.
func (d *Debouncer) Cancel() {
	d.run.Lock()
	defer d.run.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
}

// Stop cancels the pending call, waits for a call already in progress and
// disables further triggers.
func (d *Debouncer) Stop() {
	d.run.Lock()
	defer d.run.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	d.stopped = true
}

// Throttle lets at most one call through per window, on the leading edge.
type Throttle struct {
	mu     sync.Mutex
	window time.Duration
	last   time.Time
	now    func() time.Time
}

// NewThrottle returns a Throttle with the given window.
func NewThrottle(window time.Duration) *Throttle {
	return &Throttle{window: window, now: time.Now}
}

// Allow reports whether a call may run now, and records it if so.
func (t *Throttle) Allow() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	if !t.last.IsZero() && now.Sub(t.last) < t.window {
		return false
	}
	t.last = now
	return true
}

// Do runs fn if the throttle allows it and reports whether it ran.
func (t *Throttle) Do(fn func()) bool {
	if !t.Allow() {
		return false
	}
	fn()
	return true
}
