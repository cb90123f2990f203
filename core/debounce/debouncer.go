// Package debounce - Quiet-window timer
package debounce

import (
	"sync"
	"time"
)

// Debouncer runs the most recently triggered callback once no new trigger
// has arrived for the configured delay. It owns at most one timer.
type Debouncer struct {
	mu      sync.Mutex
	clock   Clock
	delay   time.Duration
	timer   Timer
	gen     uint64
	pending func()
	stopped bool
}

// NewDebouncer creates a debouncer. A nil clock means SystemClock.
func NewDebouncer(delay time.Duration, clock Clock) *Debouncer {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Debouncer{clock: clock, delay: delay}
}

// Delay is the quiet window
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger replaces any pending callback with f and restarts the window.
// It reports false once the debouncer is stopped.
func (d *Debouncer) Trigger(f func()) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return false
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.pending = f
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
	return true
}

// fire runs the pending callback if gen is still current. A timer that
// lost the race with Cancel or Trigger finds a newer generation and exits.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.pending == nil {
		d.mu.Unlock()
		return
	}
	f := d.takeLocked()
	d.mu.Unlock()

	f()
}

// Cancel drops the pending callback. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.takeLocked() != nil
}

// Flush runs the pending callback now, on the calling goroutine. It
// reports whether there was one.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	f := d.takeLocked()
	d.mu.Unlock()

	if f == nil {
		return false
	}
	f()
	return true
}

// Pending reports whether a callback is waiting for the window to close
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// Stop cancels any pending callback and refuses further triggers
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.takeLocked()
	d.stopped = true
}

func (d *Debouncer) takeLocked() func() {
	f := d.pending
	d.pending = nil
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	return f
}
