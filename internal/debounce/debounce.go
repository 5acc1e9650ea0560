// Package debounce collapses bursts of calls into a single delayed call.
//
// A Debouncer holds at most one pending task. Each Trigger cancels the pending
// task and schedules a new one carrying the latest value, so a burst of
// triggers closer together than the wait produces exactly one call, with the
// last value, once the burst goes quiet. Stop cancels the pending task for good
// and must be called when the owner is disposed.
package debounce

import (
	"sync"
	"time"
)

// Timer is the handle of a scheduled task.
type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. time.AfterFunc is the default.
type Scheduler func(d time.Duration, f func()) Timer

func afterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Debouncer.
type Option func(*options)

type options struct {
	schedule Scheduler
}

// WithScheduler replaces the timer source, mainly for tests.
func WithScheduler(s Scheduler) Option {
	return func(o *options) { o.schedule = s }
}

// Debouncer delays calls to fn until wait has passed without a new Trigger.
// Safe for concurrent use. fn runs on the scheduler's goroutine.
type Debouncer[T any] struct {
	mu       sync.Mutex
	wait     time.Duration
	fn       func(T)
	schedule Scheduler

	timer   Timer
	pending T
	armed   bool
	seq     uint64 // identifies the live task; stale timers compare and bail
	stopped bool
}

// New creates a Debouncer calling fn with the last triggered value.
func New[T any](wait time.Duration, fn func(T), opts ...Option) *Debouncer[T] {
	o := options{schedule: afterFunc}
	for _, opt := range opts {
		opt(&o)
	}
	return &Debouncer[T]{
		wait:     wait,
		fn:       fn,
		schedule: o.schedule,
	}
}

// Trigger replaces any pending task with one carrying v.
// Triggers after Stop are ignored.
func (d *Debouncer[T]) Trigger(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.cancelLocked()

	d.seq++
	seq := d.seq
	d.pending = v
	d.armed = true
	d.timer = d.schedule(d.wait, func() { d.fire(seq) })
}

// Flush ends the quiet period early: it cancels the pending task and returns
// its value for the caller to apply at once. fn is not called, so Flush is
// safe where fn must not run on the caller's goroutine.
func (d *Debouncer[T]) Flush() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var zero T
	if !d.armed || d.stopped {
		return zero, false
	}
	v := d.pending
	d.cancelLocked()
	return v, true
}

// Cancel drops the pending task without disabling the Debouncer.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	d.cancelLocked()
	d.mu.Unlock()
}

// Stop cancels the pending task and disables further triggers.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	d.cancelLocked()
	d.stopped = true
	d.mu.Unlock()
}

// Pending reports whether a task is scheduled.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.armed
}

// Wait returns the quiet period.
func (d *Debouncer[T]) Wait() time.Duration {
	return d.wait
}

func (d *Debouncer[T]) fire(seq uint64) {
	d.mu.Lock()
	if seq != d.seq || !d.armed || d.stopped {
		d.mu.Unlock()
		return
	}
	v := d.pending
	d.armed = false
	d.timer = nil
	d.mu.Unlock()

	d.fn(v)
}

// cancelLocked stops the live timer and invalidates its task. A timer that
// already fired and is waiting on mu will see the new seq and return.
func (d *Debouncer[T]) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.armed {
		var zero T
		d.pending = zero
		d.armed = false
	}
	d.seq++
}
