// Package timeutil provides timer-based call-rate limiters.
package timeutil

import (
	"sync"
	"time"
)

// Debouncer delays invoking a function until a quiet period has elapsed
// since the most recent Call.
type Debouncer struct {
	mu    sync.Mutex
	wait  time.Duration
	fn    func()
	timer *time.Timer
}

// NewDebouncer creates a Debouncer that invokes fn once wait has passed
// without further calls.
func NewDebouncer(wait time.Duration, fn func()) *Debouncer {
	return &Debouncer{wait: wait, fn: fn}
}

// Call schedules fn, resetting any pending timer.
func (d *Debouncer) Call() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, d.fn)
}

// Stop cancels any pending invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Flush runs fn immediately if an invocation is pending.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	pending := d.timer != nil && d.timer.Stop()
	d.timer = nil
	d.mu.Unlock()
	if pending {
		d.fn()
	}
}

// Debounce wraps fn so that it only runs after wait has elapsed with no
// further calls.
func Debounce(fn func(), wait time.Duration) func() {
	d := NewDebouncer(wait, fn)
	return d.Call
}

// Throttle wraps fn so that it runs at most once per interval. The first
// call fires immediately; subsequent calls are ignored until interval has
// passed since the last call that fired.
func Throttle(fn func(), interval time.Duration) func() {
	var mu sync.Mutex
	var last time.Time
	return func() {
		mu.Lock()
		now := time.Now()
		if !last.IsZero() && now.Sub(last) < interval {
			mu.Unlock()
			return
		}
		last = now
		mu.Unlock()
		fn()
	}
}
