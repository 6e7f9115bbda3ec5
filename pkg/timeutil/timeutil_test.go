package timeutil

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerCoalescesCalls(t *testing.T) {
	var count atomic.Int32
	d := NewDebouncer(50*time.Millisecond, func() {
		count.Add(1)
	})

	d.Call()
	d.Call()
	d.Call()

	time.Sleep(150 * time.Millisecond)
	if got := count.Load(); got != 1 {
		t.Errorf("fn ran %d times, want 1", got)
	}
}

func TestDebouncerStop(t *testing.T) {
	var count atomic.Int32
	d := NewDebouncer(30*time.Millisecond, func() {
		count.Add(1)
	})

	d.Call()
	d.Stop()

	time.Sleep(100 * time.Millisecond)
	if got := count.Load(); got != 0 {
		t.Errorf("fn ran %d times after Stop, want 0", got)
	}
}

func TestDebouncerFlush(t *testing.T) {
	var count atomic.Int32
	d := NewDebouncer(time.Hour, func() {
		count.Add(1)
	})

	d.Flush()
	if got := count.Load(); got != 0 {
		t.Errorf("Flush with nothing pending ran fn %d times", got)
	}

	d.Call()
	d.Flush()
	if got := count.Load(); got != 1 {
		t.Errorf("fn ran %d times after Flush, want 1", got)
	}

	// The flushed invocation must not fire again later.
	d.Flush()
	if got := count.Load(); got != 1 {
		t.Errorf("second Flush reran fn, count = %d", got)
	}
}

func TestDebounce(t *testing.T) {
	var count atomic.Int32
	fn := Debounce(func() { count.Add(1) }, 40*time.Millisecond)

	for i := 0; i < 5; i++ {
		fn()
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(120 * time.Millisecond)
	if got := count.Load(); got != 1 {
		t.Errorf("fn ran %d times, want 1", got)
	}
}

func TestThrottle(t *testing.T) {
	var count atomic.Int32
	fn := Throttle(func() { count.Add(1) }, time.Hour)

	fn()
	if got := count.Load(); got != 1 {
		t.Fatalf("first call did not fire immediately, count = %d", got)
	}

	fn()
	fn()
	if got := count.Load(); got != 1 {
		t.Errorf("throttled calls fired, count = %d", got)
	}
}

func TestThrottleAllowsAfterInterval(t *testing.T) {
	var count atomic.Int32
	fn := Throttle(func() { count.Add(1) }, 30*time.Millisecond)

	fn()
	time.Sleep(60 * time.Millisecond)
	fn()

	if got := count.Load(); got != 2 {
		t.Errorf("fn ran %d times, want 2", got)
	}
}
