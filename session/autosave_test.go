package session

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_StaleFireKeepsNewerTimer(t *testing.T) {
	var calls atomic.Int32
	d := newDebouncer(time.Hour, func() { calls.Add(1) })
	t.Cleanup(d.stop)

	d.trigger()
	stale := d.gen
	d.trigger()

	// The first timer fired while the second trigger held the lock.
	d.fire(stale)
	if got := calls.Load(); got != 0 {
		t.Fatalf("expected stale fire to be skipped, got %d calls", got)
	}
	if !d.flush() {
		t.Fatalf("expected the newer timer to still be pending")
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected one call after flush, got %d", got)
	}
}

func TestDebouncer_FireAfterFlushIsNoop(t *testing.T) {
	var calls atomic.Int32
	d := newDebouncer(time.Hour, func() { calls.Add(1) })
	t.Cleanup(d.stop)

	d.trigger()
	gen := d.gen
	if !d.flush() {
		t.Fatalf("expected pending call")
	}
	d.fire(gen)
	if got := calls.Load(); got != 1 {
		t.Fatalf("expected exactly one call, got %d", got)
	}
	if d.flush() {
		t.Fatalf("expected nothing pending")
	}
}

func TestDebouncer_NoFireAfterStop(t *testing.T) {
	var calls atomic.Int32
	d := newDebouncer(10*time.Millisecond, func() { calls.Add(1) })

	d.trigger()
	gen := d.gen
	d.stop()
	d.fire(gen)
	d.trigger()
	time.Sleep(40 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Fatalf("expected no calls after stop, got %d", got)
	}
}

func TestDebouncer_FiresOnceAfterDelay(t *testing.T) {
	fired := make(chan struct{}, 4)
	d := newDebouncer(10*time.Millisecond, func() { fired <- struct{}{} })
	t.Cleanup(d.stop)

	for i := 0; i < 5; i++ {
		d.trigger()
	}
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatalf("debounced call never ran")
	}
	time.Sleep(30 * time.Millisecond)
	if len(fired) != 0 {
		t.Fatalf("expected a single call, got %d more", len(fired))
	}
	if d.flush() {
		t.Fatalf("expected nothing pending after fire")
	}
}
