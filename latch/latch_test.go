package latch_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/xraph/spindle/latch"
)

func TestSpin_Monotonic(t *testing.T) {
	l := latch.NewSpin()

	if l.Probe() {
		t.Fatal("fresh latch must be unset")
	}

	l.Set()
	for i := 0; i < 100; i++ {
		if !l.Probe() {
			t.Fatal("probe must stay true after set")
		}
	}

	// Double set is safe and does not unset.
	l.Set()
	if !l.Probe() {
		t.Fatal("double set must not change state back")
	}
}

func TestLock_Monotonic(t *testing.T) {
	l := latch.NewLock()

	if l.Probe() {
		t.Fatal("fresh latch must be unset")
	}

	l.Set()
	l.Set()
	if !l.Probe() {
		t.Fatal("probe must stay true after set")
	}
}

func TestLock_WaitReleasesAllWaiters(t *testing.T) {
	l := latch.NewLock()

	const waiters = 8
	var released atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Wait()
			released.Add(1)
		}()
	}

	l.Set()
	wg.Wait()

	if got := released.Load(); got != waiters {
		t.Fatalf("released %d waiters, want %d", got, waiters)
	}

	// Wait after set returns immediately.
	l.Wait()
}

// TestSpin_ResultVisibility checks the happens-before edge: a write made
// before Set must be visible to any goroutine that observed Probe() == true.
func TestSpin_ResultVisibility(t *testing.T) {
	const rounds = 1000

	for i := 0; i < rounds; i++ {
		l := latch.NewSpin()
		var payload int

		done := make(chan int)
		go func() {
			l.Wait()
			done <- payload
		}()

		payload = i
		l.Set()

		if got := <-done; got != i {
			t.Fatalf("round %d: observed stale payload %d", i, got)
		}
	}
}
