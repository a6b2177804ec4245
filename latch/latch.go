// Package latch provides one-shot completion signals used to synchronize
// job completion between workers.
//
// A latch starts unset and is set at most once; once Probe reports true it
// reports true forever. Setting a latch establishes a happens-before edge:
// any write made before Set is visible to a goroutine that observes
// Probe() == true.
package latch

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Latch is a one-shot completion signal.
type Latch interface {
	// Probe reports whether the latch has been set. Non-blocking.
	Probe() bool
	// Set marks the latch as set. Safe to call more than once; the latch
	// never transitions back to unset.
	Set()
}

// Spin is a latch intended for waiters that interleave useful work between
// probes (worker.WaitUntil). Its Wait busy-polls with only a processor
// yield between probes and must not be used from goroutines that have no
// other work to do; those should use Lock instead.
type Spin struct {
	set atomic.Bool
}

// NewSpin creates an unset spin latch.
func NewSpin() *Spin { return &Spin{} }

// Probe implements Latch.
func (l *Spin) Probe() bool { return l.set.Load() }

// Set implements Latch.
func (l *Spin) Set() { l.set.Store(true) }

// Wait busy-polls until the latch is set, yielding the processor between
// probes. Used only by the latch's own retry loop in tests and tight
// handoffs; workers wait through worker.WaitUntil.
func (l *Spin) Wait() {
	for !l.set.Load() {
		runtime.Gosched()
	}
}

// Lock is a latch whose Wait blocks the calling goroutine on a condition
// variable. It is used when a non-worker goroutine synchronizes with the
// pool (Pool.Run): such callers have no deque to drain, so true blocking
// is the right idle strategy.
type Lock struct {
	mu   sync.Mutex
	cond *sync.Cond
	set  bool
}

// NewLock creates an unset lock latch.
func NewLock() *Lock {
	l := &Lock{}
	l.cond = sync.NewCond(&l.mu)
	return l
}

// Probe implements Latch.
func (l *Lock) Probe() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.set
}

// Set implements Latch.
func (l *Lock) Set() {
	l.mu.Lock()
	l.set = true
	l.mu.Unlock()
	l.cond.Broadcast()
}

// Wait blocks until the latch is set.
func (l *Lock) Wait() {
	l.mu.Lock()
	for !l.set {
		l.cond.Wait()
	}
	l.mu.Unlock()
}
