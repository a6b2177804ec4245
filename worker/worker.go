// Package worker implements the pool's execution threads: each Worker
// owns one work-stealing deque, executes job refs, and provides the
// liveness-critical WaitUntil that drains and steals work instead of
// blocking while a latch is unset.
package worker

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"runtime"
	"time"

	"github.com/xraph/spindle/backoff"
	"github.com/xraph/spindle/deque"
	"github.com/xraph/spindle/ext"
	"github.com/xraph/spindle/id"
	"github.com/xraph/spindle/job"
	"github.com/xraph/spindle/latch"
)

// Coordinator is the pool-side interface a worker consumes: it locates
// steal victims and hands out externally injected jobs. The worker never
// sees the pool type itself.
type Coordinator interface {
	// Workers returns all workers in the pool, indexed by worker index.
	Workers() []*Worker
	// PollInjected returns an externally injected job ref, if one is
	// waiting. Non-blocking.
	PollInjected() (*job.Ref, bool)
}

// Worker is one execution thread of the pool. Push and Pop may only be
// called from the goroutine running this worker; Execute and WaitUntil
// likewise. Other workers interact with it solely by stealing from the
// top of its deque.
type Worker struct {
	index      int
	workerID   id.WorkerID
	deque      *deque.Deque
	coord      Coordinator
	extensions *ext.Registry
	idle       backoff.Strategy
	logger     *slog.Logger
	rng        *rand.Rand
}

// Option configures a Worker.
type Option func(*Worker)

// WithDequeCapacity sets the initial deque capacity.
func WithDequeCapacity(n int) Option {
	return func(w *Worker) { w.deque = deque.New(n) }
}

// WithIdleBackoff sets the strategy consulted after an empty
// pop/steal/inject round.
func WithIdleBackoff(s backoff.Strategy) Option {
	return func(w *Worker) { w.idle = s }
}

// New creates a worker with the given index.
func New(
	index int,
	coord Coordinator,
	extensions *ext.Registry,
	logger *slog.Logger,
	opts ...Option,
) *Worker {
	w := &Worker{
		index:      index,
		workerID:   id.NewWorkerID(),
		deque:      deque.New(64),
		coord:      coord,
		extensions: extensions,
		idle:       backoff.DefaultStrategy(),
		logger:     logger,
		// Seeded per worker so thieves do not sweep victims in lockstep.
		rng: rand.New(rand.NewPCG(uint64(index)+1, uint64(time.Now().UnixNano()))), //nolint:gosec // scheduling jitter only
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Index returns the worker's position in the pool.
func (w *Worker) Index() int { return w.index }

// ID returns the worker's unique identifier.
func (w *Worker) ID() id.WorkerID { return w.workerID }

// Extensions returns the registry this worker emits lifecycle events to.
func (w *Worker) Extensions() *ext.Registry { return w.extensions }

// Push appends a job ref at the owner's end of the deque.
func (w *Worker) Push(ctx context.Context, ref *job.Ref) {
	w.deque.Push(ref)
	w.extensions.EmitJobPushed(ctx, w.index, ref)
}

// Pop removes and returns the most recently pushed ref, if present.
func (w *Worker) Pop(ctx context.Context) (*job.Ref, bool) {
	ref, ok := w.deque.Pop()
	if ok {
		w.extensions.EmitJobPopped(ctx, w.index, ref)
	}
	return ref, ok
}

// Execute runs a job ref inline on this worker.
func (w *Worker) Execute(ctx context.Context, ref *job.Ref) {
	if w.extensions.ObservesExecution() {
		start := time.Now()
		ref.Execute(ctx)
		w.extensions.EmitJobExecuted(ctx, w.index, ref, time.Since(start))
		return
	}
	ref.Execute(ctx)
}

// WaitUntil processes other runnable work until l is set. It never
// blocks the goroutine while work is available anywhere: the worker
// alternates between draining its own deque, stealing from a
// pseudo-randomly chosen peer, and picking up injected jobs. Only when a
// full round finds nothing does it back off, and even then the default
// strategy yields or sleeps microseconds. Returns only once l.Probe()
// is true.
//
// Joins nest arbitrarily deep through this method: a stolen job may
// itself call Join, which pushes and waits here again on the same
// goroutine stack.
func (w *Worker) WaitUntil(ctx context.Context, l latch.Latch) {
	attempt := 0
	for !l.Probe() {
		if ref, ok := w.Pop(ctx); ok {
			w.Execute(ctx, ref)
			attempt = 0
			continue
		}
		if ref, ok := w.trySteal(ctx); ok {
			w.Execute(ctx, ref)
			attempt = 0
			continue
		}
		if w.coord != nil {
			if ref, ok := w.coord.PollInjected(); ok {
				w.Execute(ctx, ref)
				attempt = 0
				continue
			}
		}
		attempt++
		if d := w.idle.Delay(attempt); d > 0 {
			time.Sleep(d)
		} else {
			runtime.Gosched()
		}
	}
}

// Run is the worker's main loop: it processes work until the pool's
// termination latch is set. The worker's identity is attached to the
// context so jobs executing here can resolve it (and call Join).
func (w *Worker) Run(ctx context.Context, terminate latch.Latch) {
	wctx := Onto(ctx, w)
	w.WaitUntil(wctx, terminate)

	// Injections that raced with shutdown still get executed, so their
	// Run callers are not left waiting on a latch nobody will set.
	if w.coord != nil {
		for {
			ref, ok := w.coord.PollInjected()
			if !ok {
				return
			}
			w.Execute(wctx, ref)
		}
	}
}

// trySteal sweeps all peers once, starting at a random index, and
// returns the first ref it wins. Starting position is rerolled each
// round; every peer with work is probed every round, so no victim is
// starved of thieves.
func (w *Worker) trySteal(ctx context.Context) (*job.Ref, bool) {
	if w.coord == nil {
		return nil, false
	}
	peers := w.coord.Workers()
	n := len(peers)
	if n < 2 {
		return nil, false
	}
	start := w.rng.IntN(n)
	for i := 0; i < n; i++ {
		victim := peers[(start+i)%n]
		if victim == nil || victim.index == w.index {
			continue
		}
		if ref, ok := victim.deque.Steal(); ok {
			w.extensions.EmitJobStolen(ctx, w.index, victim.index, ref)
			return ref, true
		}
	}
	return nil, false
}
