// Package spindle provides a work-stealing fork-join core for Go.
// It runs pairs of computations in parallel over a fixed pool of
// workers, with per-worker lock-free deques, steal-based load
// balancing, and panic-correct result reconciliation.
//
// # Quick Start
//
//	p, err := spindle.New(spindle.WithWorkers(8))
//	if err != nil { ... }
//	_ = p.Start(ctx)
//	defer p.Stop(ctx)
//
//	err = p.Run(ctx, func(ctx context.Context) error {
//	    left, right := spindle.Join(ctx,
//	        func(ctx context.Context) int { return sum(ctx, lo, mid) },
//	        func(ctx context.Context) int { return sum(ctx, mid, hi) },
//	    )
//	    total = left + right
//	    return nil
//	})
//
// # Architecture
//
// Each worker owns a Chase–Lev deque: the worker pushes and pops at one
// end (newest first, best cache locality), idle peers steal from the
// other (oldest first, the biggest remaining subtree). Join pushes its
// second closure as a stealable job, runs the first inline, then either
// pops the second closure back (the common, zero-synchronization case)
// or processes other work until the thief that took it signals
// completion through the job's latch.
//
// A worker that has to wait never blocks the goroutine: waiting IS
// working, through worker.WaitUntil. Panics in either closure are
// captured where they happen and re-raised on the goroutine that called
// Join, after both closures are guaranteed complete.
//
// Scheduler lifecycle events (push, pop, steal, lost, executed) are
// observable through the ext package; the observability package ships a
// ready-made metrics extension.
package spindle
