package spindle

import (
	"context"

	"github.com/xraph/spindle/job"
	"github.com/xraph/spindle/worker"
)

// Join runs fa and fb, potentially in parallel, and returns both
// results. fb is exposed to the pool as stealable work while fa runs
// inline on the calling worker; if no other worker is idle, fb also
// runs inline and the whole call costs one push and one pop. Both
// closures receive the context of whichever worker executes them, so
// they may call Join again and nest arbitrarily deep.
//
// Join must be called on a pool worker, inside a Pool.Run closure or a
// closure passed to another Join. Called anywhere else it panics with
// ErrOutsidePool before running either closure.
//
// If fa panics, Join waits until fb is guaranteed complete and then
// re-panics with fa's payload; fb's own result or panic is discarded on
// that path. If only fb panics, its payload is re-raised to the caller
// after both are complete. Either way the panic surfaces on the
// goroutine that called Join, never on the thief that happened to
// execute fb.
func Join[A, B any](
	ctx context.Context,
	fa func(ctx context.Context) A,
	fb func(ctx context.Context) B,
) (A, B) {
	w := worker.FromContext(ctx)
	if w == nil {
		panic(ErrOutsidePool)
	}
	exts := w.Extensions()
	exts.EmitJoinStarted(ctx, w.Index())

	// Wrap fb and expose it on the local deque; everything below runs
	// while this frame keeps the job alive.
	jobB := job.NewStack(fb)
	refB := jobB.AsRef()
	w.Push(ctx, refB)

	// Execute fa inline; with luck fb gets stolen in the meantime.
	resultA, panicA := job.Capture(func() A { return fa(ctx) })
	if panicA != nil {
		// fa failed, but fb may be running on a thief and may reference
		// state this frame owns. Stay productive until its latch is set,
		// then resume unwinding with fa's payload. fb's outcome is
		// deliberately dropped: the first failure in program order wins.
		w.WaitUntil(ctx, jobB.Latch())
		panicA.Resume()
	}

	// fa is done; get fb back. It is usually still on top of the local
	// deque, but fa may have pushed jobs over it, and a thief may have
	// taken it.
	for !jobB.Latch().Probe() {
		ref, ok := w.Pop(ctx)
		if !ok {
			// Empty deque and unset latch: fb is on another worker.
			// Process other work until it finishes.
			exts.EmitJobLost(ctx, w.Index(), refB)
			w.WaitUntil(ctx, jobB.Latch())
			break
		}
		if ref == refB {
			// Never stolen: run it here. A panic from fb unwinds
			// directly since fa already completed.
			return resultA, jobB.RunInline(ctx)
		}
		// Some other job was pushed over fb; run it and keep digging.
		w.Execute(ctx, ref)
	}

	// Stolen path: the thief stored fb's outcome before setting the
	// latch, so it is safe to extract.
	return resultA, jobB.IntoResult()
}
