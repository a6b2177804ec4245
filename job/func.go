package job

import (
	"context"

	"github.com/xraph/spindle/latch"
)

// Func is a heap-allocated job used to inject work from outside the pool
// (Pool.Run). Unlike Stack it guards its outcome with a Lock latch, since
// the goroutine awaiting it is not a worker and must block for real
// rather than steal.
type Func struct {
	fn     func(ctx context.Context) error
	latch  *latch.Lock
	ref    Ref
	err    error
	panicv *PanicError
}

// NewFunc creates an injectable job around fn.
func NewFunc(fn func(ctx context.Context) error) *Func {
	f := &Func{fn: fn, latch: latch.NewLock()}
	f.ref.j = f
	return f
}

// AsRef returns the job's identity handle.
func (f *Func) AsRef() *Ref { return &f.ref }

// Execute implements Job. Runs on whichever worker picks the job up.
func (f *Func) Execute(ctx context.Context) {
	res, p := Capture(func() error { return f.fn(ctx) })
	f.err, f.panicv = res, p
	f.latch.Set()
}

// Wait blocks the calling goroutine until the job has executed, then
// returns its error or re-raises its panic on the caller.
func (f *Func) Wait() error {
	f.latch.Wait()
	if f.panicv != nil {
		f.panicv.Resume()
	}
	return f.err
}
