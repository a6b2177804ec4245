package job

import (
	"context"

	"github.com/xraph/spindle/latch"
)

// Stack is the job Join exposes for its second closure. It bundles the
// closure, a result cell, and an owned spin latch. The result cell
// transitions pending → {completed, panicked} exactly once, and that
// write happens-before the latch is observed set.
//
// A Stack is created by the Join call that owns it and consumed exactly
// once, either locally (RunInline) or by a stealing worker (Execute).
// The owning call reads the result only after confirming the latch.
type Stack[T any] struct {
	fn     func(context.Context) T
	latch  latch.Spin
	ref    Ref
	result T
	panicv *PanicError
}

// NewStack creates a stack job around fn with a fresh unset latch.
func NewStack[T any](fn func(context.Context) T) *Stack[T] {
	s := &Stack[T]{fn: fn}
	s.ref.j = s
	return s
}

// Latch returns the job's completion latch.
func (s *Stack[T]) Latch() *latch.Spin { return &s.latch }

// AsRef returns the job's identity handle. The handle is allocated with
// the job itself, so a popped ref can be compared against it by pointer
// to recognize the exact job that was pushed.
func (s *Stack[T]) AsRef() *Ref { return &s.ref }

// Execute implements Job. It is the stolen-execution path: the closure
// runs on the thief, the outcome (value or panic payload) is stored, and
// the latch is set. The thief never re-raises: the panic belongs to the
// owning Join call and surfaces through IntoResult.
func (s *Stack[T]) Execute(ctx context.Context) {
	s.result, s.panicv = Capture(func() T { return s.fn(ctx) })
	s.latch.Set()
}

// RunInline is the local, non-stolen execution path: the closure runs on
// the calling worker and the outcome is both stored and surfaced
// synchronously. The value is returned directly, and a captured panic is
// re-raised immediately after the latch is set.
func (s *Stack[T]) RunInline(ctx context.Context) T {
	s.result, s.panicv = Capture(func() T { return s.fn(ctx) })
	s.latch.Set()
	if s.panicv != nil {
		s.panicv.Resume()
	}
	return s.result
}

// IntoResult extracts the stored outcome after the latch has been
// confirmed set: it returns the value or re-raises the stored panic,
// exactly once.
func (s *Stack[T]) IntoResult() T {
	if s.panicv != nil {
		s.panicv.Resume()
	}
	return s.result
}
