// Package job defines the units of deferred work scheduled by the pool:
// the type-erased Job interface, the identity-comparable Ref handle stored
// in worker deques, the frame-scoped Stack job used by Join, and the
// heap-allocated Func job used for external injection.
package job

import "context"

// Job is a unit of deferred work with a single capability: execute itself.
// The deque/steal protocol delivers each job to exactly one caller, so
// Execute runs at most once; a second call is an invariant breach, not a
// recoverable error.
type Job interface {
	Execute(ctx context.Context)
}

// Ref is a thin handle to an in-flight Job. Refs are compared by pointer
// identity: two refs are equal iff they denote the same in-flight job.
// A Ref carries no ownership; the referenced job belongs to whoever
// created it, and a job embedding its own ref stays reachable for the GC
// while the deque or a thief holds the handle.
type Ref struct {
	j Job
}

// NewRef wraps a Job in a fresh handle.
func NewRef(j Job) *Ref { return &Ref{j: j} }

// Execute runs the referenced job, consuming its single-delivery permit.
func (r *Ref) Execute(ctx context.Context) { r.j.Execute(ctx) }
