// Package ext defines the extension system for spindle.
// Extensions observe scheduler lifecycle events (jobs pushed, popped,
// stolen, lost, executed) and can react to them: recording metrics,
// tracing steal traffic, writing audit logs.
//
// Each lifecycle hook is a separate interface so extensions opt in only
// to the events they care about. Hooks are purely observational: their
// errors are logged and discarded, and nothing they do may influence a
// scheduling decision or a join result.
package ext

import (
	"context"
	"time"

	"github.com/xraph/spindle/job"
)

// Extension is the base interface all extensions must implement.
type Extension interface {
	// Name returns a unique human-readable name for the extension.
	Name() string
}

// JobPushed is called after a worker pushes a job ref onto its own deque.
type JobPushed interface {
	OnJobPushed(ctx context.Context, workerIndex int, ref *job.Ref) error
}

// JobPopped is called after a worker pops a job ref from its own deque.
type JobPopped interface {
	OnJobPopped(ctx context.Context, workerIndex int, ref *job.Ref) error
}

// JobStolen is called on a successful steal, identifying thief and victim.
type JobStolen interface {
	OnJobStolen(ctx context.Context, thiefIndex, victimIndex int, ref *job.Ref) error
}

// JobLost is called when a joining worker discovers that the job it was
// waiting for has been taken by another worker.
type JobLost interface {
	OnJobLost(ctx context.Context, workerIndex int, ref *job.Ref) error
}

// JobExecuted is called after a worker finishes executing a job ref.
type JobExecuted interface {
	OnJobExecuted(ctx context.Context, workerIndex int, ref *job.Ref, elapsed time.Duration) error
}

// JoinStarted is called when a Join call begins on a worker.
type JoinStarted interface {
	OnJoinStarted(ctx context.Context, workerIndex int) error
}

// Shutdown is called during graceful pool shutdown.
type Shutdown interface {
	OnShutdown(ctx context.Context) error
}
