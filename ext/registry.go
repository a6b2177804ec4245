package ext

import (
	"context"
	"log/slog"
	"time"

	"github.com/xraph/spindle/job"
)

// Named entry types pair a hook implementation with the extension name
// captured at registration time. This avoids type-asserting back to
// Extension inside the emit methods.
type jobPushedEntry struct {
	name string
	hook JobPushed
}

type jobPoppedEntry struct {
	name string
	hook JobPopped
}

type jobStolenEntry struct {
	name string
	hook JobStolen
}

type jobLostEntry struct {
	name string
	hook JobLost
}

type jobExecutedEntry struct {
	name string
	hook JobExecuted
}

type joinStartedEntry struct {
	name string
	hook JoinStarted
}

type shutdownEntry struct {
	name string
	hook Shutdown
}

// Registry holds registered extensions and dispatches lifecycle events
// to them. It type-caches extensions at registration time so emit calls
// on the worker hot path iterate only over extensions that implement the
// relevant hook, and cost a single nil/len check when none do.
type Registry struct {
	extensions []Extension
	logger     *slog.Logger

	// Type-cached slices for each lifecycle hook.
	jobPushed   []jobPushedEntry
	jobPopped   []jobPoppedEntry
	jobStolen   []jobStolenEntry
	jobLost     []jobLostEntry
	jobExecuted []jobExecutedEntry
	joinStarted []joinStartedEntry
	shutdown    []shutdownEntry
}

// NewRegistry creates an extension registry with the given logger.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{logger: logger}
}

// Register adds an extension and type-asserts it into all applicable
// hook caches. Extensions are notified in registration order.
func (r *Registry) Register(e Extension) {
	r.extensions = append(r.extensions, e)
	name := e.Name()

	if h, ok := e.(JobPushed); ok {
		r.jobPushed = append(r.jobPushed, jobPushedEntry{name, h})
	}
	if h, ok := e.(JobPopped); ok {
		r.jobPopped = append(r.jobPopped, jobPoppedEntry{name, h})
	}
	if h, ok := e.(JobStolen); ok {
		r.jobStolen = append(r.jobStolen, jobStolenEntry{name, h})
	}
	if h, ok := e.(JobLost); ok {
		r.jobLost = append(r.jobLost, jobLostEntry{name, h})
	}
	if h, ok := e.(JobExecuted); ok {
		r.jobExecuted = append(r.jobExecuted, jobExecutedEntry{name, h})
	}
	if h, ok := e.(JoinStarted); ok {
		r.joinStarted = append(r.joinStarted, joinStartedEntry{name, h})
	}
	if h, ok := e.(Shutdown); ok {
		r.shutdown = append(r.shutdown, shutdownEntry{name, h})
	}
}

// Extensions returns all registered extensions.
func (r *Registry) Extensions() []Extension { return r.extensions }

// ObservesExecution reports whether any registered extension cares about
// per-execution events. Workers skip timing jobs when it is false.
func (r *Registry) ObservesExecution() bool {
	return r != nil && len(r.jobExecuted) > 0
}

// EmitJobPushed notifies all extensions that implement JobPushed.
func (r *Registry) EmitJobPushed(ctx context.Context, workerIndex int, ref *job.Ref) {
	if r == nil {
		return
	}
	for _, e := range r.jobPushed {
		if err := e.hook.OnJobPushed(ctx, workerIndex, ref); err != nil {
			r.logHookError("OnJobPushed", e.name, err)
		}
	}
}

// EmitJobPopped notifies all extensions that implement JobPopped.
func (r *Registry) EmitJobPopped(ctx context.Context, workerIndex int, ref *job.Ref) {
	if r == nil {
		return
	}
	for _, e := range r.jobPopped {
		if err := e.hook.OnJobPopped(ctx, workerIndex, ref); err != nil {
			r.logHookError("OnJobPopped", e.name, err)
		}
	}
}

// EmitJobStolen notifies all extensions that implement JobStolen.
func (r *Registry) EmitJobStolen(ctx context.Context, thiefIndex, victimIndex int, ref *job.Ref) {
	if r == nil {
		return
	}
	for _, e := range r.jobStolen {
		if err := e.hook.OnJobStolen(ctx, thiefIndex, victimIndex, ref); err != nil {
			r.logHookError("OnJobStolen", e.name, err)
		}
	}
}

// EmitJobLost notifies all extensions that implement JobLost.
func (r *Registry) EmitJobLost(ctx context.Context, workerIndex int, ref *job.Ref) {
	if r == nil {
		return
	}
	for _, e := range r.jobLost {
		if err := e.hook.OnJobLost(ctx, workerIndex, ref); err != nil {
			r.logHookError("OnJobLost", e.name, err)
		}
	}
}

// EmitJobExecuted notifies all extensions that implement JobExecuted.
func (r *Registry) EmitJobExecuted(ctx context.Context, workerIndex int, ref *job.Ref, elapsed time.Duration) {
	if r == nil {
		return
	}
	for _, e := range r.jobExecuted {
		if err := e.hook.OnJobExecuted(ctx, workerIndex, ref, elapsed); err != nil {
			r.logHookError("OnJobExecuted", e.name, err)
		}
	}
}

// EmitJoinStarted notifies all extensions that implement JoinStarted.
func (r *Registry) EmitJoinStarted(ctx context.Context, workerIndex int) {
	if r == nil {
		return
	}
	for _, e := range r.joinStarted {
		if err := e.hook.OnJoinStarted(ctx, workerIndex); err != nil {
			r.logHookError("OnJoinStarted", e.name, err)
		}
	}
}

// EmitShutdown notifies all extensions that implement Shutdown.
func (r *Registry) EmitShutdown(ctx context.Context) {
	if r == nil {
		return
	}
	for _, e := range r.shutdown {
		if err := e.hook.OnShutdown(ctx); err != nil {
			r.logHookError("OnShutdown", e.name, err)
		}
	}
}

// logHookError logs a warning when a lifecycle hook returns an error.
// Errors from hooks are never propagated; observation must not perturb
// scheduling.
func (r *Registry) logHookError(hook, extName string, err error) {
	r.logger.Warn("extension hook error",
		slog.String("hook", hook),
		slog.String("extension", extName),
		slog.String("error", err.Error()),
	)
}
