package worker

import "context"

// Workers have no thread-local storage to live in, so the current worker
// travels on the context: the pool attaches each worker to the context
// its jobs execute under, and Join resolves it back out. The key is
// unexported; Onto and FromContext are the only doors.

type ctxKey struct{}

// Onto returns a context carrying w as the current worker.
func Onto(ctx context.Context, w *Worker) context.Context {
	return context.WithValue(ctx, ctxKey{}, w)
}

// FromContext returns the worker attached to ctx, or nil if ctx does not
// originate from pool execution.
func FromContext(ctx context.Context) *Worker {
	w, _ := ctx.Value(ctxKey{}).(*Worker)
	return w
}
