package spindle

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/xraph/spindle/backoff"
	"github.com/xraph/spindle/ext"
	"github.com/xraph/spindle/id"
	"github.com/xraph/spindle/job"
	"github.com/xraph/spindle/latch"
	"github.com/xraph/spindle/worker"
)

// Pool owns a fixed set of workers and maps arbitrary calling goroutines
// onto them. Workers are spawned by Start and run until Stop; in between,
// any goroutine can enter the pool through Run, and code already running
// on a worker forks through Join.
type Pool struct {
	config      Config
	logger      *slog.Logger
	poolID      id.PoolID
	extensions  *ext.Registry
	pendingExts []ext.Extension
	idleBackoff backoff.Strategy
	workers     []*worker.Worker

	// inject carries refs from non-worker goroutines (Run) to whichever
	// worker polls them first.
	inject chan *job.Ref

	// terminate is the latch every worker's main loop waits on; setting
	// it is how Stop asks workers to finish.
	terminate *latch.Spin

	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool
	stopped bool
}

// New creates a pool with the given options. The pool is inert until
// Start is called.
func New(opts ...Option) (*Pool, error) {
	p := &Pool{
		config:      DefaultConfig(),
		logger:      slog.Default(),
		poolID:      id.NewPoolID(),
		idleBackoff: backoff.DefaultStrategy(),
		terminate:   latch.NewSpin(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	// Options validate their own input, but WithConfig replaces the
	// whole struct, so the assembled config is checked once here.
	if p.config.Workers < 1 {
		return nil, fmt.Errorf("spindle: worker count must be positive, got %d", p.config.Workers)
	}
	if p.config.DequeCapacity < 1 {
		return nil, fmt.Errorf("spindle: deque capacity must be positive, got %d", p.config.DequeCapacity)
	}
	if p.config.InjectBuffer < 0 {
		return nil, fmt.Errorf("spindle: inject buffer must be non-negative, got %d", p.config.InjectBuffer)
	}

	p.extensions = ext.NewRegistry(p.logger)
	for _, e := range p.pendingExts {
		p.extensions.Register(e)
	}
	p.pendingExts = nil

	p.inject = make(chan *job.Ref, p.config.InjectBuffer)

	p.workers = make([]*worker.Worker, p.config.Workers)
	for i := range p.workers {
		p.workers[i] = worker.New(i, p, p.extensions, p.logger,
			worker.WithDequeCapacity(p.config.DequeCapacity),
			worker.WithIdleBackoff(p.idleBackoff),
		)
	}

	return p, nil
}

// ID returns the pool's unique identifier.
func (p *Pool) ID() id.PoolID { return p.poolID }

// Logger returns the pool's logger.
func (p *Pool) Logger() *slog.Logger { return p.logger }

// Extensions returns the pool's extension registry.
func (p *Pool) Extensions() *ext.Registry { return p.extensions }

// Workers implements worker.Coordinator.
func (p *Pool) Workers() []*worker.Worker { return p.workers }

// PollInjected implements worker.Coordinator: a non-blocking check of
// the external injection queue.
func (p *Pool) PollInjected() (*job.Ref, bool) {
	select {
	case ref := <-p.inject:
		return ref, true
	default:
		return nil, false
	}
}

// Start launches the worker goroutines. It returns immediately; calling
// it on a running pool is a no-op.
func (p *Pool) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrPoolClosed
	}
	if p.running {
		return nil
	}
	p.running = true

	p.logger.Info("pool starting",
		slog.String("pool_id", p.poolID.String()),
		slog.Int("workers", len(p.workers)),
	)

	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *worker.Worker) {
			defer p.wg.Done()
			w.Run(ctx, p.terminate)
		}(w)
	}

	return nil
}

// Stop signals all workers to finish and waits for them. Workers drain
// their own deques and the injection queue on the way out because the
// termination latch is observed through the same WaitUntil loop that
// processes work. If the context has no deadline, ShutdownTimeout
// applies; when the deadline expires first, Stop returns the context
// error while the remaining workers finish in the background. Calling
// Stop on a stopped pool is a no-op.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	p.stopped = true
	p.mu.Unlock()

	p.logger.Info("pool stopping", slog.String("pool_id", p.poolID.String()))

	if _, ok := ctx.Deadline(); !ok && p.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.config.ShutdownTimeout)
		defer cancel()
	}

	p.terminate.Set()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("pool stopped gracefully")
	case <-ctx.Done():
		// Workers cannot be cancelled mid-job; they exit on their own
		// once the current job finishes, since the latch is already set.
		p.logger.Warn("pool shutdown timed out",
			slog.String("pool_id", p.poolID.String()),
		)
		return ctx.Err()
	}

	p.drainInjected(ctx)

	p.extensions.EmitShutdown(ctx)
	return nil
}

// drainInjected finishes any Run submissions that slipped past the
// running check while Stop was flipping it. Panics are captured inside
// the func job and surface at the Run caller, not here.
func (p *Pool) drainInjected(ctx context.Context) {
	for {
		select {
		case ref := <-p.inject:
			ref.Execute(ctx)
		default:
			return
		}
	}
}

// Run executes fn inside the pool and blocks until it completes,
// returning its error or re-raising its panic on the caller. If the
// calling goroutine is already a pool worker, fn runs directly; Join is
// legal inside fn either way.
//
// fn receives the executing worker's context, not the caller's: the
// pool's workers outlive any one Run call, so per-call cancellation
// belongs inside fn.
func (p *Pool) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	if worker.FromContext(ctx) != nil {
		return fn(ctx)
	}

	f := job.NewFunc(fn)

	// The state check and the send stay under one lock so that a ref can
	// never enter the queue after Stop has drained it.
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	if !p.running {
		p.mu.Unlock()
		return ErrPoolNotStarted
	}
	p.inject <- f.AsRef()
	p.mu.Unlock()

	return f.Wait()
}
