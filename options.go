package spindle

import (
	"fmt"
	"log/slog"

	"github.com/xraph/spindle/backoff"
	"github.com/xraph/spindle/ext"
)

// Option configures a Pool.
type Option func(*Pool) error

// WithWorkers sets the number of worker goroutines. n must be at least
// one.
func WithWorkers(n int) Option {
	return func(p *Pool) error {
		if n < 1 {
			return fmt.Errorf("spindle: worker count must be positive, got %d", n)
		}
		p.config.Workers = n
		return nil
	}
}

// WithLogger sets the structured logger for the pool.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pool) error {
		p.logger = l
		return nil
	}
}

// WithConfig replaces the pool's entire configuration.
func WithConfig(cfg Config) Option {
	return func(p *Pool) error {
		p.config = cfg
		return nil
	}
}

// WithExtension registers a lifecycle extension on the pool. May be
// given multiple times; extensions are notified in registration order.
func WithExtension(e ext.Extension) Option {
	return func(p *Pool) error {
		p.pendingExts = append(p.pendingExts, e)
		return nil
	}
}

// WithIdleBackoff sets the backoff strategy workers consult after an
// empty pop/steal/inject round.
func WithIdleBackoff(s backoff.Strategy) Option {
	return func(p *Pool) error {
		p.idleBackoff = s
		return nil
	}
}

// WithDequeCapacity sets the initial per-worker deque capacity. n must
// be at least one.
func WithDequeCapacity(n int) Option {
	return func(p *Pool) error {
		if n < 1 {
			return fmt.Errorf("spindle: deque capacity must be positive, got %d", n)
		}
		p.config.DequeCapacity = n
		return nil
	}
}
