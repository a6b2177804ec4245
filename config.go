package spindle

import (
	"runtime"
	"time"
)

// Config holds configuration for a Pool.
type Config struct {
	// Workers is the number of worker goroutines in the pool.
	Workers int

	// DequeCapacity is the initial capacity of each worker's deque.
	// Deques grow on demand; this only sizes the first ring.
	DequeCapacity int

	// InjectBuffer is the capacity of the external injection queue used
	// by Run calls from non-worker goroutines.
	InjectBuffer int

	// ShutdownTimeout is the maximum time Stop waits for workers to
	// finish when its context has no earlier deadline. On expiry Stop
	// returns the context error; workers finish in the background.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Workers:         runtime.GOMAXPROCS(0),
		DequeCapacity:   64,
		InjectBuffer:    256,
		ShutdownTimeout: 30 * time.Second,
	}
}
