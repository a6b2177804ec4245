package spindle

import "errors"

var (
	// Misuse errors. Join panics with ErrOutsidePool rather than
	// returning it: calling the fork-join primitive from a goroutine the
	// pool does not own is a programming error, and neither closure has
	// run when it is raised.
	ErrOutsidePool = errors.New("spindle: join requires a pool worker context")

	// Lifecycle errors.
	ErrPoolClosed     = errors.New("spindle: pool closed")
	ErrPoolNotStarted = errors.New("spindle: pool not started")
)
