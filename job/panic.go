package job

import (
	"fmt"
	"runtime/debug"
)

// PanicError records a panic captured on the goroutine that executed a
// job, so it can be re-raised on the goroutine that scheduled the job.
// Resume re-panics with the original value, preserving identity for
// callers that match on it; the captured stack is kept for diagnostics
// since the re-raise happens far from the original failure point.
type PanicError struct {
	Value any
	Stack []byte
}

// Error implements error.
func (e *PanicError) Error() string {
	return fmt.Sprintf("job panicked: %v", e.Value)
}

// Resume re-raises the captured panic with its original payload.
func (e *PanicError) Resume() {
	panic(e.Value)
}

// Capture runs fn, converting an unwinding panic into a *PanicError.
// Exactly one of the two return conventions applies: on normal completion
// p is nil and v holds the result; on panic v is the zero value and p
// carries the payload plus the stack at the point of failure.
func Capture[T any](fn func() T) (v T, p *PanicError) {
	defer func() {
		if r := recover(); r != nil {
			p = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	v = fn()
	return v, nil
}
