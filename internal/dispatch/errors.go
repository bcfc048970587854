package dispatch

import (
	"errors"
	"fmt"
)

// ErrQueueClosed is returned by Submit after Stop has been called.
var ErrQueueClosed = errors.New("dispatch: queue closed")

// ErrQueueFull is the sentinel wrapped by *QueueFullError.
var ErrQueueFull = errors.New("dispatch: queue full")

// QueueFullError reports that the queue stayed full for the whole enqueue timeout.
type QueueFullError struct {
	Lane     string
	Length   int
	Capacity int
}

func (e *QueueFullError) Error() string {
	return fmt.Sprintf("dispatch: lane %q full (%d/%d)", e.Lane, e.Length, e.Capacity)
}

// Unwrap lets errors.Is(err, ErrQueueFull) succeed.
func (e *QueueFullError) Unwrap() error { return ErrQueueFull }

// PanicError wraps a value recovered from a panicking job.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string { return fmt.Sprintf("dispatch: job panic: %v", e.Value) }
