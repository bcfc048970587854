// Package errors classifies failures talking to the itinerary service so the
// transport can decide whether a retry is worthwhile.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Category determines how an error is treated by retry logic.
type Category int

const (
	// Recoverable errors may succeed on a later attempt: 5xx, 408, 429, network failures.
	Recoverable Category = iota

	// Irrecoverable errors fail the same way every time: other 4xx, undecodable bodies.
	Irrecoverable
)

func (c Category) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// ClassifiedError wraps a transport failure with its category.
type ClassifiedError struct {
	Category   Category
	Op         string
	StatusCode int    // 0 for non-HTTP failures
	Body       string // response body, for debugging
	Underlying error
}

func (e *ClassifiedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] %s: HTTP %d: %v", e.Category, e.Op, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Category, e.Op, e.Underlying)
}

// Unwrap returns the underlying error.
func (e *ClassifiedError) Unwrap() error { return e.Underlying }

// IsIrrecoverable reports whether err carries the Irrecoverable category anywhere in its chain.
func IsIrrecoverable(err error) bool {
	var ce *ClassifiedError
	if stderrors.As(err, &ce) {
		return ce.Category == Irrecoverable
	}
	return false
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var ce *ClassifiedError
	if stderrors.As(err, &ce) {
		return ce.StatusCode
	}
	return 0
}
