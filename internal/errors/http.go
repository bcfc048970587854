package errors

import "fmt"

// IsSuccessStatus applies the itinerary service contract: anything in
// 200..399 is a success, everything else a failure.
func IsSuccessStatus(code int) bool {
	return code >= 200 && code <= 399
}

// NewHTTPError classifies a failed HTTP exchange.
func NewHTTPError(op string, statusCode int, body string) *ClassifiedError {
	return &ClassifiedError{
		Category:   categoryFor(statusCode),
		Op:         op,
		StatusCode: statusCode,
		Body:       body,
		Underlying: fmt.Errorf("unexpected status %d", statusCode),
	}
}

// NewNetworkError classifies a failure below HTTP. Always recoverable.
func NewNetworkError(op string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:   Recoverable,
		Op:         op,
		Underlying: fmt.Errorf("network error: %w", err),
	}
}

// NewDecodeError classifies a response whose body could not be decoded.
func NewDecodeError(op string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:   Irrecoverable,
		Op:         op,
		Underlying: err,
	}
}

func categoryFor(code int) Category {
	switch {
	case code == 408, code == 429:
		return Recoverable
	case code >= 400 && code < 500:
		return Irrecoverable
	case code >= 500 && code < 600:
		return Recoverable
	default:
		// 1xx and anything unexpected.
		return Irrecoverable
	}
}
