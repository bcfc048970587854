package dispatch

import "time"

// Config tunes a Queue. Zero values fall back to defaults.
type Config struct {
	// Lane names the queue in logs and metrics.
	Lane string
	// QueueSize is the buffered capacity of the lane.
	QueueSize int
	// EnqueueTimeout bounds how long Submit waits for space.
	EnqueueTimeout time.Duration
	// ErrorHandler receives job errors and recovered panics.
	ErrorHandler func(error)
}

func (c Config) withDefaults() Config {
	if c.Lane == "" {
		c.Lane = "main"
	}
	if c.QueueSize <= 0 {
		c.QueueSize = 1024
	}
	if c.EnqueueTimeout <= 0 {
		c.EnqueueTimeout = time.Second
	}
	return c
}
