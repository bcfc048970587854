package remote

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Option configures a Client during construction in New.
type Option func(*Client) error

// WithHTTPClient uses a copy of hc as the underlying client. Later options such
// as WithHTTPTimeout and WithDebugLogging change the copy, never hc itself.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		cp := *hc
		c.hc = &cp
		return nil
	}
}

// WithHTTPTimeout bounds a single attempt including reading the body. Per-call
// context deadlines still apply on top of it.
func WithHTTPTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("http timeout must be > 0")
		}
		c.hc.Timeout = d
		return nil
	}
}

// WithAdapterPath sets the path of the travel data adapter endpoint.
func WithAdapterPath(p string) Option {
	return func(c *Client) error {
		if p == "" {
			return fmt.Errorf("adapter path must not be empty")
		}
		c.adapterPath = "/" + strings.TrimLeft(p, "/")
		return nil
	}
}

// WithConnectPath sets the path used for the session handshake.
func WithConnectPath(p string) Option {
	return func(c *Client) error {
		if p == "" {
			return fmt.Errorf("connect path must not be empty")
		}
		c.connectPath = "/" + strings.TrimLeft(p, "/")
		return nil
	}
}

// WithLocale sets the locale sent as params=['<locale>'].
func WithLocale(locale string) Option {
	return func(c *Client) error {
		if locale == "" {
			return fmt.Errorf("locale must not be empty")
		}
		c.locale = locale
		return nil
	}
}

// WithMaxRetries allows n extra attempts for recoverable failures. Zero, the
// default, makes a single attempt and leaves recovery to the caller's fallback.
func WithMaxRetries(n int) Option {
	return func(c *Client) error {
		if n < 0 {
			return fmt.Errorf("max retries must be >= 0")
		}
		c.maxRetries = n
		return nil
	}
}

// WithRetryBackoff sets the initial exponential backoff interval.
func WithRetryBackoff(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("retry backoff must be > 0")
		}
		c.retryBase = d
		return nil
	}
}

// WithRateLimit paces outgoing requests to rps per second with the given burst.
// rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) error {
		if rps <= 0 {
			c.limiter = nil
			return nil
		}
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		return nil
	}
}

// WithLogger sets the logger used for request logging.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) error {
		c.log = log
		return nil
	}
}

// WithDebugLogging wraps the transport so every request and response is dumped.
func WithDebugLogging(enabled bool) Option {
	return func(c *Client) error {
		c.debug = enabled
		return nil
	}
}
