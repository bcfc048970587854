// Package remote talks to the itinerary service: a session handshake and the
// travel data adapter request.
package remote

import (
	"context"
	"fmt"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/errors"
)

const (
	DefaultAdapterPath = "/adapters/TravelDataAdapter/getTravelData"
	DefaultConnectPath = "/api/session"
	DefaultLocale      = "en"

	opConnect = "connect"
	opFetch   = "fetch travel data"
)

// Client is safe for concurrent use.
type Client struct {
	baseURL     string
	adapterPath string
	connectPath string
	locale      string

	hc   *http.Client
	rest *resty.Client

	maxRetries int
	retryBase  time.Duration
	limiter    rateLimiter
	debug      bool
	log        zerolog.Logger
}

// rateLimiter is the subset of *rate.Limiter used here.
type rateLimiter interface {
	Wait(ctx context.Context) error
}

// New builds a Client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("remote: base URL must not be empty")
	}
	c := &Client{
		baseURL:     baseURL,
		adapterPath: DefaultAdapterPath,
		connectPath: DefaultConnectPath,
		locale:      DefaultLocale,
		hc:          &http.Client{Timeout: 60 * time.Second},
		retryBase:   200 * time.Millisecond,
		log:         zerolog.Nop(),
	}
	if debugLoggingRequested() {
		opts = append(opts, WithDebugLogging(true))
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("remote: %w", err)
		}
	}
	if c.debug {
		base := c.hc.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		c.hc.Transport = &debugTransport{base: base, log: c.log}
	}

	c.rest = resty.NewWithClient(c.hc).
		SetBaseURL(c.baseURL).
		SetHeader("Accept", "application/json")
	return c, nil
}

// Connect performs the session handshake. Any status outside 200..399 fails.
func (c *Client) Connect(ctx context.Context) error {
	_, err := c.do(ctx, opConnect, func(r *resty.Request) (*resty.Response, error) {
		return r.Get(c.connectPath)
	})
	return err
}

// FetchTravelData requests the adapter and returns the raw JSON body.
func (c *Client) FetchTravelData(ctx context.Context) ([]byte, error) {
	return c.do(ctx, opFetch, func(r *resty.Request) (*resty.Response, error) {
		return r.SetQueryParam("params", fmt.Sprintf("['%s']", c.locale)).Get(c.adapterPath)
	})
}

func (c *Client) do(ctx context.Context, op string, send func(*resty.Request) (*resty.Response, error)) ([]byte, error) {
	ctx, span := tracer.Start(ctx, op, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	requestID := uuid.NewString()
	span.SetAttributes(attribute.String("request.id", requestID))

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.retryBase
	exp.Multiplier = 2
	exp.Reset()
	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(c.maxRetries)), ctx)

	var (
		body    []byte
		attempt int
	)
	err := backoff.Retry(func() error {
		attempt++
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return backoff.Permanent(errors.NewNetworkError(op, err))
			}
		}
		span.AddEvent("attempt", trace.WithAttributes(attribute.Int("attempt", attempt)))

		start := time.Now()
		resp, err := send(c.rest.R().SetContext(ctx).SetHeader("X-Request-ID", requestID))
		requestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
		if err != nil {
			return errors.NewNetworkError(op, err)
		}

		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))
		if !errors.IsSuccessStatus(resp.StatusCode()) {
			herr := errors.NewHTTPError(op, resp.StatusCode(), resp.String())
			if herr.Category == errors.Irrecoverable {
				return backoff.Permanent(herr)
			}
			return herr
		}
		body = resp.Body()
		return nil
	}, policy)

	if err != nil {
		requestsTotal.WithLabelValues(op, "failure").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.Warn().Err(err).Str("op", op).Str("request_id", requestID).Int("attempts", attempt).Msg("itinerary service request failed")
		return nil, err
	}
	requestsTotal.WithLabelValues(op, "success").Inc()
	c.log.Debug().Str("op", op).Str("request_id", requestID).Int("bytes", len(body)).Msg("itinerary service request ok")
	return body, nil
}
