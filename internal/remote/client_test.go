package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/errors"
)

func TestFetchTravelData_SendsLocaleParamAndRequestID(t *testing.T) {
	t.Parallel()
	var gotParams, gotPath, gotRequestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotParams = r.URL.Query().Get("params")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"users":[]}`))
	}))
	defer srv.Close()

	c, err := New(srv.URL, WithLocale("de"), WithAdapterPath("adapters/Travel/get"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	body, err := c.FetchTravelData(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(body) != `{"users":[]}` {
		t.Fatalf("body: %s", body)
	}
	if gotPath != "/adapters/Travel/get" {
		t.Fatalf("path: %s", gotPath)
	}
	if gotParams != "['de']" {
		t.Fatalf("params: %s", gotParams)
	}
	if gotRequestID == "" {
		t.Fatal("missing X-Request-ID")
	}
}

func TestFetchTravelData_RedirectRangeIsSuccess(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// 304 without Location is not followed and still counts as success.
		w.WriteHeader(http.StatusNotModified)
	}))
	defer srv.Close()

	c, _ := New(srv.URL)
	if _, err := c.FetchTravelData(context.Background()); err != nil {
		t.Fatalf("3xx must be success, got %v", err)
	}
}

func TestFetchTravelData_StatusClassification(t *testing.T) {
	t.Parallel()
	for code, irrecoverable := range map[int]bool{404: true, 401: true, 500: false, 503: false} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))
		c, _ := New(srv.URL)
		_, err := c.FetchTravelData(context.Background())
		srv.Close()
		if err == nil {
			t.Fatalf("status %d: expected error", code)
		}
		if errors.StatusCode(err) != code || errors.IsIrrecoverable(err) != irrecoverable {
			t.Fatalf("status %d: got %v", code, err)
		}
	}
}

func TestFetchTravelData_NoRetryByDefault(t *testing.T) {
	t.Parallel()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c, _ := New(srv.URL)
	if _, err := c.FetchTravelData(context.Background()); err == nil {
		t.Fatal("expected failure")
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("expected a single attempt, got %d", hits)
	}
}

func TestFetchTravelData_RetriesRecoverable(t *testing.T) {
	t.Parallel()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"users":[]}`))
	}))
	defer srv.Close()

	c, _ := New(srv.URL, WithMaxRetries(3), WithRetryBackoff(time.Millisecond))
	if _, err := c.FetchTravelData(context.Background()); err != nil {
		t.Fatalf("expected success after retries: %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
}

func TestFetchTravelData_DoesNotRetryIrrecoverable(t *testing.T) {
	t.Parallel()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c, _ := New(srv.URL, WithMaxRetries(5), WithRetryBackoff(time.Millisecond))
	_, err := c.FetchTravelData(context.Background())
	if !errors.IsIrrecoverable(err) {
		t.Fatalf("expected irrecoverable, got %v", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("irrecoverable must not be retried, hits=%d", hits)
	}
}

func TestConnect(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/session" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	ok, _ := New(srv.URL, WithConnectPath("/session"))
	if err := ok.Connect(context.Background()); err != nil {
		t.Fatalf("connect: %v", err)
	}
	bad, _ := New(srv.URL, WithConnectPath("/elsewhere"))
	if err := bad.Connect(context.Background()); err == nil {
		t.Fatal("expected connect failure on 404")
	}
}

func TestConnect_NetworkFailure(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, _ := New(url, WithHTTPTimeout(time.Second))
	err := c.Connect(context.Background())
	if err == nil || errors.IsIrrecoverable(err) || errors.StatusCode(err) != 0 {
		t.Fatalf("expected recoverable network error, got %v", err)
	}
}

func TestNew_OptionValidation(t *testing.T) {
	t.Parallel()
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty base URL")
	}
	bad := []Option{
		WithHTTPTimeout(0),
		WithLocale(""),
		WithAdapterPath(""),
		WithConnectPath(""),
		WithMaxRetries(-1),
		WithRetryBackoff(0),
		WithHTTPClient(nil),
	}
	for i, opt := range bad {
		if _, err := New("http://example.com", opt); err == nil {
			t.Fatalf("option %d: expected error", i)
		}
	}
}

func TestNew_AutoEnableDebugViaEnv(t *testing.T) {
	t.Setenv("TRAVELSYNC_DEBUG", "true")
	c, err := New("http://example.com")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if _, ok := c.hc.Transport.(*debugTransport); !ok {
		t.Fatal("expected debugTransport when TRAVELSYNC_DEBUG=true")
	}
}

func TestRateLimit_PacesRequests(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c, _ := New(srv.URL, WithRateLimit(20, 1))
	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := c.FetchTravelData(context.Background()); err != nil {
			t.Fatalf("fetch %d: %v", i, err)
		}
	}
	// Burst 1 at 20/s: the 2nd and 3rd requests wait ~50ms each.
	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Fatalf("requests were not paced: %v", elapsed)
	}
}

func TestWithHTTPClient_LeavesCallerClientUntouched(t *testing.T) {
	t.Parallel()
	hc := &http.Client{Timeout: 5 * time.Second}

	c, err := New("http://example.com", WithHTTPClient(hc), WithHTTPTimeout(time.Second), WithDebugLogging(true))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if hc.Timeout != 5*time.Second || hc.Transport != nil {
		t.Fatalf("caller client was modified: timeout=%s transport=%T", hc.Timeout, hc.Transport)
	}
	if c.hc == hc || c.hc.Timeout != time.Second {
		t.Fatalf("client should use its own copy with the new timeout, got %s", c.hc.Timeout)
	}
}
