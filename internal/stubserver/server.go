// Package stubserver plays the itinerary service for development and tests.
// It serves the offline backup payload and can be told to fail the handshake
// or the fetch, or to answer with a malformed or empty body.
package stubserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Failure selects how the stub misbehaves.
type Failure string

const (
	FailNone      Failure = "none"
	FailConnect   Failure = "connect"
	FailFetch     Failure = "fetch"
	FailMalformed Failure = "malformed"
	// FailEmpty answers 200 with a well-formed payload that has no itineraries.
	FailEmpty Failure = "empty"
)

func (f Failure) valid() bool {
	switch f {
	case FailNone, FailConnect, FailFetch, FailMalformed, FailEmpty:
		return true
	}
	return false
}

// ParseFailure validates a failure mode name. Empty means FailNone.
func ParseFailure(s string) (Failure, error) {
	if s == "" {
		return FailNone, nil
	}
	f := Failure(s)
	if !f.valid() {
		return "", fmt.Errorf("unknown failure mode %q", s)
	}
	return f, nil
}

// PayloadSource yields the body served by the adapter endpoint.
type PayloadSource interface {
	Load() ([]byte, error)
}

// Options configure a Server.
type Options struct {
	AdapterPath string
	ConnectPath string
	Payload     PayloadSource
	Failure     Failure
	Log         zerolog.Logger
}

// Server is an http.Handler emulating the itinerary service.
type Server struct {
	opts   Options
	router *mux.Router
	log    zerolog.Logger

	mu      sync.Mutex
	failure Failure
	counts  map[string]int
}

// New builds the router.
func New(opts Options) *Server {
	if opts.Failure == "" {
		opts.Failure = FailNone
	}
	s := &Server{
		opts:    opts,
		log:     opts.Log.With().Str("component", "stubserver").Logger(),
		failure: opts.Failure,
		counts:  make(map[string]int),
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *mux.Router {
	root := mux.NewRouter()
	root.Use(s.requestID, s.recoverPanics)

	root.HandleFunc(s.opts.ConnectPath, s.handleConnect).Methods("GET")
	root.HandleFunc(s.opts.AdapterPath, s.handleFetch).Methods("GET")

	root.HandleFunc("/api/stub/failure", s.handleGetFailure).Methods("GET")
	root.HandleFunc("/api/stub/failure", s.handlePutFailure).Methods("PUT")
	root.HandleFunc("/api/health", s.handleHealth).Methods("GET")
	root.Handle("/metrics", promhttp.Handler()).Methods("GET")
	return root
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// SetFailure switches the failure mode.
func (s *Server) SetFailure(f Failure) {
	s.mu.Lock()
	s.failure = f
	s.mu.Unlock()
	s.log.Info().Str("failure", string(f)).Msg("failure mode changed")
}

// Failure returns the current failure mode.
func (s *Server) Failure() Failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure
}

// Hits returns how often the named endpoint ("connect" or "fetch") was called.
func (s *Server) Hits(endpoint string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[endpoint]
}

func (s *Server) hit(endpoint string) Failure {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[endpoint]++
	return s.failure
}

// ------------------------------
// handlers
// ------------------------------

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	if s.hit("connect") == FailConnect {
		writeError(w, http.StatusServiceUnavailable, "session handshake refused")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"session":   uuid.NewString(),
		"requestId": w.Header().Get("X-Request-ID"),
	})
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	switch s.hit("fetch") {
	case FailFetch:
		writeError(w, http.StatusServiceUnavailable, "adapter unavailable")
		return
	case FailMalformed:
		writeBody(w, http.StatusOK, []byte(`{"users": [`))
		return
	case FailEmpty:
		writeBody(w, http.StatusOK, []byte(`{"users":[]}`))
		return
	}

	locale := strings.Trim(r.URL.Query().Get("params"), "[]'\"")
	if locale == "" {
		writeError(w, http.StatusBadRequest, "missing params")
		return
	}
	body, err := s.opts.Payload.Load()
	if err != nil {
		s.log.Error().Stack().Err(err).Msg("loading stub payload failed")
		writeError(w, http.StatusInternalServerError, "payload unavailable")
		return
	}
	s.log.Debug().Str("locale", locale).Int("bytes", len(body)).Msg("serving travel data")
	writeBody(w, http.StatusOK, body)
}

type failureBody struct {
	Mode Failure `json:"mode"`
}

func (s *Server) handleGetFailure(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, failureBody{Mode: s.Failure()})
}

func (s *Server) handlePutFailure(w http.ResponseWriter, r *http.Request) {
	var body failureBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !body.Mode.valid() {
		writeError(w, http.StatusBadRequest, "unknown failure mode "+string(body.Mode))
		return
	}
	s.SetFailure(body.Mode)
	writeJSON(w, http.StatusOK, body)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "UP",
		"failure":   s.Failure(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// ------------------------------
// middleware
// ------------------------------

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Str("request_id", id).
			Dur("elapsed", time.Since(start)).Msg("request")
	})
}

func (s *Server) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error().
					Interface("panic", rec).
					Str("method", r.Method).
					Str("url", r.URL.String()).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")
				writeError(w, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// ------------------------------
// serving
// ------------------------------

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. ready, when non-nil, receives the bound address.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("stub itinerary service starting")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	if ready != nil {
		ready(ln.Addr())
	}

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info().Msg("stub itinerary service stopping")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
