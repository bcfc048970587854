package main

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/backup"
	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/stubserver"
)

func stubService(t *testing.T) *stubserver.Server {
	t.Helper()
	stub := stubserver.New(stubserver.Options{
		AdapterPath: "/adapters/TravelDataAdapter/getTravelData",
		ConnectPath: "/api/session",
		Payload:     backup.Source{},
		Log:         zerolog.Nop(),
	})
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	t.Setenv("TRAVELSYNC_ENVIRONMENT", "testing")
	t.Setenv("TRAVELSYNC_BASE_URL", srv.URL)
	t.Setenv("TRAVELSYNC_FETCH_TIMEOUT", "5s")
	return stub
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	serviceURL, debug, jsonLogs = "", false, false
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--json-logs"))
	if err := root.Execute(); err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out.String())
	}
	return out.String()
}

func TestCLI_Sync(t *testing.T) {
	stubService(t)

	out := run(t, "sync")
	for _, want := range []string{"Welcome!", "connected:   true", "valid:       true", "itineraries: 5", "selected:    0"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestCLI_SyncFallsBackWhenServiceFails(t *testing.T) {
	stub := stubService(t)
	stub.SetFailure(stubserver.FailConnect)

	out := run(t, "sync")
	if !strings.Contains(out, "connected:   false") || !strings.Contains(out, "valid:       true") {
		t.Fatalf("expected bundled fallback:\n%s", out)
	}
}

func TestCLI_ShowWeatherItinerary(t *testing.T) {
	stubService(t)

	out := run(t, "show", "--itinerary", "2")
	if !strings.Contains(out, "itinerary 2 (weather)") {
		t.Fatalf("missing storyline label:\n%s", out)
	}
	if !strings.Contains(out, "Regroup with audio/visual team") || !strings.Contains(out, "[weather]") {
		t.Fatalf("expected weather-affected event:\n%s", out)
	}
}

func TestCLI_Trips(t *testing.T) {
	out := run(t, "trips")
	if !strings.Contains(out, "Berlin, Event Planning") || !strings.Contains(out, "Expansion Proposal New York") {
		t.Fatalf("unexpected trips:\n%s", out)
	}
}
