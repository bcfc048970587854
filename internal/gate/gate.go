// Package gate arbitrates whether a session with the itinerary service is
// established before a fetch may proceed.
package gate

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"

	"github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/dispatch"
)

// State is the connection state of the gate.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// Connector performs the session handshake. It is called on the background lane.
type Connector interface {
	Connect(ctx context.Context) error
}

// ConnectorFunc adapts a function to a Connector.
type ConnectorFunc func(ctx context.Context) error

// Connect implements Connector.
func (f ConnectorFunc) Connect(ctx context.Context) error { return f(ctx) }

var (
	connectAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travelsync",
			Subsystem: "gate",
			Name:      "connect_attempts_total",
			Help:      "Session handshakes by outcome.",
		},
		[]string{"outcome"},
	)

	pendingOverwrittenTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "travelsync",
			Subsystem: "gate",
			Name:      "pending_overwritten_total",
			Help:      "Pending continuations replaced by a later request while connecting.",
		},
	)
)

// Gate holds at most one pending continuation. A request made while a
// connection is in progress replaces the earlier one (last writer wins).
//
// All transitions run on the dispatcher's main context.
type Gate struct {
	connector Connector
	disp      dispatch.Dispatcher
	log       zerolog.Logger

	// OnFailure runs on the main context after a failed handshake. Set it
	// before the first RequestFetch.
	OnFailure func(err error)

	// OnConnected runs on the main context after a successful handshake,
	// before the pending continuation.
	OnConnected func()

	mu      sync.Mutex
	state   State
	pending func()
}

// New returns a disconnected gate.
func New(connector Connector, disp dispatch.Dispatcher, log zerolog.Logger) *Gate {
	return &Gate{
		connector: connector,
		disp:      disp,
		log:       log.With().Str("component", "gate").Logger(),
		state:     Disconnected,
	}
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// RequestFetch runs fn right away when connected. Otherwise fn becomes the
// pending continuation and a handshake starts unless one is already running.
func (g *Gate) RequestFetch(fn func()) {
	g.mu.Lock()
	if g.state == Connected {
		g.mu.Unlock()
		fn()
		return
	}
	if g.pending != nil {
		pendingOverwrittenTotal.Inc()
		g.log.Warn().Msg("replacing pending fetch continuation while connecting")
	}
	g.pending = fn
	start := g.state == Disconnected
	if start {
		g.state = Connecting
	}
	g.mu.Unlock()

	if start {
		g.connect()
	}
}

// Reset drops the session so the next request reconnects.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == Connected {
		g.state = Disconnected
	}
}

func (g *Gate) connect() {
	g.log.Debug().Msg("connecting to itinerary service")
	g.disp.Background(func(ctx context.Context) {
		err := g.connector.Connect(ctx)
		g.disp.Main(func() {
			if err != nil {
				g.onConnectFailure(err)
				return
			}
			g.onConnectSuccess()
		})
	})
}

func (g *Gate) onConnectSuccess() {
	connectAttemptsTotal.WithLabelValues("success").Inc()
	g.mu.Lock()
	g.state = Connected
	next := g.pending
	g.pending = nil
	g.mu.Unlock()

	g.log.Info().Msg("connected to itinerary service")
	if g.OnConnected != nil {
		g.OnConnected()
	}
	if next != nil {
		next()
	}
}

func (g *Gate) onConnectFailure(err error) {
	connectAttemptsTotal.WithLabelValues("failure").Inc()
	g.mu.Lock()
	g.state = Disconnected
	g.pending = nil
	g.mu.Unlock()

	g.log.Warn().Err(err).Msg("connect to itinerary service failed")
	if g.OnFailure != nil {
		g.OnFailure(err)
	}
}
