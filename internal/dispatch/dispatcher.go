package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Dispatcher is the scheduling contract the data layer is written against.
//
// Main runs fn on the serial main context. Background runs fn off the main
// context; fn reports results by calling Main. After runs fn on the main
// context once d has elapsed.
type Dispatcher interface {
	Main(fn func())
	Background(fn func(ctx context.Context))
	After(d time.Duration, fn func())
}

// Loop is the production Dispatcher: one Queue for the main context and one
// goroutine per background task.
type Loop struct {
	main *Queue
	log  zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	bg      sync.WaitGroup
	pending atomic.Int64 // background tasks + armed timers
	closed  atomic.Bool

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
}

var _ Dispatcher = (*Loop)(nil)

// NewLoop starts the main queue.
func NewLoop(cfg Config, log zerolog.Logger) *Loop {
	ctx, cancel := context.WithCancel(context.Background())
	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = func(err error) {
			log.Error().Err(err).Msg("main context job failed")
		}
	}
	return &Loop{
		main:   NewQueue(cfg, log),
		log:    log,
		ctx:    ctx,
		cancel: cancel,
		timers: make(map[*time.Timer]struct{}),
	}
}

// Main implements Dispatcher.
func (l *Loop) Main(fn func()) {
	err := l.main.Submit(l.ctx, JobFunc(func(context.Context) error {
		fn()
		return nil
	}))
	if err != nil {
		l.log.Warn().Err(err).Msg("dropping main context task")
	}
}

// Background implements Dispatcher. The context passed to fn is cancelled by Stop.
func (l *Loop) Background(fn func(ctx context.Context)) {
	if l.closed.Load() {
		l.log.Warn().Msg("dropping background task after stop")
		return
	}
	l.bg.Add(1)
	l.pending.Add(1)
	go func() {
		defer l.bg.Done()
		defer l.pending.Add(-1)
		defer func() {
			if r := recover(); r != nil {
				l.log.Error().Interface("panic", r).Msg("background task panic")
			}
		}()
		fn(l.ctx)
	}()
}

// After implements Dispatcher.
func (l *Loop) After(d time.Duration, fn func()) {
	if l.closed.Load() {
		return
	}
	l.pending.Add(1)
	l.mu.Lock()
	defer l.mu.Unlock()
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		l.mu.Lock()
		delete(l.timers, t)
		l.mu.Unlock()
		l.Main(fn)
		l.pending.Add(-1)
	})
	l.timers[t] = struct{}{}
}

// Barrier waits until every main context task queued before the call has run.
func (l *Loop) Barrier(ctx context.Context) error {
	return l.main.Barrier(ctx)
}

// Settle waits until no background task or timer is outstanding and the main
// context has processed everything they posted.
func (l *Loop) Settle(ctx context.Context) error {
	for {
		before := l.pending.Load()
		if err := l.main.Barrier(ctx); err != nil {
			return err
		}
		if before == 0 && l.pending.Load() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Millisecond):
		}
	}
}

// Stop cancels background work, disarms timers and drains the main queue.
func (l *Loop) Stop() {
	if !l.closed.CompareAndSwap(false, true) {
		return
	}
	l.cancel()

	l.mu.Lock()
	for t := range l.timers {
		if t.Stop() {
			l.pending.Add(-1)
		}
		delete(l.timers, t)
	}
	l.mu.Unlock()

	l.bg.Wait()
	l.main.Stop()
}

// Inline runs everything synchronously on the caller's goroutine. After ignores
// the delay. Intended for tests and one-shot tools.
type Inline struct{}

var _ Dispatcher = Inline{}

// Main implements Dispatcher.
func (Inline) Main(fn func()) { fn() }

// Background implements Dispatcher.
func (Inline) Background(fn func(ctx context.Context)) { fn(context.Background()) }

// After implements Dispatcher.
func (Inline) After(_ time.Duration, fn func()) { fn() }
