// Package dispatch provides the execution contexts the data layer runs on: a
// serial FIFO "main" queue on which all state changes and observable emissions
// happen, a background lane for blocking I/O, and delayed callbacks.
package dispatch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

type queuedJob struct {
	ctx context.Context
	job Job
}

// Queue runs Jobs one at a time on a single worker goroutine in submission order.
// A panicking job is recovered and reported; the worker keeps running.
type Queue struct {
	cfg Config
	ch  chan queuedJob
	log zerolog.Logger

	done   chan struct{} // closed in Stop()
	closed uint32        // 0 running, 1 closed

	wg sync.WaitGroup
}

// NewQueue starts the worker and returns the queue.
func NewQueue(cfg Config, log zerolog.Logger) *Queue {
	cfg = cfg.withDefaults()
	q := &Queue{
		cfg:  cfg,
		ch:   make(chan queuedJob, cfg.QueueSize),
		log:  log.With().Str("lane", cfg.Lane).Logger(),
		done: make(chan struct{}),
	}
	q.wg.Add(1)
	go q.run()
	return q
}

// Submit enqueues job.
//
//   - Returns ErrQueueClosed once Stop has been called.
//   - Returns *QueueFullError if no space frees up within EnqueueTimeout.
//   - Returns ctx.Err() if ctx is cancelled first.
func (q *Queue) Submit(ctx context.Context, job Job) error {
	if atomic.LoadUint32(&q.closed) == 1 {
		return ErrQueueClosed
	}
	select {
	case <-q.done:
		return ErrQueueClosed
	default:
	}

	timer := time.NewTimer(q.cfg.EnqueueTimeout)
	defer timer.Stop()

	select {
	case q.ch <- queuedJob{ctx: ctx, job: job}:
		submissionsTotal.WithLabelValues(q.cfg.Lane).Inc()
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		queueFullTotal.WithLabelValues(q.cfg.Lane).Inc()
		return &QueueFullError{Lane: q.cfg.Lane, Length: len(q.ch), Capacity: cap(q.ch)}
	}
}

// Barrier enqueues a no-op and waits until it runs, so every job submitted
// before it has completed.
func (q *Queue) Barrier(ctx context.Context) error {
	done := make(chan struct{})
	if err := q.Submit(ctx, JobFunc(func(context.Context) error {
		close(done)
		return nil
	})); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-done:
		return nil
	}
}

// Stop rejects new work, drains what is queued, and waits for the worker.
// It is idempotent.
func (q *Queue) Stop() {
	if !atomic.CompareAndSwapUint32(&q.closed, 0, 1) {
		return
	}
	q.log.Debug().Int("pending", len(q.ch)).Msg("stopping dispatch queue")
	close(q.done)
	q.wg.Wait()
	q.log.Debug().Msg("dispatch queue stopped")
}

// Close lets Queue satisfy io.Closer.
func (q *Queue) Close() error {
	q.Stop()
	return nil
}

func (q *Queue) run() {
	defer q.wg.Done()
	for {
		select {
		case qj := <-q.ch:
			q.exec(qj)
			queueDepth.WithLabelValues(q.cfg.Lane).Set(float64(len(q.ch)))
		case <-q.done:
			drained := 0
			for {
				select {
				case qj := <-q.ch:
					q.exec(qj)
					drained++
				default:
					if drained > 0 {
						q.log.Debug().Int("drained", drained).Msg("dispatch queue drained")
					}
					queueDepth.WithLabelValues(q.cfg.Lane).Set(0)
					return
				}
			}
		}
	}
}

func (q *Queue) exec(qj queuedJob) {
	if qj.job == nil {
		return
	}
	// A cancelled job is skipped so it cannot stall the lane.
	select {
	case <-qj.ctx.Done():
		q.handleError(qj.ctx.Err())
		return
	default:
	}

	start := time.Now()
	err := q.runGuarded(qj)
	runDuration.WithLabelValues(q.cfg.Lane).Observe(time.Since(start).Seconds())
	if err != nil {
		jobFailuresTotal.WithLabelValues(q.cfg.Lane).Inc()
		q.handleError(err)
	}
}

func (q *Queue) runGuarded(qj queuedJob) (err error) {
	defer func() {
		if r := recover(); r != nil {
			q.log.Error().Interface("panic", r).Msg("dispatch job panic")
			err = &PanicError{Value: r}
		}
	}()
	return qj.job.Run(qj.ctx)
}

func (q *Queue) handleError(err error) {
	if err == nil || q.cfg.ErrorHandler == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			q.log.Error().Interface("panic", r).Msg("dispatch error handler panic")
		}
	}()
	q.cfg.ErrorHandler(err)
}
