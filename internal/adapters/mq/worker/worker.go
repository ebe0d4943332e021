// Package worker drives lookups off the queue at a fixed pace.
//
// A Dispatcher owns the consuming side of the queue. Every tick it pops at
// most one request and hands it to a Handler on its own goroutine, so the
// dispatch rate never exceeds one request per interval whatever the backlog.
package worker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/hiscorewatch/internal/adapters/mq/queue"
	"github.com/okian/hiscorewatch/pkg/logger"
	"github.com/okian/hiscorewatch/pkg/metrics"
)

// Default dispatcher configuration constants.
const (
	DefaultInterval     = 500 * time.Millisecond
	DefaultInitialDelay = 2 * time.Second
)

// Request abstracts what the dispatcher reads off the queue.
type Request = queue.Request

// Handler performs the lookup for one request. Handle runs on its own
// goroutine and must not assume it is called in dispatch order.
type Handler interface {
	Handle(ctx context.Context, r Request)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, r Request)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, r Request) { f(ctx, r) }

// Queue defines how the dispatcher receives requests.
type Queue interface {
	Dequeue(ctx context.Context) (Request, bool)
	Clear() int
}

// Dispatcher pops one request per tick and hands it to the Handler.
type Dispatcher struct {
	queue   Queue
	handler Handler

	name         string
	interval     time.Duration
	initialDelay time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	inflight   sync.WaitGroup
	active     atomic.Int64
	dispatched atomic.Int64

	logger logger.Logger
}

// NewDispatcher creates a dispatcher with configuration options.
func NewDispatcher(q Queue, h Handler, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		queue:        q,
		handler:      h,
		name:         "dispatcher",
		interval:     DefaultInterval,
		initialDelay: DefaultInitialDelay,
		logger:       logger.GetOr(logger.Nop()).Named("dispatcher"),
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.name != "dispatcher" {
		d.logger = d.logger.Named(d.name)
	}

	return d
}

// Start launches the timer goroutine. The first tick fires after the initial
// delay, then one every interval until Stop or ctx is done.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.running {
		return ErrAlreadyStarted
	}
	d.running = true
	d.stopCh = make(chan struct{})
	d.doneCh = make(chan struct{})

	go d.run(ctx, d.stopCh, d.doneCh)

	d.logger.Info(ctx, "dispatcher started",
		logger.Duration("interval", d.interval),
		logger.Duration("initial_delay", d.initialDelay),
	)
	return nil
}

func (d *Dispatcher) run(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	delay := time.NewTimer(d.initialDelay)
	defer delay.Stop()

	select {
	case <-ctx.Done():
		return
	case <-stopCh:
		return
	case <-delay.C:
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		// Stop wins over a tick that became ready at the same time.
		select {
		case <-stopCh:
			return
		default:
		}

		d.Tick(ctx)

		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
		}
	}
}

// Tick pops at most one request and dispatches it without waiting for the
// result. Returns true if a request was dispatched.
func (d *Dispatcher) Tick(ctx context.Context) bool {
	r, ok := d.queue.Dequeue(ctx)
	if !ok {
		metrics.RecordDispatchTick("idle")
		return false
	}
	metrics.RecordDispatchTick("dispatched")
	d.dispatched.Add(1)

	// Lookups outlive the dispatcher; only their results are discarded on shutdown.
	hctx := context.WithoutCancel(ctx)

	d.inflight.Add(1)
	d.active.Add(1)
	metrics.UpdateLookupsInFlight(1)
	go d.handle(hctx, r)
	return true
}

func (d *Dispatcher) handle(ctx context.Context, r Request) { //nolint:gocritic // hugeParam: requests are small values
	defer func() {
		if rec := recover(); rec != nil {
			metrics.RecordErrorByComponent("dispatcher", "handler_panic")
			d.logger.Error(ctx, "handler panicked",
				logger.String("subject", r.SubjectID),
				logger.String("panic", fmt.Sprint(rec)),
			)
		}
		metrics.UpdateLookupsInFlight(-1)
		d.active.Add(-1)
		d.inflight.Done()
	}()

	d.handler.Handle(ctx, r)
}

// Stop halts the timer synchronously and clears the queue. In-flight
// handlers keep running; use Wait to drain them. Safe to call repeatedly.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	close(d.stopCh)
	doneCh := d.doneCh
	d.mu.Unlock()

	<-doneCh

	if dropped := d.queue.Clear(); dropped > 0 {
		d.logger.Info(context.Background(), "dropped queued requests on stop", logger.Int("dropped", dropped))
	}
}

// Wait blocks until every in-flight handler has returned or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		d.logger.Warn(ctx, "wait for in-flight lookups timed out", logger.Int64("in_flight", d.active.Load()))
		return fmt.Errorf("wait for in-flight lookups: %w", ctx.Err())
	}
}

// Running reports whether the timer goroutine is active.
func (d *Dispatcher) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

// InFlight returns the number of handlers currently running.
func (d *Dispatcher) InFlight() int64 { return d.active.Load() }

// Dispatched returns how many requests have been handed to the Handler.
func (d *Dispatcher) Dispatched() int64 { return d.dispatched.Load() }
