package presenter

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/okian/hiscorewatch/pkg/logger"
	"github.com/okian/hiscorewatch/pkg/metrics"
)

const defaultBuffer = 256

// ErrStopped is returned when work is posted after Stop.
var ErrStopped = errors.New("presenter stopped")

// Task is a unit of work run on the presenter goroutine.
type Task func(ctx context.Context)

// Presenter serializes every presentation side effect on one goroutine.
type Presenter struct {
	sinks  []Sink
	buffer int
	logger logger.Logger

	mu      sync.RWMutex
	tasks   chan Task
	started bool
	stopped bool
	done    chan struct{}
}

// New creates a presenter. Call Start before posting work.
func New(opts ...Option) *Presenter {
	p := &Presenter{
		buffer: defaultBuffer,
		logger: logger.GetOr(logger.Nop()).Named("presenter"),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.tasks = make(chan Task, p.buffer)
	return p
}

// Start launches the presenter goroutine. It runs until Stop.
func (p *Presenter) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started || p.stopped {
		return
	}
	p.started = true
	go p.loop(context.WithoutCancel(ctx))
}

func (p *Presenter) loop(ctx context.Context) {
	defer close(p.done)
	for task := range p.tasks {
		p.run(ctx, task)
	}
}

func (p *Presenter) run(ctx context.Context, task Task) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.RecordErrorByComponent("presenter", "task_panic")
			p.logger.Error(ctx, "presentation task panicked", logger.String("panic", fmt.Sprint(rec)))
		}
	}()
	task(ctx)
}

// Post queues task. Returns false after Stop or when the buffer is full.
func (p *Presenter) Post(task Task) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.stopped {
		return false
	}
	select {
	case p.tasks <- task:
		return true
	default:
		metrics.RecordErrorByComponent("presenter", "buffer_full")
		return false
	}
}

// Show queues a to be handed to every sink.
func (p *Presenter) Show(ctx context.Context, a Alert) bool {
	return p.Post(func(ctx context.Context) {
		for _, s := range p.sinks {
			if err := s.Present(ctx, a); err != nil {
				metrics.RecordErrorByComponent("presenter", "sink")
				p.logger.Warn(ctx, "sink failed", logger.String("alert_id", a.ID.String()), logger.Error(err))
			}
		}
	})
}

// Stop rejects further work, runs what is already queued and waits for the
// goroutine to exit. Safe to call repeatedly.
func (p *Presenter) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	started := p.started
	close(p.tasks)
	p.mu.Unlock()

	if started {
		<-p.done
	}
}
