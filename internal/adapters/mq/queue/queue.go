// Package queue defines the contract for enqueuing and consuming detection requests.
//
// The queue is a two-class deque: social requests are pushed at the head and
// ambient requests at the tail, so a social request jumps the ambient backlog.
package queue

import (
	"context"
	"sync"

	"github.com/okian/hiscorewatch/internal/domain/model"
	"github.com/okian/hiscorewatch/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 10000
	defaultInitialBuffer = 64
)

// Request represents the payload type flowing through the queue.
type Request = model.DetectionRequest

// Queue provides non-blocking enqueue and dequeue semantics.
type Queue interface {
	// Enqueue adds a request. Social requests go to the head, ambient to the tail.
	// Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, r Request) bool

	// Dequeue pops the head. Returns false when the queue is empty or closed.
	Dequeue(ctx context.Context) (Request, bool)

	// Len returns the current number of queued requests.
	Len(ctx context.Context) int

	// Clear drops every queued request and returns how many were dropped.
	Clear() int

	// Close rejects further enqueues and drops queued requests.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue with a growable ring buffer.
type InMemoryQueue struct {
	mu            sync.Mutex
	buf           []Request
	head          int // index of the first element
	size          int
	capacity      int
	initialBuffer int
	closed        bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity:      defaultQueueCapacity,
		initialBuffer: defaultInitialBuffer,
	}

	for _, opt := range opts {
		opt(q)
	}

	if q.initialBuffer > q.capacity {
		q.initialBuffer = q.capacity
	}
	q.buf = make([]Request, q.initialBuffer)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)

	return q
}

// Enqueue adds a request according to its class.
func (q *InMemoryQueue) Enqueue(ctx context.Context, r Request) bool { //nolint:gocritic // hugeParam: requests are small values
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		metrics.RecordQueueRejected("closed")
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}
	if ctx.Err() != nil {
		metrics.RecordQueueRejected("context_cancelled")
		return false
	}
	if q.size >= q.capacity {
		metrics.RecordQueueRejected("capacity_exceeded")
		metrics.RecordErrorByComponent("queue", "capacity_exceeded")
		return false
	}

	q.growLocked()
	if r.Class == model.Social {
		q.head = (q.head - 1 + len(q.buf)) % len(q.buf)
		q.buf[q.head] = r
	} else {
		q.buf[(q.head+q.size)%len(q.buf)] = r
	}
	q.size++

	metrics.RecordQueueEnqueue(r.Class.String())
	metrics.UpdateQueueSize(q.size)
	return true
}

// Dequeue pops the head request without blocking.
func (q *InMemoryQueue) Dequeue(ctx context.Context) (Request, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.size == 0 {
		return Request{}, false
	}

	r := q.buf[q.head]
	q.buf[q.head] = Request{}
	q.head = (q.head + 1) % len(q.buf)
	q.size--

	metrics.RecordQueueDequeue()
	metrics.UpdateQueueSize(q.size)
	return r, true
}

// Len returns the current number of queued requests.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Clear drops every queued request.
func (q *InMemoryQueue) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.clearLocked()
}

// Close rejects further enqueues and drops queued requests.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	q.clearLocked()
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

func (q *InMemoryQueue) clearLocked() int {
	dropped := q.size
	for i := range q.buf {
		q.buf[i] = Request{}
	}
	q.head = 0
	q.size = 0
	if dropped > 0 {
		metrics.RecordQueueCleared(dropped)
	}
	metrics.UpdateQueueSize(0)
	return dropped
}

// growLocked doubles the ring, capped at capacity, when it is full.
func (q *InMemoryQueue) growLocked() {
	if q.size < len(q.buf) {
		return
	}
	n := len(q.buf) * 2
	if n == 0 {
		n = 1
	}
	if n > q.capacity {
		n = q.capacity
	}
	next := make([]Request, n)
	for i := 0; i < q.size; i++ {
		next[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	q.buf = next
	q.head = 0
}
