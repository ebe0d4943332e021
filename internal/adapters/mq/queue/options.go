// Package queue defines the contract for enqueuing and consuming detection requests.
package queue

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum number of queued requests.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WithInitialBuffer sets how many slots are allocated up front. The ring
// grows on demand up to the capacity.
func WithInitialBuffer(size int) Option {
	return func(q *InMemoryQueue) {
		if size > 0 {
			q.initialBuffer = size
		}
	}
}
