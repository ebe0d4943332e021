package presenter

import (
	"context"
	"sync"
)

const defaultHistorySize = 100

// History keeps the most recent alerts in a ring buffer.
// Readers may call Recent from any goroutine.
type History struct {
	mu    sync.RWMutex
	buf   []Alert
	next  int
	count int
}

// NewHistory creates a history holding up to size alerts.
func NewHistory(size int) *History {
	if size <= 0 {
		size = defaultHistorySize
	}
	return &History{buf: make([]Alert, size)}
}

// Present records a.
func (h *History) Present(ctx context.Context, a Alert) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.buf[h.next] = a
	h.next = (h.next + 1) % len(h.buf)
	if h.count < len(h.buf) {
		h.count++
	}
	return nil
}

// Recent returns up to n alerts, newest first. n <= 0 returns all of them.
func (h *History) Recent(n int) []Alert {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if n <= 0 || n > h.count {
		n = h.count
	}
	out := make([]Alert, 0, n)
	for i := 1; i <= n; i++ {
		idx := (h.next - i + len(h.buf)) % len(h.buf)
		out = append(out, h.buf[idx])
	}
	return out
}

// Len returns the number of alerts held.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.count
}

// Cap returns the maximum number of alerts held.
func (h *History) Cap() int { return len(h.buf) }
