// Package dedupe implements the time-bounded suppression cache that keeps a
// subject from being looked up twice within a short window.
package dedupe

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Default suppression configuration constants.
const (
	DefaultTTL     = 5 * time.Minute
	defaultMaxSize = 50_000
)

// Deduper records recently handled subjects.
type Deduper interface {
	// ShouldSuppress reports whether id has an unexpired entry.
	ShouldSuppress(ctx context.Context, id string) bool

	// MarkSeen records id as handled now. The TTL starts at this call.
	MarkSeen(ctx context.Context, id string)

	// SeenAndRecord atomically checks whether id is suppressed and records it
	// if not. Returns true if id was already suppressed.
	SeenAndRecord(ctx context.Context, id string) bool

	// Clear drops every entry.
	Clear()

	// Size returns the number of entries held, including expired ones that
	// have not been touched yet.
	Size() int64
}

// node is one insertion in the FIFO. Insertion times only grow, so the head
// of the list is always the next entry to expire.
type node struct {
	key      string
	insertAt time.Time
	next     *node
}

func (n *node) reset() {
	n.key = ""
	n.insertAt = time.Time{}
	n.next = nil
}

// ttlDeduper implements Deduper with a map for lookups and a singly linked
// FIFO for expiry order. Expired entries are dropped lazily: when looked up,
// or when they reach the head of the FIFO during a write.
type ttlDeduper struct {
	mu       sync.Mutex
	seen     map[string]*node
	head     *node // oldest
	tail     *node // newest
	ttl      time.Duration
	maxSize  int // 0 or negative = unbounded
	now      func() time.Time
	size     atomic.Int64
	nodePool sync.Pool
}

// NewInMemoryDeduper creates a suppression cache with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &ttlDeduper{
		ttl:     DefaultTTL,
		maxSize: defaultMaxSize,
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(d)
	}

	d.seen = make(map[string]*node)
	d.nodePool = sync.Pool{
		New: func() interface{} {
			return &node{}
		},
	}

	return d
}

func normalizeKey(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// ShouldSuppress reports whether id has an unexpired entry.
func (d *ttlDeduper) ShouldSuppress(ctx context.Context, id string) bool {
	key := normalizeKey(id)

	d.mu.Lock()
	defer d.mu.Unlock()

	return d.liveLocked(key, d.now())
}

// MarkSeen records id as handled now.
func (d *ttlDeduper) MarkSeen(ctx context.Context, id string) {
	key := normalizeKey(id)

	d.mu.Lock()
	defer d.mu.Unlock()

	d.insertLocked(key, d.now())
}

// SeenAndRecord atomically checks and records id.
func (d *ttlDeduper) SeenAndRecord(ctx context.Context, id string) bool {
	key := normalizeKey(id)

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if d.liveLocked(key, now) {
		return true
	}
	d.insertLocked(key, now)
	return false
}

// Clear drops every entry.
func (d *ttlDeduper) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for n := d.head; n != nil; {
		next := n.next
		n.reset()
		d.nodePool.Put(n)
		n = next
	}
	d.head = nil
	d.tail = nil
	d.seen = make(map[string]*node)
	d.size.Store(0)
}

// Size returns the current number of entries.
func (d *ttlDeduper) Size() int64 {
	return d.size.Load()
}

// liveLocked reports whether key has an unexpired entry. An expired entry is
// unlinked from the map; its FIFO node is reclaimed when it reaches the head.
// Must be called with d.mu held.
func (d *ttlDeduper) liveLocked(key string, now time.Time) bool {
	n, ok := d.seen[key]
	if !ok {
		return false
	}
	if d.expired(n, now) {
		delete(d.seen, key)
		d.size.Add(-1)
		return false
	}
	return true
}

// insertLocked records key at now, replacing any previous entry.
// Must be called with d.mu held.
func (d *ttlDeduper) insertLocked(key string, now time.Time) {
	d.purgeLocked(now)

	if _, exists := d.seen[key]; exists {
		// Re-marking restarts the TTL; the old node becomes stale.
		delete(d.seen, key)
		d.size.Add(-1)
	}

	if d.maxSize > 0 {
		for len(d.seen) >= d.maxSize && d.head != nil {
			d.popHeadLocked()
		}
	}

	n := d.nodePool.Get().(*node)
	n.key = key
	n.insertAt = now
	if d.tail == nil {
		d.head = n
	} else {
		d.tail.next = n
	}
	d.tail = n
	d.seen[key] = n
	d.size.Add(1)
}

// purgeLocked pops expired or stale nodes off the head of the FIFO.
// Must be called with d.mu held.
func (d *ttlDeduper) purgeLocked(now time.Time) {
	for d.head != nil {
		if d.seen[d.head.key] == d.head && !d.expired(d.head, now) {
			return
		}
		d.popHeadLocked()
	}
}

// popHeadLocked removes the oldest node, and its map entry if still current.
// Must be called with d.mu held.
func (d *ttlDeduper) popHeadLocked() {
	n := d.head
	d.head = n.next
	if d.head == nil {
		d.tail = nil
	}
	if d.seen[n.key] == n {
		delete(d.seen, n.key)
		d.size.Add(-1)
	}
	n.reset()
	d.nodePool.Put(n)
}

func (d *ttlDeduper) expired(n *node, now time.Time) bool {
	return now.Sub(n.insertAt) >= d.ttl
}
