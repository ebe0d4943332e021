// Package dedupe implements the time-bounded suppression cache.
package dedupe

import "time"

// Option applies a configuration option to the suppression cache.
type Option func(*ttlDeduper)

// WithTTL sets how long a subject stays suppressed after MarkSeen.
func WithTTL(ttl time.Duration) Option {
	return func(d *ttlDeduper) {
		if ttl > 0 {
			d.ttl = ttl
		}
	}
}

// WithMaxSize bounds the number of entries. When full, the oldest entry is
// evicted early. If maxSize <= 0 the cache is unbounded.
func WithMaxSize(maxSize int) Option {
	return func(d *ttlDeduper) {
		d.maxSize = maxSize
	}
}

// WithClock replaces the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(d *ttlDeduper) {
		if now != nil {
			d.now = now
		}
	}
}
