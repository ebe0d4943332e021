package settings

import (
	"time"

	"github.com/okian/hiscorewatch/pkg/logger"
)

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithPath backs the store with a YAML file. Without it the store is memory-only.
func WithPath(path string) Option {
	return func(s *Store) {
		s.path = path
	}
}

// WithInitial sets the settings used before the file is loaded.
func WithInitial(initial Settings) Option {
	return func(s *Store) {
		s.current = initial.Normalize()
	}
}

// WithDebounce sets how long the watcher waits for writes to settle.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}
