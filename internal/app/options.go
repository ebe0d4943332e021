package service

import (
	"time"

	"github.com/okian/hiscorewatch/internal/adapters/presenter"
	"github.com/okian/hiscorewatch/internal/domain/catalog"
	"github.com/okian/hiscorewatch/internal/settings"
	"github.com/okian/hiscorewatch/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithQueueSize sets the maximum size of the detection queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithSuppressionTTL sets how long a subject stays suppressed after acceptance.
func WithSuppressionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.suppressionTTL = ttl
		}
	}
}

// WithSuppressionMaxSize bounds the suppression cache. Zero means unbounded.
func WithSuppressionMaxSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.suppressionMaxSize = size
		}
	}
}

// WithDispatchInterval sets the period between lookups.
func WithDispatchInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.dispatchInterval = interval
		}
	}
}

// WithInitialDelay sets the wait before the first lookup after Start.
func WithInitialDelay(delay time.Duration) Option {
	return func(s *Service) {
		if delay >= 0 {
			s.initialDelay = delay
		}
	}
}

// WithLocalPlayer sets the observer's own name.
func WithLocalPlayer(name string) Option {
	return func(s *Service) {
		s.SetLocalPlayer(name)
	}
}

// WithCatalog replaces the default category catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithLookup sets the hiscore lookup client.
func WithLookup(l Lookup) Option {
	return func(s *Service) {
		if l != nil {
			s.lookup = l
		}
	}
}

// WithSettings sets the settings store.
func WithSettings(store *settings.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.settings = store
		}
	}
}

// WithSinks adds presentation sinks. Alerts always go to the history as well.
func WithSinks(sinks ...presenter.Sink) Option {
	return func(s *Service) {
		s.sinks = append(s.sinks, sinks...)
	}
}

// WithHistorySize sets how many recent alerts are kept.
func WithHistorySize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.historySize = size
		}
	}
}

// WithClock replaces the time source used for suppression and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
