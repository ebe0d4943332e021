// Package config defines process configuration and its loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Loading layers defaults, an optional YAML file and environment variables.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// LookupBaseURL is the hiscore endpoint; the escaped name is appended to it.
	LookupBaseURL string `koanf:"lookup_base_url"`

	// LookupTimeoutMS bounds one lookup round trip.
	LookupTimeoutMS int `koanf:"lookup_timeout_ms"`

	// LookupsPerSecond is the client-side rate ceiling. Zero disables it.
	LookupsPerSecond float64 `koanf:"lookups_per_second"`

	// DispatchIntervalMS and DispatchInitialDelayMS pace the dispatcher.
	DispatchIntervalMS     int `koanf:"dispatch_interval_ms"`
	DispatchInitialDelayMS int `koanf:"dispatch_initial_delay_ms"`

	// SuppressionTTLSeconds is how long a looked-up subject stays suppressed.
	SuppressionTTLSeconds int `koanf:"suppression_ttl_seconds"`

	// SuppressionMaxSize bounds the suppression cache. Zero means unbounded.
	SuppressionMaxSize int `koanf:"suppression_max_size"`

	// QueueSize bounds the detection queue.
	QueueSize int `koanf:"queue_size"`

	// SettingsPath is the user settings file. Empty keeps settings in memory.
	SettingsPath string `koanf:"settings_path"`

	// LocalPlayer is the observer's own name; it is never looked up.
	LocalPlayer string `koanf:"local_player"`

	// AlertHistory is how many alerts GET /alerts can return.
	AlertHistory int `koanf:"alert_history"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		LookupBaseURL:          "https://secure.runescape.com/m=hiscore_oldschool/index_lite.ws?player=",
		LookupTimeoutMS:        30_000,
		LookupsPerSecond:       2,
		DispatchIntervalMS:     500,
		DispatchInitialDelayMS: 2_000,
		SuppressionTTLSeconds:  300,
		SuppressionMaxSize:     50_000,
		QueueSize:              10_000,
		SettingsPath:           "hiscorewatch.settings.yaml",
		AlertHistory:           100,
	}
}

// Validate checks ranges. Errors wrap ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LookupBaseURL == "":
		return fmt.Errorf("%w: lookup_base_url must not be empty", ErrInvalidConfig)
	case c.LookupTimeoutMS <= 0:
		return fmt.Errorf("%w: lookup_timeout_ms must be positive", ErrInvalidConfig)
	case c.LookupsPerSecond < 0:
		return fmt.Errorf("%w: lookups_per_second must not be negative", ErrInvalidConfig)
	case c.DispatchIntervalMS <= 0:
		return fmt.Errorf("%w: dispatch_interval_ms must be positive", ErrInvalidConfig)
	case c.DispatchInitialDelayMS < 0:
		return fmt.Errorf("%w: dispatch_initial_delay_ms must not be negative", ErrInvalidConfig)
	case c.SuppressionTTLSeconds <= 0:
		return fmt.Errorf("%w: suppression_ttl_seconds must be positive", ErrInvalidConfig)
	case c.SuppressionMaxSize < 0:
		return fmt.Errorf("%w: suppression_max_size must not be negative", ErrInvalidConfig)
	case c.QueueSize <= 0:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.AlertHistory <= 0:
		return fmt.Errorf("%w: alert_history must be positive", ErrInvalidConfig)
	}
	return nil
}

// LookupTimeout returns LookupTimeoutMS as a duration.
func (c *Config) LookupTimeout() time.Duration {
	return time.Duration(c.LookupTimeoutMS) * time.Millisecond
}

// DispatchInterval returns DispatchIntervalMS as a duration.
func (c *Config) DispatchInterval() time.Duration {
	return time.Duration(c.DispatchIntervalMS) * time.Millisecond
}

// DispatchInitialDelay returns DispatchInitialDelayMS as a duration.
func (c *Config) DispatchInitialDelay() time.Duration {
	return time.Duration(c.DispatchInitialDelayMS) * time.Millisecond
}

// SuppressionTTL returns SuppressionTTLSeconds as a duration.
func (c *Config) SuppressionTTL() time.Duration {
	return time.Duration(c.SuppressionTTLSeconds) * time.Second
}
