package settings

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/hiscorewatch/pkg/logger"
	"github.com/okian/hiscorewatch/pkg/metrics"
)

const defaultDebounce = 200 * time.Millisecond

// Change is delivered to listeners once per changed key.
type Change struct {
	Key      string
	Settings Settings // settings after the change
}

// Listener receives change notifications. It is called outside the store lock.
type Listener func(ctx context.Context, c Change)

// Store owns the current settings and notifies listeners on change.
type Store struct {
	mu        sync.RWMutex
	path      string
	base      Settings
	current   Settings
	listeners map[int]Listener
	nextID    int

	debounce time.Duration
	logger   logger.Logger

	watchMu  sync.Mutex
	watcher  *fsnotify.Watcher
	stopCh   chan struct{}
	doneCh   chan struct{}
	watching bool
}

// NewStore creates a store holding defaults until Load is called.
func NewStore(opts ...Option) *Store {
	s := &Store{
		current:   Defaults(),
		listeners: make(map[int]Listener),
		debounce:  defaultDebounce,
		logger:    logger.GetOr(logger.Nop()).Named("settings"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.base = s.current
	return s
}

// Path returns the backing file, or "" for a memory-only store.
func (s *Store) Path() string { return s.path }

// Current returns a copy of the current settings.
func (s *Store) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Load reads the backing file without notifying listeners. A missing file
// leaves the defaults in place.
func (s *Store) Load(ctx context.Context) error {
	next, found, err := s.read()
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	s.logger.Info(ctx, "settings loaded", logger.String("path", s.path))
	return nil
}

// Reload re-reads the backing file and notifies one change per differing key.
func (s *Store) Reload(ctx context.Context) error {
	next, found, err := s.read()
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	s.mu.Lock()
	changed := Diff(s.current, next)
	s.current = next
	s.mu.Unlock()

	if len(changed) > 0 {
		s.logger.Info(ctx, "settings reloaded", logger.Any("changed", changed))
	}
	s.notify(ctx, next, changed)
	return nil
}

// Set validates and applies one key, persists the file and notifies listeners.
// Setting a key to its current value is a no-op.
func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	next, err := s.current.With(key, value)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	changed := Diff(s.current, next)
	if len(changed) == 0 {
		s.mu.Unlock()
		return nil
	}
	if err := s.persist(next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.current = next
	s.mu.Unlock()

	s.notify(ctx, next, changed)
	return nil
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) notify(ctx context.Context, next Settings, keys []string) {
	if len(keys) == 0 {
		return
	}
	s.mu.RLock()
	ls := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		ls = append(ls, l)
	}
	s.mu.RUnlock()

	for _, k := range keys {
		metrics.RecordSettingsChange(k)
		for _, l := range ls {
			l(ctx, Change{Key: k, Settings: next})
		}
	}
}

// read loads the file layered over the base settings.
func (s *Store) read() (Settings, bool, error) {
	if s.path == "" {
		return Settings{}, false, nil
	}
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return Settings{}, false, nil
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(s.path), yaml.Parser()); err != nil {
		return Settings{}, false, fmt.Errorf("%w: %s: %w", ErrLoad, s.path, err)
	}

	next := s.base
	if err := k.UnmarshalWithConf("", &next, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Settings{}, false, fmt.Errorf("%w: %s: %w", ErrLoad, s.path, err)
	}
	return next.Normalize(), true, nil
}

// persist writes next to the backing file through a temp file and rename.
// Must be called with s.mu held.
func (s *Store) persist(next Settings) error {
	if s.path == "" {
		return nil
	}
	data, err := yaml.Parser().Marshal(next.toMap())
	if err != nil {
		return fmt.Errorf("%w: encode: %w", ErrPersist, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}
