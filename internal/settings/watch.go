package settings

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/okian/hiscorewatch/pkg/logger"
)

// Watch reloads the settings whenever the backing file changes on disk.
// Bursts of writes are collapsed into one reload after the debounce period.
// It watches the parent directory so that rename-on-save editors are seen.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}

	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if s.watching {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	s.watcher = w
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.watching = true

	go s.watchLoop(ctx, w, s.stopCh, s.doneCh)

	s.logger.Info(ctx, "watching settings file", logger.String("path", s.path))
	return nil
}

func (s *Store) watchLoop(ctx context.Context, w *fsnotify.Watcher, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	target := filepath.Clean(s.path)
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(s.debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.logger.Warn(ctx, "settings watcher error", logger.Error(err))
		case <-timer.C:
			if err := s.Reload(ctx); err != nil {
				s.logger.Warn(ctx, "settings reload failed", logger.Error(err))
			}
		}
	}
}

// Close stops the watcher. Safe to call when Watch was never called.
func (s *Store) Close() error {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if !s.watching {
		return nil
	}
	s.watching = false
	close(s.stopCh)
	<-s.doneCh
	return s.watcher.Close()
}
