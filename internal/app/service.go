// Package service wires the detection pipeline: suppression and ignore
// checks, the priority queue, the paced dispatcher, the lookup client and
// the presenter.
package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/hiscorewatch/internal/adapters/hiscores"
	"github.com/okian/hiscorewatch/internal/adapters/mq/queue"
	"github.com/okian/hiscorewatch/internal/adapters/mq/worker"
	"github.com/okian/hiscorewatch/internal/adapters/presenter"
	"github.com/okian/hiscorewatch/internal/domain/catalog"
	"github.com/okian/hiscorewatch/internal/domain/dedupe"
	"github.com/okian/hiscorewatch/internal/domain/ignore"
	"github.com/okian/hiscorewatch/internal/domain/membership"
	"github.com/okian/hiscorewatch/internal/domain/model"
	"github.com/okian/hiscorewatch/internal/settings"
	"github.com/okian/hiscorewatch/pkg/logger"
	"github.com/okian/hiscorewatch/pkg/metrics"
)

// Notices posted on lifecycle changes.
const (
	StartedNotice = "Hiscores Watch has started."
	StoppedNotice = "Hiscores Watch has stopped."
)

// ErrNotStarted is returned by operations that need a running pipeline.
var ErrNotStarted = errors.New("service not started")

// Lookup fetches the raw hiscore record of a subject.
type Lookup interface {
	Lookup(ctx context.Context, subject string) (string, error)
}

// pipeline holds the components of one Start..Stop run. Handlers capture the
// pipeline they were dispatched from, so a restart never mixes state.
type pipeline struct {
	generation uint64
	deduper    dedupe.Deduper
	ignored    *ignore.Set
	queue      *queue.InMemoryQueue
	dispatcher *worker.Dispatcher
	presenter  *presenter.Presenter
	history    *presenter.History
	members    *membership.Tracker
	unsub      func()
}

// Service implements the detection pipeline and the API dependencies.
type Service struct {
	mu sync.RWMutex

	// Configuration
	queueSize          int
	suppressionTTL     time.Duration
	suppressionMaxSize int
	dispatchInterval   time.Duration
	initialDelay       time.Duration
	historySize        int
	catalog            *catalog.Catalog
	lookup             Lookup
	settings           *settings.Store
	sinks              []presenter.Sink
	now                func() time.Time

	localPlayer atomic.Value // string

	// State
	p          *pipeline
	last       *pipeline
	generation atomic.Uint64

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		queueSize:          10_000,
		suppressionTTL:     dedupe.DefaultTTL,
		suppressionMaxSize: 50_000,
		dispatchInterval:   worker.DefaultInterval,
		initialDelay:       worker.DefaultInitialDelay,
		historySize:        100,
		catalog:            catalog.Default(),
		now:                time.Now,
	}
	s.localPlayer.Store("")

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.GetOr(logger.Nop()).Named("service")
	}
	if s.settings == nil {
		s.settings = settings.NewStore(settings.WithLogger(s.logger))
	}
	if s.lookup == nil {
		s.lookup = hiscores.NewClient(hiscores.WithLogger(s.logger))
	}

	return s
}

// Start builds the pipeline and starts the presenter and dispatcher.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.p != nil {
		return nil
	}

	s.logger.Info(ctx, "starting hiscore watch...")

	cur := s.settings.Current()
	p := &pipeline{
		generation: s.generation.Add(1),
		deduper: dedupe.NewInMemoryDeduper(
			dedupe.WithTTL(s.suppressionTTL),
			dedupe.WithMaxSize(s.suppressionMaxSize),
			dedupe.WithClock(s.now),
		),
		ignored: ignore.New(ignore.Parse(cur.IgnoreList)...),
		queue:   queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize)),
		history: presenter.NewHistory(s.historySize),
		members: membership.NewTracker(),
	}
	sinks := append([]presenter.Sink{p.history}, s.sinks...)
	p.presenter = presenter.New(presenter.WithSinks(sinks...), presenter.WithLogger(s.logger))
	p.dispatcher = worker.NewDispatcher(p.queue,
		worker.HandlerFunc(func(ctx context.Context, r worker.Request) { s.handle(ctx, p, r) }),
		worker.WithInterval(s.dispatchInterval),
		worker.WithInitialDelay(s.initialDelay),
		worker.WithLogger(s.logger),
	)
	p.unsub = s.settings.Subscribe(func(ctx context.Context, c settings.Change) {
		s.onSettingsChanged(ctx, p, c)
	})

	metrics.UpdateIgnoreSize(p.ignored.Len())
	metrics.UpdateSuppressionSize(0)

	p.presenter.Start(ctx)
	if err := p.dispatcher.Start(ctx); err != nil {
		p.unsub()
		p.presenter.Stop()
		return err
	}

	s.p = p
	p.presenter.Show(ctx, presenter.NewNotice(StartedNotice, cur.AlertColor))

	s.logger.Info(ctx, "hiscore watch started",
		logger.Int("queue_size", s.queueSize),
		logger.Duration("suppression_ttl", s.suppressionTTL),
		logger.Duration("dispatch_interval", s.dispatchInterval),
		logger.Int("ignored", p.ignored.Len()),
	)
	return nil
}

// Stop halts the dispatcher and clears the queue, the suppression cache, the
// ignore set and the membership snapshot. Lookups already in flight finish
// but their results are dropped.
func (s *Service) Stop() {
	s.mu.Lock()
	p := s.p
	s.p = nil
	if p != nil {
		s.last = p
	}
	s.mu.Unlock()

	if p == nil {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping hiscore watch...")

	s.generation.Add(1)
	p.dispatcher.Stop()
	p.unsub()
	p.deduper.Clear()
	p.ignored.Clear()
	p.members.Reset()

	p.presenter.Show(ctx, presenter.NewNotice(StoppedNotice, s.settings.Current().AlertColor))
	p.presenter.Stop()

	metrics.UpdateSuppressionSize(0)
	metrics.UpdateIgnoreSize(0)
	s.logger.Info(ctx, "hiscore watch stopped")
}

// Wait blocks until lookups dispatched by the current or last run return.
func (s *Service) Wait(ctx context.Context) error {
	s.mu.RLock()
	p := s.p
	if p == nil {
		p = s.last
	}
	s.mu.RUnlock()
	if p == nil {
		return nil
	}
	return p.dispatcher.Wait(ctx)
}

func (s *Service) running() *pipeline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.p
}

// live reports whether p is still the running pipeline.
func (s *Service) live(p *pipeline) bool {
	return s.generation.Load() == p.generation
}

// SetLocalPlayer sets the observer's own name. It is never looked up.
func (s *Service) SetLocalPlayer(name string) {
	s.localPlayer.Store(model.NormalizeName(name))
}

// LocalPlayer returns the observer's own name.
func (s *Service) LocalPlayer() string {
	v, _ := s.localPlayer.Load().(string)
	return v
}

// Settings returns the settings store.
func (s *Service) Settings() *settings.Store { return s.settings }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	p := s.running()
	ctx := context.Background()

	stats := map[string]interface{}{
		"started":       p != nil,
		"queueSize":     s.queueSize,
		"localPlayer":   s.LocalPlayer(),
		"catalogSize":   s.catalog.Len(),
		"rankThreshold": s.settings.Current().RankThreshold,
	}

	if p != nil {
		queueLen := p.queue.Len(ctx)
		suppressed := p.deduper.Size()

		stats["queueLength"] = queueLen
		stats["suppressed"] = suppressed
		stats["ignored"] = p.ignored.Len()
		stats["channelMembers"] = p.members.Len()
		stats["inFlight"] = p.dispatcher.InFlight()
		stats["dispatched"] = p.dispatcher.Dispatched()
		stats["alerts"] = p.history.Len()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateSuppressionSize(suppressed)
	}

	return stats
}

// RecentAlerts returns up to n alerts, newest first.
func (s *Service) RecentAlerts(n int) []presenter.Alert {
	p := s.running()
	if p == nil {
		return []presenter.Alert{}
	}
	return p.history.Recent(n)
}

// IgnoreList returns the ignored names, sorted.
func (s *Service) IgnoreList() []string {
	p := s.running()
	if p == nil {
		return ignore.Parse(s.settings.Current().IgnoreList)
	}
	return p.ignored.List()
}

// Size returns the current number of entries in the suppression cache.
func (s *Service) Size() int64 {
	p := s.running()
	if p == nil {
		return 0
	}
	return p.deduper.Size()
}
