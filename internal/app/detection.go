package service

import (
	"context"
	"fmt"

	"github.com/okian/hiscorewatch/internal/domain/ignore"
	"github.com/okian/hiscorewatch/internal/domain/model"
	"github.com/okian/hiscorewatch/internal/settings"
	"github.com/okian/hiscorewatch/pkg/logger"
	"github.com/okian/hiscorewatch/pkg/metrics"
)

// OnSubjectObserved handles a player appearing nearby.
func (s *Service) OnSubjectObserved(ctx context.Context, name string, isLocalSelf bool) model.Outcome {
	if isLocalSelf {
		return s.record(model.SourceNearby, model.RejectedSelf)
	}
	if !s.settings.Current().CheckNearby {
		return s.record(model.SourceNearby, model.RejectedDisabled)
	}
	return s.AcceptDetection(ctx, name, model.SourceNearby)
}

// OnChannelMemberJoined handles a member joining the friends chat.
func (s *Service) OnChannelMemberJoined(ctx context.Context, name string) model.Outcome {
	if !s.settings.Current().CheckFriendsChat {
		return s.record(model.SourceFriendsChat, model.RejectedDisabled)
	}
	return s.AcceptDetection(ctx, name, model.SourceFriendsChat)
}

// OnChannelMembershipChanged handles a new clan channel membership snapshot.
// A nil snapshot means the channel was left and the tracked membership is
// reset. Only members absent from the previous snapshot are detected; the
// snapshot is kept current even while clan checks are switched off.
func (s *Service) OnChannelMembershipChanged(ctx context.Context, members []string) []model.Detection {
	p := s.running()
	if p == nil {
		return nil
	}
	if members == nil {
		p.members.Reset()
		s.logger.Debug(ctx, "channel membership cleared")
		return nil
	}

	joined := p.members.Diff(members)
	if len(joined) == 0 {
		return nil
	}
	if !s.settings.Current().CheckClanChat {
		for range joined {
			s.record(model.SourceClanChat, model.RejectedDisabled)
		}
		return nil
	}

	out := make([]model.Detection, 0, len(joined))
	for _, name := range joined {
		out = append(out, model.Detection{
			Name:    name,
			Outcome: s.AcceptDetection(ctx, name, model.SourceClanChat),
		})
	}
	return out
}

// OnContextMenuRequested toggles name on the ignore list and persists the
// list through the settings store. Returns whether name is now ignored.
func (s *Service) OnContextMenuRequested(ctx context.Context, name string) (bool, error) {
	p := s.running()
	if p == nil {
		return false, ErrNotStarted
	}
	norm := model.NormalizeName(name)
	if norm == "" {
		return false, fmt.Errorf("%w: empty name", settings.ErrInvalidValue)
	}

	ignored := p.ignored.Toggle(norm)
	if err := s.settings.Set(ctx, settings.KeyIgnoreList, ignore.Join(p.ignored.List())); err != nil {
		p.ignored.Toggle(norm)
		metrics.RecordErrorByComponent("service", "ignore_persist")
		return !ignored, fmt.Errorf("persist ignore list: %w", err)
	}

	metrics.UpdateIgnoreSize(p.ignored.Len())
	s.logger.Info(ctx, "ignore list toggled", logger.String("subject", norm), logger.Bool("ignored", ignored))
	return ignored, nil
}

// AcceptDetection normalizes raw, applies the self, ignore and suppression
// checks, and queues a lookup. The subject is marked seen before it is
// queued, so it is never queued twice within the suppression window. A
// request refused by a full queue stays suppressed.
func (s *Service) AcceptDetection(ctx context.Context, raw string, source model.Source) model.Outcome {
	p := s.running()
	if p == nil {
		return s.record(source, model.RejectedStopped)
	}

	name := model.NormalizeName(raw)
	if name == "" {
		return s.record(source, model.RejectedEmpty)
	}
	if model.SameSubject(name, s.LocalPlayer()) {
		return s.record(source, model.RejectedSelf)
	}
	if p.ignored.IsIgnored(name) {
		return s.record(source, model.RejectedIgnored)
	}
	if p.deduper.SeenAndRecord(ctx, model.Key(name)) {
		return s.record(source, model.RejectedSuppressed)
	}
	metrics.UpdateSuppressionSize(p.deduper.Size())

	req := model.NewDetectionRequest(name, source, s.now())
	if !p.queue.Enqueue(ctx, req) {
		s.logger.Warn(ctx, "queue refused detection",
			logger.String("subject", name),
			logger.String("source", source.String()),
		)
		return s.record(source, model.RejectedBackpressure)
	}

	s.logger.Debug(ctx, "detection queued",
		logger.String("subject", name),
		logger.String("source", source.String()),
		logger.String("class", req.Class.String()),
	)
	return s.record(source, model.Accepted)
}

func (s *Service) record(source model.Source, o model.Outcome) model.Outcome {
	metrics.RecordDetection(source.String(), o.String())
	return o
}

// onSettingsChanged rebuilds the ignore set when its key changes.
func (s *Service) onSettingsChanged(ctx context.Context, p *pipeline, c settings.Change) {
	if !s.live(p) {
		return
	}
	switch c.Key {
	case settings.KeyIgnoreList:
		p.ignored.Replace(ignore.Parse(c.Settings.IgnoreList))
		metrics.UpdateIgnoreSize(p.ignored.Len())
		s.logger.Info(ctx, "ignore list rebuilt", logger.Int("ignored", p.ignored.Len()))
	default:
		s.logger.Debug(ctx, "settings changed", logger.String("key", c.Key))
	}
}
