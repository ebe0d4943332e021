package service

import (
	"context"
	"errors"
	"time"

	"github.com/okian/hiscorewatch/internal/adapters/hiscores"
	"github.com/okian/hiscorewatch/internal/adapters/mq/worker"
	"github.com/okian/hiscorewatch/internal/adapters/presenter"
	"github.com/okian/hiscorewatch/internal/domain/achievement"
	"github.com/okian/hiscorewatch/pkg/logger"
	"github.com/okian/hiscorewatch/pkg/metrics"
)

// handle performs one lookup and posts an alert when something is notable.
// Results that arrive after p stopped being the live pipeline are dropped.
func (s *Service) handle(ctx context.Context, p *pipeline, r worker.Request) {
	if !s.live(p) {
		return
	}

	start := time.Now()
	body, err := s.lookup.Lookup(ctx, r.SubjectID)
	if err != nil {
		if errors.Is(err, hiscores.ErrNoData) {
			s.logger.Debug(ctx, "no hiscore data", logger.String("subject", r.SubjectID), logger.Error(err))
		} else {
			metrics.RecordErrorByComponent("service", "lookup")
			s.logger.Warn(ctx, "hiscore lookup failed", logger.String("subject", r.SubjectID), logger.Error(err))
		}
		return
	}
	if !s.live(p) {
		s.logger.Debug(ctx, "dropping late lookup", logger.String("subject", r.SubjectID))
		return
	}

	cur := s.settings.Current()
	res, err := achievement.Aggregate(ctx, body, s.catalog, achievement.Options{
		RankThreshold:         cur.RankThreshold,
		AlertForExperienceCap: cur.AlertForExperienceCap,
	})
	if err != nil {
		return
	}
	if res.Truncated {
		metrics.RecordTruncatedResponse()
		s.logger.Warn(ctx, "hiscore response truncated",
			logger.String("subject", r.SubjectID),
			logger.String("stopped_at", res.StoppedAt),
		)
	}
	for _, f := range res.Failures {
		metrics.RecordParseFailure(f.Category.Name)
		s.logger.Warn(ctx, "unparseable hiscore line", logger.String("subject", r.SubjectID), logger.Error(f))
	}
	if res.Empty() {
		s.logger.Debug(ctx, "nothing notable", logger.String("subject", r.SubjectID))
		return
	}

	ranked := achievement.Rank(res.Achievements)
	for _, a := range ranked {
		metrics.RecordAchievement(a.Kind())
	}
	msg := achievement.FormatAlert(r.SubjectID, r.Source, ranked)

	s.logger.Info(ctx, "notable player",
		logger.String("subject", r.SubjectID),
		logger.String("source", r.Source.String()),
		logger.String("achievements", achievement.Summary(ranked)),
		logger.Duration("took", time.Since(start)),
	)

	if !s.live(p) {
		return
	}
	p.presenter.Show(ctx, presenter.NewAlert(r.SubjectID, r.Source.String(), msg, cur.AlertColor, achievement.Strings(ranked)))
	metrics.RecordAlert(r.Source.String())
}
