package simulate

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"github.com/okian/hiscorewatch/pkg/logger"
)

// Kind weights out of kindDivisor.
const (
	kindDivisor   = 20
	observedShare = 12
	joinShare     = 5
	maxSnapshot   = 8
	localSelfOdds = 50
)

func randInt(n int) int {
	if n <= 1 {
		return 0
	}
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// generateNames returns n distinct display names of at most 12 characters.
func generateNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		id := strings.ReplaceAll(uuid.NewString(), "-", "")
		names[i] = "Sim " + id[:8]
	}
	return names
}

// generateEvents draws cfg.NumEvents events from a pool of cfg.Players names.
// Names repeat, so the daemon's suppression is exercised.
func generateEvents(ctx context.Context, cfg *Config, stats *Stats) ([]Event, error) {
	if cfg.Players < 1 {
		return nil, fmt.Errorf("players must be positive, got %d", cfg.Players)
	}
	names := generateNames(cfg.Players)

	events := make([]Event, 0, cfg.NumEvents)
	for i := 0; i < cfg.NumEvents; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during event generation: %w", err)
		}
		events = append(events, generateSingleEvent(names))
	}

	stats.EventsGenerated = len(events)
	logger.GetOr(logger.Nop()).Info(ctx, "generated events",
		logger.Int("count", len(events)),
		logger.Int("players", len(names)),
	)
	return events, nil
}

func generateSingleEvent(names []string) Event {
	e := Event{ID: uuid.NewString()}
	switch r := randInt(kindDivisor); {
	case r < observedShare:
		e.Kind = KindObserved
		e.Name = names[randInt(len(names))]
		e.LocalSelf = randInt(localSelfOdds) == 0
	case r < observedShare+joinShare:
		e.Kind = KindJoin
		e.Name = names[randInt(len(names))]
	default:
		e.Kind = KindMembers
		size := 1 + randInt(maxSnapshot)
		e.Members = make([]string, 0, size)
		for j := 0; j < size; j++ {
			e.Members = append(e.Members, names[randInt(len(names))])
		}
	}
	return e
}
