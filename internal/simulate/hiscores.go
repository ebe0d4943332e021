package simulate

import (
	"context"
	"errors"
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/hiscorewatch/internal/domain/catalog"
	"github.com/okian/hiscorewatch/internal/domain/model"
	"github.com/okian/hiscorewatch/pkg/logger"
)

// Ranges used for generated records.
const (
	ratioScale     = 10_000
	topRankMax     = 25
	commonRankBase = 1_000
	commonRankSpan = 500_000
	maxLevel       = 99
	commonXPSpan   = 13_000_000
	capXP          = 200_000_000
	scoreSpan      = 2_000
)

// Record returns the lite record served for name. The same name always
// gets the same record.
func Record(cat *catalog.Catalog, name string, notableRatio float64) string {
	key := model.Key(model.NormalizeName(name))
	var b strings.Builder
	for i, c := range cat.All() {
		h := hash(key, strconv.Itoa(i))
		rank := commonRankBase + int(h%commonRankSpan)
		if hit(h>>20, notableRatio) {
			rank = 1 + int(h%topRankMax)
		}
		b.WriteString(strconv.Itoa(rank))
		b.WriteByte(',')
		if c.ExperienceBearing {
			xp := int64(h % commonXPSpan)
			if rank <= topRankMax {
				xp = capXP
			}
			b.WriteString(strconv.Itoa(1 + int(h%maxLevel)))
			b.WriteByte(',')
			b.WriteString(strconv.FormatInt(xp, 10))
		} else {
			b.WriteString(strconv.Itoa(1 + int(h%scoreSpan)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Unranked reports whether name is answered with 404.
func Unranked(name string, notFoundRatio float64) bool {
	return hit(hash(model.Key(model.NormalizeName(name)), "404"), notFoundRatio)
}

// HiscoresHandler serves the lite endpoint at any path using the player query
// parameter, like the real service.
func HiscoresHandler(cat *catalog.Catalog, cfg HiscoresConfig) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		name := r.URL.Query().Get("player")
		if strings.TrimSpace(name) == "" || Unranked(name, cfg.NotFoundRatio) {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(Record(cat, name, cfg.NotableRatio)))
	})
}

// ServeHiscores runs the fake hiscore service until ctx is done.
func ServeHiscores(ctx context.Context, cfg HiscoresConfig) error {
	log := logger.GetOr(logger.Nop()).Named("hiscores")
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           HiscoresHandler(catalog.Default(), cfg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "fake hiscore service listening", logger.String("addr", cfg.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func hash(parts ...string) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

func hit(h uint64, ratio float64) bool {
	switch {
	case ratio <= 0:
		return false
	case ratio >= 1:
		return true
	}
	return float64(h%ratioScale) < ratio*ratioScale
}
