package simulate

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/okian/hiscorewatch/pkg/logger"
)

type alert struct {
	Subject string `json:"subject"`
	Source  string `json:"source"`
	Message string `json:"message"`
	Color   string `json:"color"`
}

type alertsReply struct {
	Alerts []alert `json:"alerts"`
}

// Run checks the daemon, submits generated events, waits for lookups to
// settle and prints the most recent alerts to out.
func Run(ctx context.Context, cfg *Config, out io.Writer) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.GetOr(logger.Nop())

	log.Info(ctx, "starting simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("events", cfg.NumEvents),
		logger.Int("players", cfg.Players),
		logger.Int("workers", cfg.Workers),
	)

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	if err := checkHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	events, err := generateEvents(ctx, cfg, stats)
	if err != nil {
		return stats, fmt.Errorf("event generation failed: %w", err)
	}
	if err := submitEvents(ctx, cfg, events, stats); err != nil {
		return stats, fmt.Errorf("event submission failed: %w", err)
	}

	if cfg.Settle > 0 {
		log.Info(ctx, "waiting for lookups", logger.Duration("settle", cfg.Settle))
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		case <-time.After(cfg.Settle):
		}
	}

	var reply alertsReply
	status, err := client.Do(ctx, http.MethodGet, "/alerts?limit="+strconv.Itoa(cfg.AlertLimit), nil, &reply)
	if err != nil {
		return stats, fmt.Errorf("alert retrieval failed: %w", err)
	}
	if status != http.StatusOK {
		return stats, fmt.Errorf("alert retrieval failed with status: %d", status)
	}
	stats.Alerts = len(reply.Alerts)
	printAlerts(out, reply.Alerts)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

func checkHealth(ctx context.Context, client *HTTPClient) error {
	status, err := client.Do(ctx, http.MethodGet, "/healthz", nil, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", status)
	}
	return nil
}

// printAlerts renders alerts oldest first in their own colors.
func printAlerts(w io.Writer, alerts []alert) {
	r := lipgloss.NewRenderer(w)
	for i := len(alerts) - 1; i >= 0; i-- {
		a := alerts[i]
		style := r.NewStyle().Foreground(lipgloss.Color(a.Color))
		fmt.Fprintln(w, style.Render(a.Message))
	}
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}
	logger.GetOr(logger.Nop()).Info(ctx, "final statistics",
		logger.Int("eventsGenerated", stats.EventsGenerated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("rejected", stats.Rejected),
		logger.Int("backpressure", stats.Backpressure),
		logger.Int("failed", stats.Failed),
		logger.Int("alerts", stats.Alerts),
		logger.Duration("duration", stats.Duration),
		logger.Float64("eventsPerSecond", perSecond),
	)
}
