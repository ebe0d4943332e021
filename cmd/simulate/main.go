// Command simulate plays the event source and the hiscore service against a
// local hiscorewatch daemon.
//
// Usage:
//
//	simulate hiscores --addr :9090 --not-found 0.2
//	simulate events --url http://localhost:9080 --events 500 --players 120
package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/okian/hiscorewatch/internal/simulate"
	"github.com/okian/hiscorewatch/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumEvents  = 500
	defaultPlayers    = 120
	defaultWorkers    = 2 // multiplier for runtime.NumCPU()
	defaultTimeout    = 10 * time.Second
	defaultSettle     = 30 * time.Second
	defaultAlertLimit = 20
	defaultRunTimeout = 10 * time.Minute
)

func main() {
	_ = godotenv.Load(".env")

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	var verbose bool
	root := &cobra.Command{
		Use:           "simulate",
		Short:         "Local event source and hiscore service for hiscorewatch",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				_ = logger.SetLevelString("debug")
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(hiscoresCmd())
	root.AddCommand(eventsCmd(&verbose))

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func hiscoresCmd() *cobra.Command {
	cfg := simulate.HiscoresConfig{}
	cmd := &cobra.Command{
		Use:   "hiscores",
		Short: "Serve a fake index_lite endpoint with deterministic records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return simulate.ServeHiscores(ctx, cfg)
		},
	}
	cmd.Flags().StringVar(&cfg.Addr, "addr", ":9090", "Listen address")
	cmd.Flags().Float64Var(&cfg.NotFoundRatio, "not-found", 0.2, "Fraction of names answered with 404")
	cmd.Flags().Float64Var(&cfg.NotableRatio, "notable", 0.02, "Fraction of categories given a top rank")
	return cmd
}

func eventsCmd(verbose *bool) *cobra.Command {
	cfg := simulate.Config{}
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Post generated detections to the daemon and print recent alerts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Verbose = *verbose
			ctx, cancel := context.WithTimeout(cmd.Context(), defaultRunTimeout)
			defer cancel()
			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			_, err := simulate.Run(ctx, &cfg, cmd.OutOrStdout())
			return err
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:9080", "Base URL of the daemon")
	cmd.Flags().IntVar(&cfg.NumEvents, "events", defaultNumEvents, "Number of events to generate and submit")
	cmd.Flags().IntVar(&cfg.Players, "players", defaultPlayers, "Number of distinct names")
	cmd.Flags().IntVar(&cfg.Workers, "workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	cmd.Flags().DurationVar(&cfg.Settle, "settle", defaultSettle, "Wait before fetching alerts")
	cmd.Flags().IntVar(&cfg.AlertLimit, "alerts", defaultAlertLimit, "Number of recent alerts to print")
	return cmd
}
