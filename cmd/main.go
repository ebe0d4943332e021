package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/okian/hiscorewatch/internal/adapters/hiscores"
	"github.com/okian/hiscorewatch/internal/adapters/http/api"
	"github.com/okian/hiscorewatch/internal/adapters/http/swagger"
	"github.com/okian/hiscorewatch/internal/adapters/presenter"
	app "github.com/okian/hiscorewatch/internal/app"
	"github.com/okian/hiscorewatch/internal/config"
	"github.com/okian/hiscorewatch/internal/settings"
	"github.com/okian/hiscorewatch/pkg/logger"
)

// HTTP server timeout constants.
const (
	readTimeout            = 10 * time.Second
	writeTimeout           = 10 * time.Second
	idleTimeout            = 60 * time.Second
	readHeaderTimeout      = 5 * time.Second
	shutdownTimeout        = 30 * time.Second
	serviceMetricsInterval = 5 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	// .env is optional; variables already set win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		os.Stderr.WriteString("failed to read .env: " + err.Error() + "\n")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Error(ctx, "hiscorewatch exited", logger.Error(err))
		os.Exit(1)
	}
}

// run loads configuration, starts the pipeline and serves HTTP until ctx is done.
func run(ctx context.Context) error {
	log := logger.Get()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	store := settings.NewStore(
		settings.WithPath(cfg.SettingsPath),
		settings.WithLogger(log.Named("settings")),
	)
	if err := store.Load(ctx); err != nil {
		return err
	}
	if err := store.Watch(ctx); err != nil {
		log.Warn(ctx, "settings file will not be watched", logger.String("path", cfg.SettingsPath), logger.Error(err))
	}
	defer func() { _ = store.Close() }()

	svc := newService(cfg, store, log)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, cfg.AlertHistory).Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info(gctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		startServiceMetricsUpdater(gctx, svc)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info(ctx, "shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	log.Info(ctx, "server stopped")
	return err
}

func newService(cfg *config.Config, store *settings.Store, log logger.Logger) *app.Service {
	client := hiscores.NewClient(
		hiscores.WithBaseURL(cfg.LookupBaseURL),
		hiscores.WithTimeout(cfg.LookupTimeout()),
		hiscores.WithRequestsPerSecond(cfg.LookupsPerSecond),
		hiscores.WithLogger(log.Named("hiscores")),
	)
	return app.New(
		app.WithLogger(log.Named("service")),
		app.WithLookup(client),
		app.WithSettings(store),
		app.WithSinks(presenter.NewConsoleSink(os.Stdout)),
		app.WithQueueSize(cfg.QueueSize),
		app.WithSuppressionTTL(cfg.SuppressionTTL()),
		app.WithSuppressionMaxSize(cfg.SuppressionMaxSize),
		app.WithDispatchInterval(cfg.DispatchInterval()),
		app.WithInitialDelay(cfg.DispatchInitialDelay()),
		app.WithHistorySize(cfg.AlertHistory),
		app.WithLocalPlayer(cfg.LocalPlayer),
	)
}

// startServiceMetricsUpdater refreshes the gauges GetStats maintains.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = svc.GetStats()
		}
	}
}
