package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/hiscorewatch/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	"HISCOREWATCH_CONFIG",
	"HISCOREWATCH_ADDR",
	"HISCOREWATCH_QUEUE_SIZE",
	"HISCOREWATCH_DISPATCH_INTERVAL_MS",
	"HISCOREWATCH_LOOKUPS_PER_SECOND",
	"HISCOREWATCH_LOCAL_PLAYER",
	"HISCOREWATCH_SUPPRESSION_TTL_SECONDS",
}

func clearConfigEnvVars() {
	for _, k := range configEnvVars {
		_ = os.Unsetenv(k)
	}
}

func TestNew(t *testing.T) {
	convey.Convey("Given a new config with defaults", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have the pipeline defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.DispatchInterval(), convey.ShouldEqual, 500*time.Millisecond)
			convey.So(cfg.DispatchInitialDelay(), convey.ShouldEqual, 2*time.Second)
			convey.So(cfg.SuppressionTTL(), convey.ShouldEqual, 5*time.Minute)
			convey.So(cfg.LookupTimeout(), convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When a value is out of range", func() {
			cfg.DispatchIntervalMS = 0

			convey.Convey("Then validation fails with ErrInvalidConfig", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.LookupsPerSecond, convey.ShouldEqual, 2)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("HISCOREWATCH_ADDR", ":8080")
			_ = os.Setenv("HISCOREWATCH_QUEUE_SIZE", "42")
			_ = os.Setenv("HISCOREWATCH_DISPATCH_INTERVAL_MS", "250")
			_ = os.Setenv("HISCOREWATCH_LOOKUPS_PER_SECOND", "4.5")
			_ = os.Setenv("HISCOREWATCH_LOCAL_PLAYER", "Zezima")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 42)
				convey.So(cfg.DispatchInterval(), convey.ShouldEqual, 250*time.Millisecond)
				convey.So(cfg.LookupsPerSecond, convey.ShouldEqual, 4.5)
				convey.So(cfg.LocalPlayer, convey.ShouldEqual, "Zezima")
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := filepath.Join(t.TempDir(), "config.yaml")
			yaml := "addr: \":7070\"\nqueue_size: 5\nsettings_path: /tmp/s.yaml\nlocal_player: Lynx Titan\n"
			convey.So(os.WriteFile(path, []byte(yaml), 0o600), convey.ShouldBeNil)
			_ = os.Setenv("HISCOREWATCH_CONFIG", path)
			_ = os.Setenv("HISCOREWATCH_QUEUE_SIZE", "9")

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values apply and env wins over the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 9)
				convey.So(cfg.SettingsPath, convey.ShouldEqual, "/tmp/s.yaml")
				convey.So(cfg.LocalPlayer, convey.ShouldEqual, "Lynx Titan")
			})
		})

		convey.Convey("When the config file is missing", func() {
			_ = os.Setenv("HISCOREWATCH_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail with ErrLoadConfig", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When an env value is out of range", func() {
			_ = os.Setenv("HISCOREWATCH_SUPPRESSION_TTL_SECONDS", "0")

			_, err := config.Load(ctx)

			convey.Convey("Then it should fail with ErrInvalidConfig", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}
