package config_test

import (
	"context"
	"errors"
	"os"
	"runtime"
	"testing"

	"github.com/okian/standings/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()
		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.DataDir, convey.ShouldEqual, "data")
			convey.So(cfg.GateMode, convey.ShouldEqual, "at_least")
			convey.So(cfg.BonusMode, convey.ShouldEqual, "cumulative")
			convey.So(cfg.MissingNumeric, convey.ShouldEqual, "strict")
			convey.So(cfg.Workers, convey.ShouldEqual, runtime.NumCPU())
			convey.So(cfg.Brokers(), convey.ShouldBeEmpty)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.RulesFile, convey.ShouldEqual, "")
				convey.So(cfg.EventLog, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("STANDINGS_ADDR", ":8080")
			_ = os.Setenv("STANDINGS_GATE_MODE", "dispatch")
			_ = os.Setenv("STANDINGS_BONUS_MODE", "once")
			_ = os.Setenv("STANDINGS_EVENT_LOG", "true")
			_ = os.Setenv("STANDINGS_WORKERS", "6")
			_ = os.Setenv("STANDINGS_KAFKA_BROKERS", "k1:9092, k2:9092,")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.GateMode, convey.ShouldEqual, "dispatch")
				convey.So(cfg.BonusMode, convey.ShouldEqual, "once")
				convey.So(cfg.EventLog, convey.ShouldBeTrue)
				convey.So(cfg.Workers, convey.ShouldEqual, 6)
				convey.So(cfg.Brokers(), convey.ShouldResemble, []string{"k1:9092", "k2:9092"})
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
# league setup
addr: ":9090"
data_dir: "/srv/matches"
rules_file: "/etc/standings/rules.yaml"
missing_numeric: lenient
database_driver: sqlite3
database_url: "file:standings.db"
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("STANDINGS_CONFIG", tmpFile)
			_ = os.Setenv("STANDINGS_ADDR", ":8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.DataDir, convey.ShouldEqual, "/srv/matches")
				convey.So(cfg.RulesFile, convey.ShouldEqual, "/etc/standings/rules.yaml")
				convey.So(cfg.MissingNumeric, convey.ShouldEqual, "lenient")
				convey.So(cfg.DatabaseDriver, convey.ShouldEqual, "sqlite3")
				convey.So(cfg.GateMode, convey.ShouldEqual, "at_least") // From defaults
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("STANDINGS_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			cfg, err := config.LoadFile(ctx, "/non/existent/file.yaml")

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("STANDINGS_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown mode", func() {
			_ = os.Setenv("STANDINGS_BONUS_MODE", "twice")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with an unknown database driver", func() {
			_ = os.Setenv("STANDINGS_DATABASE_DRIVER", "oracle")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("STANDINGS_WORKERS", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with zero workers", func() {
			_ = os.Setenv("STANDINGS_WORKERS", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then workers are clamped to one", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Workers, convey.ShouldEqual, 1)
			})
		})
	})
}

// Helper functions.
func clearConfigEnvVars() {
	envVars := []string{
		"STANDINGS_CONFIG",
		"STANDINGS_ADDR",
		"STANDINGS_GATE_MODE",
		"STANDINGS_BONUS_MODE",
		"STANDINGS_EVENT_LOG",
		"STANDINGS_WORKERS",
		"STANDINGS_KAFKA_BROKERS",
		"STANDINGS_DATABASE_DRIVER",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "standings-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
