// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Loading layers defaults, an optional YAML file and STANDINGS_* env vars.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"runtime"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`
	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DataDir holds one JSON file per match.
	DataDir string `koanf:"data_dir"`
	// RulesFile is a YAML rule set; empty means the built-in rules.
	RulesFile string `koanf:"rules_file"`

	// GateMode is "at_least" or "dispatch".
	GateMode string `koanf:"gate_mode"`
	// BonusMode is "cumulative" or "once".
	BonusMode string `koanf:"bonus_mode"`
	// MissingNumeric is "strict" or "lenient".
	MissingNumeric string `koanf:"missing_numeric"`
	// EventLog keeps raw events on every standing.
	EventLog bool `koanf:"event_log"`
	// Workers sets the aggregation parallelism (used only when decomposable).
	Workers int `koanf:"workers"`

	// DatabaseDriver is "postgres" or "sqlite3"; DatabaseURL empty disables SQL snapshots.
	DatabaseDriver string `koanf:"database_driver"`
	DatabaseURL    string `koanf:"database_url"`

	// KafkaBrokers is a comma-separated broker list; empty disables publishing.
	KafkaBrokers string `koanf:"kafka_brokers"`
	KafkaTopic   string `koanf:"kafka_topic"`

	// MaxTableRows caps GET /standings?limit.
	MaxTableRows int `koanf:"max_table_rows"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		DataDir:        "data",
		GateMode:       "at_least",
		BonusMode:      "cumulative",
		MissingNumeric: "strict",
		Workers:        runtime.NumCPU(),
		DatabaseDriver: "postgres",
		KafkaTopic:     "standings.snapshots",
		MaxTableRows:   500,
	}
}

// Brokers splits KafkaBrokers into trimmed, non-empty addresses.
func (c *Config) Brokers() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
