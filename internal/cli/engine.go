package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/standings/internal/adapters/mq/publisher"
	"github.com/okian/standings/internal/adapters/repository"
	service "github.com/okian/standings/internal/app"
	"github.com/okian/standings/internal/config"
	"github.com/okian/standings/internal/domain/standings"
	"github.com/okian/standings/pkg/logger"
)

// engineFlags override the engine part of the loaded config.
type engineFlags struct {
	dataDir   string
	rulesFile string
	gate      string
	bonus     string
	numeric   string
	eventLog  bool
	workers   int
}

func (f *engineFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.dataDir, "data", "d", "", "directory of match JSON files (config data_dir)")
	fl.StringVarP(&f.rulesFile, "rules", "r", "", "YAML rules file (config rules_file; default built-in rules)")
	fl.StringVar(&f.gate, "gate", "", "condition gate: at_least|dispatch (config gate_mode)")
	fl.StringVar(&f.bonus, "bonus", "", "bonus accounting: cumulative|once (config bonus_mode)")
	fl.StringVar(&f.numeric, "missing-numeric", "", "missing points: strict|lenient (config missing_numeric)")
	fl.BoolVar(&f.eventLog, "event-log", false, "keep raw events on every standing (config event_log)")
	fl.IntVarP(&f.workers, "workers", "w", 0, "aggregation workers (config workers)")
}

// apply copies every flag the user set onto cfg and revalidates it.
func (f *engineFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	fl := cmd.Flags()
	if fl.Changed("data") {
		cfg.DataDir = f.dataDir
	}
	if fl.Changed("rules") {
		cfg.RulesFile = f.rulesFile
	}
	if fl.Changed("gate") {
		cfg.GateMode = f.gate
	}
	if fl.Changed("bonus") {
		cfg.BonusMode = f.bonus
	}
	if fl.Changed("missing-numeric") {
		cfg.MissingNumeric = f.numeric
	}
	if fl.Changed("event-log") {
		cfg.EventLog = f.eventLog
	}
	if fl.Changed("workers") {
		cfg.Workers = f.workers
	}
	return cfg.Validate()
}

// engineOptions turns the engine part of cfg into service options.
func engineOptions(cfg *config.Config) ([]service.Option, error) {
	gate, err := standings.ParseGateMode(cfg.GateMode)
	if err != nil {
		return nil, err
	}
	bonus, err := standings.ParseBonusMode(cfg.BonusMode)
	if err != nil {
		return nil, err
	}
	numeric, err := standings.ParseNumericPolicy(cfg.MissingNumeric)
	if err != nil {
		return nil, err
	}
	return []service.Option{
		service.WithDataDir(cfg.DataDir),
		service.WithRulesFile(cfg.RulesFile),
		service.WithGateMode(gate),
		service.WithBonusMode(bonus),
		service.WithNumericPolicy(numeric),
		service.WithEventLog(cfg.EventLog),
		service.WithWorkerCount(cfg.Workers),
	}, nil
}

// sinkOptions opens the SQL store and the Kafka publisher when configured.
func sinkOptions(ctx context.Context, cfg *config.Config, log logger.Logger) ([]service.Option, error) {
	var opts []service.Option
	if cfg.DatabaseURL != "" {
		store, err := repository.OpenSQL(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("snapshot store: %w", err)
		}
		log.Info(ctx, "using SQL snapshot store", logger.String("driver", cfg.DatabaseDriver))
		opts = append(opts, service.WithStore(store))
	}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		pub, err := publisher.NewKafka(brokers, cfg.KafkaTopic, publisher.WithLogger(log.Named("publisher")))
		if err != nil {
			return nil, fmt.Errorf("snapshot publisher: %w", err)
		}
		log.Info(ctx, "publishing snapshots to kafka",
			logger.Int("brokers", len(brokers)), logger.String("topic", cfg.KafkaTopic))
		opts = append(opts, service.WithPublisher(pub))
	}
	return opts, nil
}
