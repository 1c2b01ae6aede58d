package service

import (
	"github.com/okian/standings/internal/adapters/loader"
	"github.com/okian/standings/internal/adapters/mq/publisher"
	"github.com/okian/standings/internal/adapters/repository"
	"github.com/okian/standings/internal/domain/standings"
	"github.com/okian/standings/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of aggregation workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDataDir sets the directory holding match files.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithRulesFile sets the YAML rule set; empty keeps the built-in rules.
func WithRulesFile(path string) Option {
	return func(s *Service) {
		s.rulesFile = path
	}
}

// WithGateMode sets the condition gate.
func WithGateMode(m standings.GateMode) Option {
	return func(s *Service) {
		s.gate = m
	}
}

// WithBonusMode sets how bonus points reach points.
func WithBonusMode(m standings.BonusMode) Option {
	return func(s *Service) {
		s.bonus = m
	}
}

// WithNumericPolicy sets how missing points/bonus_points are treated.
func WithNumericPolicy(p standings.NumericPolicy) Option {
	return func(s *Service) {
		s.numeric = p
	}
}

// WithEventLog keeps raw events on every standing.
func WithEventLog(enabled bool) Option {
	return func(s *Service) {
		s.eventLog = enabled
	}
}

// WithStore sets the snapshot store. Defaults to a memory store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithPublisher sets where computed snapshots are announced.
func WithPublisher(p publisher.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithLoader replaces the match and rule loader.
func WithLoader(l *loader.Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}
