// Package service provides the core business service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/standings/internal/adapters/loader"
	"github.com/okian/standings/internal/adapters/mq/publisher"
	"github.com/okian/standings/internal/adapters/repository"
	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/internal/domain/standings"
	"github.com/okian/standings/internal/domain/types"
	"github.com/okian/standings/pkg/logger"
	"github.com/okian/standings/pkg/metrics"
)

// Sentinel kinds for service errors.
var (
	ErrNotStarted  = errors.New("service not started")
	ErrNoStandings = errors.New("no standings computed yet")
	ErrUnknownTeam = errors.New("unknown team")
)

// Run is the outcome of one computation before it is stored.
type Run struct {
	Table   *model.Table
	Matches int
	Events  int
	Took    time.Duration
}

// Service computes standings from the configured data and rules and keeps
// the latest snapshot available for readers.
type Service struct {
	mu    sync.RWMutex
	runMu sync.Mutex

	// Core components
	loader    *loader.Loader
	store     repository.Store
	publisher publisher.Publisher

	// Configuration
	dataDir     string
	rulesFile   string
	workerCount int
	gate        standings.GateMode
	bonus       standings.BonusMode
	numeric     standings.NumericPolicy
	eventLog    bool

	// State
	started   bool
	runs      int
	failures  int
	lastRunAt time.Time
	lastErr   error

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		dataDir:     "data",
		workerCount: runtime.NumCPU(),
		gate:        standings.GateAtLeast,
		bonus:       standings.BonusCumulative,
		numeric:     standings.NumericStrict,
		publisher:   publisher.Nop{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.loader == nil {
		s.loader = loader.New(loader.WithLogger(s.logger.Named("loader")))
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
		s.logger.Info(ctx, "using memory snapshot store")
	}

	s.started = true
	s.logger.Info(ctx, "standings service started",
		logger.String("dataDir", s.dataDir),
		logger.String("rules", s.rulesSource()),
		logger.String("gate", s.gate.String()),
		logger.String("bonus", s.bonus.String()),
		logger.Int("workers", s.workerCount),
	)
	return nil
}

// Stop releases the store and the publisher.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping standings service...")

	if err := s.publisher.Close(); err != nil {
		s.logger.Warn(ctx, "failed to close publisher", logger.Error(err))
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn(ctx, "failed to close store", logger.Error(err))
	}

	s.started = false
	s.logger.Info(ctx, "standings service stopped")
}

func (s *Service) rulesSource() string {
	if s.rulesFile == "" {
		return "built-in"
	}
	return s.rulesFile
}

func (s *Service) isStarted() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Rules returns the rule set in use.
func (s *Service) Rules(ctx context.Context) ([]model.Rule, error) {
	if !s.isStarted() {
		return nil, ErrNotStarted
	}
	return s.loader.Rules(ctx, s.rulesFile)
}

// Compute loads matches and rules and aggregates them without storing the
// result. A configuration error aborts the run and no table is returned.
func (s *Service) Compute(ctx context.Context) (Run, error) {
	if !s.isStarted() {
		return Run{}, ErrNotStarted
	}
	start := time.Now()

	matches, err := s.loader.Matches(ctx, s.dataDir)
	if err != nil {
		metrics.RecordAggregationFailure("load_matches")
		return Run{}, err
	}
	rules, err := s.loader.Rules(ctx, s.rulesFile)
	if err != nil {
		metrics.RecordAggregationFailure("load_rules")
		return Run{}, err
	}

	agg := standings.New(
		standings.WithGateMode(s.gate),
		standings.WithBonusMode(s.bonus),
		standings.WithNumericPolicy(s.numeric),
		standings.WithEventLog(s.eventLog),
		standings.WithAwardHook(func(a standings.Award) {
			metrics.RecordRuleAward(a.Rule, a.Type.String())
		}),
	)
	if !agg.Decomposable() && s.workerCount > 1 {
		s.logger.Debug(ctx, "cumulative bonus carries across matches; aggregating sequentially")
	}
	table, err := agg.AggregateConcurrent(ctx, matches, rules, s.workerCount)
	if err != nil {
		metrics.RecordAggregationFailure("aggregate")
		return Run{}, err
	}

	run := Run{Table: table, Matches: len(matches), Events: countScores(matches), Took: time.Since(start)}
	metrics.RecordAggregationRun(run.Took, run.Matches, run.Events, table.Len())
	return run, nil
}

func countScores(matches []model.Match) int {
	n := 0
	for i := range matches {
		for _, ev := range matches[i].HomeEvents {
			if ev.Kind == model.EventScore {
				n++
			}
		}
		for _, ev := range matches[i].AwayEvents {
			if ev.Kind == model.EventScore {
				n++
			}
		}
	}
	return n
}

// Recompute computes a fresh table, stores it as the latest snapshot and
// publishes it. Concurrent calls are serialized. A publish failure is
// logged and does not fail the call; the snapshot is already stored.
func (s *Service) Recompute(ctx context.Context) (repository.Snapshot, error) {
	if !s.isStarted() {
		return repository.Snapshot{}, ErrNotStarted
	}
	s.runMu.Lock()
	defer s.runMu.Unlock()

	run, err := s.Compute(ctx)
	if err != nil {
		s.recordResult(err)
		s.logger.Error(ctx, "standings computation failed", logger.Error(err))
		return repository.Snapshot{}, err
	}

	snap := repository.Snapshot{
		ID:         uuid.NewString(),
		ComputedAt: time.Now().UTC(),
		GateMode:   s.gate.String(),
		BonusMode:  s.bonus.String(),
		Matches:    run.Matches,
		Table:      run.Table,
	}
	if err := s.store.Save(ctx, snap); err != nil {
		metrics.RecordSnapshotError("repository")
		s.recordResult(err)
		return repository.Snapshot{}, fmt.Errorf("save snapshot: %w", err)
	}
	metrics.RecordSnapshotSaved()

	if err := s.publisher.Publish(ctx, snap); err != nil {
		metrics.RecordSnapshotError("publisher")
		s.logger.Warn(ctx, "failed to publish snapshot", logger.String("snapshot", snap.ID), logger.Error(err))
	} else {
		metrics.RecordSnapshotPublished()
	}

	s.recordResult(nil)
	s.logger.Info(ctx, "standings computed",
		logger.String("snapshot", snap.ID),
		logger.Int("matches", run.Matches),
		logger.Int("scoreEvents", run.Events),
		logger.Int("teams", run.Table.Len()),
		logger.Duration("took", run.Took),
	)
	return snap, nil
}

func (s *Service) recordResult(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastRunAt = time.Now().UTC()
	s.lastErr = err
	if err != nil {
		s.failures++
		return
	}
	s.runs++
}

// Latest returns the latest stored snapshot.
func (s *Service) Latest(ctx context.Context) (repository.Snapshot, error) {
	if !s.isStarted() {
		return repository.Snapshot{}, ErrNotStarted
	}
	snap, err := s.store.Latest(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		return repository.Snapshot{}, fmt.Errorf("%w: %w", ErrNoStandings, err)
	}
	return snap, err
}

// Standings returns up to limit rows of the latest snapshot in first-seen
// order, with the snapshot they came from.
func (s *Service) Standings(ctx context.Context, limit int) ([]types.Row, repository.Snapshot, error) {
	snap, err := s.Latest(ctx)
	if err != nil {
		return nil, repository.Snapshot{}, err
	}
	return types.Rows(snap.Table, limit), snap, nil
}

// Team returns one team's row of the latest snapshot.
func (s *Service) Team(ctx context.Context, team string) (types.Row, error) {
	snap, err := s.Latest(ctx)
	if err != nil {
		return types.Row{}, err
	}
	st, err := snap.Team(model.TeamID(team))
	if err != nil {
		return types.Row{}, fmt.Errorf("%w: %s: %w", ErrUnknownTeam, team, err)
	}
	return types.NewRow(model.TeamID(team), st), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"dataDir":     s.dataDir,
		"rules":       s.rulesSource(),
		"gateMode":    s.gate.String(),
		"bonusMode":   s.bonus.String(),
		"numeric":     s.numeric.String(),
		"runs":        s.runs,
		"failures":    s.failures,
	}
	if !s.lastRunAt.IsZero() {
		stats["lastRunAt"] = s.lastRunAt.Format(time.RFC3339)
	}
	if s.lastErr != nil {
		stats["lastError"] = s.lastErr.Error()
	}
	if s.started {
		if n, err := s.store.Count(context.Background()); err == nil {
			stats["snapshots"] = n
		}
	}
	return stats
}
