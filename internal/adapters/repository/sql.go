package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/okian/standings/internal/domain/model"
)

//go:embed schema.sql
var schemaSQL string

// SQLStore persists snapshots in Postgres (production) or SQLite. The table
// is stored as its JSON encoding so team order survives the round trip.
type SQLStore struct {
	db *sql.DB
}

var _ Store = (*SQLStore)(nil)

// OpenSQL opens driver ("postgres" or "sqlite3") at dsn and applies the schema.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	switch driver {
	case "postgres", "sqlite3":
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDriver, driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == "sqlite3" {
		// One connection keeps ":memory:" databases shared and avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Save implements Store.Save.
func (s *SQLStore) Save(ctx context.Context, snap Snapshot) error {
	table := snap.Table
	if table == nil {
		table = model.NewTable()
	}
	body, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("encode standings: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO standings_snapshots (id, computed_at, gate_mode, bonus_mode, matches, standings)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		snap.ID, snap.ComputedAt.UnixNano(), snap.GateMode, snap.BonusMode, snap.Matches, string(body))
	if err != nil {
		return fmt.Errorf("failed to insert snapshot %s: %w", snap.ID, err)
	}
	return nil
}

const selectSnapshot = `SELECT id, computed_at, gate_mode, bonus_mode, matches, standings FROM standings_snapshots`

// Latest implements Store.Latest.
func (s *SQLStore) Latest(ctx context.Context) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, selectSnapshot+` ORDER BY computed_at DESC, id DESC LIMIT 1`)
	return scanSnapshot(row)
}

// Get implements Store.Get.
func (s *SQLStore) Get(ctx context.Context, id string) (Snapshot, error) {
	row := s.db.QueryRowContext(ctx, selectSnapshot+` WHERE id = $1`, id)
	return scanSnapshot(row)
}

// Count implements Store.Count.
func (s *SQLStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM standings_snapshots`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return n, nil
}

// Close implements Store.Close.
func (s *SQLStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func scanSnapshot(row *sql.Row) (Snapshot, error) {
	var (
		snap Snapshot
		at   int64
		body string
	)
	err := row.Scan(&snap.ID, &at, &snap.GateMode, &snap.BonusMode, &snap.Matches, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	snap.ComputedAt = time.Unix(0, at).UTC()
	snap.Table = model.NewTable()
	if err := json.Unmarshal([]byte(body), snap.Table); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot %s: %w", snap.ID, err)
	}
	return snap, nil
}
