// Package repository stores computed standings snapshots.
package repository

import (
	"context"
	"time"

	"github.com/okian/standings/internal/domain/model"
)

// Snapshot is one computed standings table and how it was computed.
type Snapshot struct {
	ID         string       `json:"id"`
	ComputedAt time.Time    `json:"computed_at"`
	GateMode   string       `json:"gate_mode"`
	BonusMode  string       `json:"bonus_mode"`
	Matches    int          `json:"matches"`
	Table      *model.Table `json:"standings"`
}

// Team returns the standing of team in the snapshot.
// Returns ErrTeamNotFound if the team never played.
func (s Snapshot) Team(team model.TeamID) (model.TeamStanding, error) {
	if s.Table == nil {
		return model.TeamStanding{}, ErrTeamNotFound
	}
	st, ok := s.Table.Get(team)
	if !ok {
		return model.TeamStanding{}, ErrTeamNotFound
	}
	return st, nil
}

// Store provides read/write access to standings snapshots.
type Store interface {
	// Save records a snapshot; it becomes the latest one.
	Save(ctx context.Context, snap Snapshot) error

	// Latest returns the most recently saved snapshot.
	// Returns ErrNotFound if nothing was saved yet.
	Latest(ctx context.Context) (Snapshot, error)

	// Get returns the snapshot with id.
	// Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (Snapshot, error)

	// Count returns the number of snapshots kept.
	Count(ctx context.Context) (int, error)

	// Close releases the store's resources.
	Close() error
}
