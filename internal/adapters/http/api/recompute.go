// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/okian/standings/internal/adapters/repository"
)

// RecomputeDependencies defines the interface for triggering a run.
type RecomputeDependencies interface {
	Recompute(ctx context.Context) (repository.Snapshot, error)
}

// RecomputeHandler handles recompute requests.
type RecomputeHandler struct {
	deps RecomputeDependencies
}

// NewRecomputeHandler creates a new recompute handler.
func NewRecomputeHandler(deps RecomputeDependencies) *RecomputeHandler {
	return &RecomputeHandler{deps: deps}
}

type recomputeResponse struct {
	SnapshotID string    `json:"snapshot_id"`
	ComputedAt time.Time `json:"computed_at"`
	Matches    int       `json:"matches"`
	Teams      int       `json:"teams"`
}

// HandleRecompute handles POST /standings/recompute requests.
// A rule set that cannot be applied yields 422 and leaves the previous
// snapshot in place.
func (h *RecomputeHandler) HandleRecompute(w http.ResponseWriter, r *http.Request) {
	const op = "api.recompute"
	snap, err := h.deps.Recompute(r.Context())
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	teams := 0
	if snap.Table != nil {
		teams = snap.Table.Len()
	}
	writeJSON(w, http.StatusCreated, recomputeResponse{
		SnapshotID: snap.ID,
		ComputedAt: snap.ComputedAt,
		Matches:    snap.Matches,
		Teams:      teams,
	})
}
