// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/standings/internal/adapters/repository"
	"github.com/okian/standings/internal/domain/model"
)

// StandingsDependencies defines the interface for standings reads.
type StandingsDependencies interface {
	Standings(ctx context.Context, limit int) ([]Row, repository.Snapshot, error)
}

// StandingsHandler handles standings requests.
type StandingsHandler struct {
	deps     StandingsDependencies
	maxLimit int
}

// NewStandingsHandler creates a new standings handler.
func NewStandingsHandler(deps StandingsDependencies, maxLimit int) *StandingsHandler {
	return &StandingsHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

type standingsResponse struct {
	SnapshotID string    `json:"snapshot_id"`
	ComputedAt time.Time `json:"computed_at"`
	GateMode   string    `json:"gate_mode"`
	BonusMode  string    `json:"bonus_mode"`
	Matches    int       `json:"matches"`
	Standings  []Row     `json:"standings"`
}

// HandleGetStandings handles GET /standings?limit=N requests.
// Rows keep the order in which teams were first seen.
func (h *StandingsHandler) HandleGetStandings(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_standings"
	n := h.maxLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		n, err = strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
	}
	rows, snap, err := h.deps.Standings(r.Context(), n)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, standingsResponse{
		SnapshotID: snap.ID,
		ComputedAt: snap.ComputedAt,
		GateMode:   snap.GateMode,
		BonusMode:  snap.BonusMode,
		Matches:    snap.Matches,
		Standings:  rows,
	})
}

// writeFailure translates upstream errors into status codes.
func writeFailure(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrTeamNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusServiceUnavailable, "not_computed", WrapKind(op, ErrUnavailable, err))
	case errors.Is(err, model.ErrConfiguration):
		writeError(w, http.StatusUnprocessableEntity, "configuration_error", WrapKind(op, ErrUnprocessable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
