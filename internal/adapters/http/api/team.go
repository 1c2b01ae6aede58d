// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// TeamDependencies defines the interface for single-team reads.
type TeamDependencies interface {
	Team(ctx context.Context, team string) (Row, error)
}

// TeamHandler handles team requests.
type TeamHandler struct {
	deps TeamDependencies
}

// NewTeamHandler creates a new team handler.
func NewTeamHandler(deps TeamDependencies) *TeamHandler {
	return &TeamHandler{deps: deps}
}

// HandleGetTeam handles GET /standings/{team} requests.
func (h *TeamHandler) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_team"
	team := mux.Vars(r)["team"]
	if strings.TrimSpace(team) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	row, err := h.deps.Team(r.Context(), team)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}
