// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/okian/standings/internal/adapters/repository"
	"github.com/okian/standings/internal/domain/model"
	"github.com/okian/standings/internal/domain/types"
)

const defaultMaxRows = 500

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Read operations expose the latest standings.
	Standings(ctx context.Context, limit int) ([]Row, repository.Snapshot, error)
	Team(ctx context.Context, team string) (Row, error)
	Rules(ctx context.Context) ([]model.Rule, error)

	// Recompute replays all matches and stores a new snapshot.
	Recompute(ctx context.Context) (repository.Snapshot, error)
}

// Row mirrors the read shape returned by standings queries.
type Row = types.Row

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxRows caps the limit accepted by GET /standings.
func WithMaxRows(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxRows = n
		}
	}
}

// Server wires HTTP routes for the business API.
type Server struct {
	maxRows int

	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	standingsHandler *StandingsHandler
	teamHandler      *TeamHandler
	recomputeHandler *RecomputeHandler
	rulesHandler     *RulesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{maxRows: defaultMaxRows}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.standingsHandler = NewStandingsHandler(deps, s.maxRows)
	s.teamHandler = NewTeamHandler(deps)
	s.recomputeHandler = NewRecomputeHandler(deps)
	s.rulesHandler = NewRulesHandler(deps)
	return s
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r *mux.Router) {
	r.HandleFunc("/healthz", instrument("healthz", s.healthHandler.HandleHealth)).Methods(http.MethodGet)
	r.Handle("/metrics", s.healthHandler.MetricsHandler()).Methods(http.MethodGet)
	r.HandleFunc("/stats", instrument("stats", s.statsHandler.HandleStats)).Methods(http.MethodGet)
	r.HandleFunc("/rules", instrument("rules", s.rulesHandler.HandleGetRules)).Methods(http.MethodGet)

	// Specific paths before the {team} pattern.
	r.HandleFunc("/standings/recompute", instrument("recompute", s.recomputeHandler.HandleRecompute)).Methods(http.MethodPost)
	r.HandleFunc("/standings", instrument("standings", s.standingsHandler.HandleGetStandings)).Methods(http.MethodGet)
	r.HandleFunc("/standings/{team}", instrument("team", s.teamHandler.HandleGetTeam)).Methods(http.MethodGet)
}

// Router returns a new router with all routes registered.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	s.Register(r)
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
