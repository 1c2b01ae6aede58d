// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/standings/internal/domain/model"
)

// RulesDependencies defines the interface for reading the rule set.
type RulesDependencies interface {
	Rules(ctx context.Context) ([]model.Rule, error)
}

// RulesHandler handles rule set requests.
type RulesHandler struct {
	deps RulesDependencies
}

// NewRulesHandler creates a new rules handler.
func NewRulesHandler(deps RulesDependencies) *RulesHandler {
	return &RulesHandler{deps: deps}
}

// HandleGetRules handles GET /rules requests.
func (h *RulesHandler) HandleGetRules(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rules"
	rules, err := h.deps.Rules(r.Context())
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rules)
}
