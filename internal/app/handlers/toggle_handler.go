package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/relaylb/relay/internal/core/domain"
	"github.com/relaylb/relay/internal/core/ports"
)

// ToggleHandler serves POST /toggle_server: manual enable/disable of a
// single replica by name.
type ToggleHandler struct {
	pool *domain.Pool
	gate ports.HealthGate
	log  *slog.Logger
}

func NewToggleHandler(pool *domain.Pool, gate ports.HealthGate, log *slog.Logger) *ToggleHandler {
	return &ToggleHandler{pool: pool, gate: gate, log: log}
}

type toggleRequest struct {
	Name   string `json:"name"`
	Action string `json:"action"`
}

func (h *ToggleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "invalid_request"})
		return
	}

	replica := h.pool.Find(req.Name)
	if replica == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"status": "not_found"})
		return
	}

	switch req.Action {
	case "on":
		replica.SetEnabled(true)
	case "off":
		replica.SetEnabled(false)
		// Clears the tripped breaker alongside the replica's own
		// counters, so a later re-enable starts from a clean slate
		// instead of sitting out the rest of the recovery window.
		h.gate.Reset(replica)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "unknown_action"})
		return
	}

	if h.log != nil {
		h.log.Info("replica toggled", "replica", req.Name, "action", req.Action)
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
