package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/relaylb/relay/internal/core/domain"
)

// ConfigHandler serves POST /config: a partial update of the active policy
// and/or cache probability. Both fields are optional; an absent field is
// left unchanged, and an unknown algorithm is ignored.
type ConfigHandler struct {
	state *domain.RouterState
	log   *slog.Logger
}

func NewConfigHandler(state *domain.RouterState, log *slog.Logger) *ConfigHandler {
	return &ConfigHandler{state: state, log: log}
}

type configRequest struct {
	Algorithm        *string  `json:"algorithm"`
	CacheProbability *float64 `json:"cache_probability"`
}

func (h *ConfigHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req configRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"status": "invalid_request"})
		return
	}

	if req.Algorithm != nil {
		kind, err := domain.ParsePolicyKind(*req.Algorithm)
		if err != nil {
			if h.log != nil {
				h.log.Warn("ignoring unknown algorithm", "algorithm", *req.Algorithm)
			}
		} else {
			h.state.SetPolicy(kind)
			if h.log != nil {
				h.log.Info("algorithm changed", "algorithm", kind.String())
			}
		}
	}

	if req.CacheProbability != nil {
		fraction := *req.CacheProbability / 100
		h.state.SetCacheProbability(fraction)
		if h.log != nil {
			h.log.Info("cache probability changed", "cache_probability_percent", *req.CacheProbability)
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
