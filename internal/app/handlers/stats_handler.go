// Package handlers implements the control-plane HTTP handlers: stats
// snapshot, runtime config update, and per-replica enable/disable toggle.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/relaylb/relay/internal/core/ports"
)

// StatsHandler serves GET /stats: the current policy, cache probability (as
// a wire percentage), request/cache counters, running cost, and a snapshot
// of every replica.
type StatsHandler struct {
	collector ports.StatsCollector
}

func NewStatsHandler(collector ports.StatsCollector) *StatsHandler {
	return &StatsHandler{collector: collector}
}

type replicaStatsView struct {
	Name            string  `json:"name"`
	Health          string  `json:"health"`
	Enabled         bool    `json:"enabled"`
	ActiveConns     int64   `json:"active_connections"`
	CPUUsage        float64 `json:"cpu_usage"`
	AvgLatencyMs    float64 `json:"avg_latency_ms"`
	PeakEWMALatency float64 `json:"peak_ewma_latency_ms"`
	TotalHandled    int64   `json:"total_handled"`
	CostPerHour     float64 `json:"cost_per_hour"`
}

type statsView struct {
	Algorithm          string             `json:"algorithm"`
	CacheProbability   float64            `json:"cache_probability"`
	TotalRequests      int64              `json:"total_requests"`
	CacheHits          int64              `json:"cache_hits"`
	CurrentCostPerHour float64            `json:"current_cost_per_hour"`
	Servers            []replicaStatsView `json:"servers"`
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snap := h.collector.Snapshot()

	servers := make([]replicaStatsView, 0, len(snap.Replicas))
	for _, rep := range snap.Replicas {
		servers = append(servers, replicaStatsView{
			Name:            rep.Name,
			Health:          rep.Health.String(),
			Enabled:         rep.Enabled,
			ActiveConns:     rep.ActiveConns,
			CPUUsage:        rep.CPUUsage,
			AvgLatencyMs:    rep.AvgLatencyMs,
			PeakEWMALatency: rep.PeakEWMALatency,
			TotalHandled:    rep.TotalHandled,
			CostPerHour:     rep.CostPerHour,
		})
	}

	view := statsView{
		Algorithm:          snap.Algorithm,
		CacheProbability:   snap.CacheProbability * 100,
		TotalRequests:      snap.TotalRequests,
		CacheHits:          snap.CacheHits,
		CurrentCostPerHour: snap.CurrentCostPerHour,
		Servers:            servers,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(view)
}
