// Package router implements the request router: cache probe, policy
// selection, upstream forward, and stats update, in that order, for every
// inbound client request.
package router

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/relaylb/relay/internal/adapter/balancer"
	"github.com/relaylb/relay/internal/core/domain"
	"github.com/relaylb/relay/internal/core/ports"
)

// UpstreamTimeout bounds every forwarded request; elapsing it is treated as
// a transport failure.
const UpstreamTimeout = 30 * time.Second

// Router orchestrates a single inbound request against the shared balancer
// state: cache check, eligible-set computation, policy dispatch, forward,
// and the always-run stats update.
type Router struct {
	pool      *domain.Pool
	state     *domain.RouterState
	gate      ports.HealthGate
	tracker   ports.StatsTracker
	collector ports.StatsCollector
	cache     ports.ResponseCache
	factory   *balancer.Factory
	client    *http.Client
	log       *slog.Logger
}

func New(pool *domain.Pool, state *domain.RouterState, gate ports.HealthGate, tracker ports.StatsTracker, collector ports.StatsCollector, cache ports.ResponseCache, factory *balancer.Factory, log *slog.Logger) *Router {
	return &Router{
		pool:      pool,
		state:     state,
		gate:      gate,
		tracker:   tracker,
		collector: collector,
		cache:     cache,
		factory:   factory,
		client:    &http.Client{Timeout: UpstreamTimeout},
		log:       log,
	}
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.collector.IncrementTotalRequests()

	if rt.serveFromCache(w) {
		return
	}

	eligible := rt.eligibleSnapshots()
	if len(eligible) == 0 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "system_failure"})
		return
	}

	selector, err := rt.factory.Get(rt.state.Policy())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "system_failure"})
		return
	}

	picked, err := selector.Select(eligible)
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "system_failure"})
		return
	}

	target := rt.pool.Find(picked.Name)
	if target == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "system_failure"})
		return
	}

	rt.forward(w, r, target)
}

func (rt *Router) eligibleSnapshots() []domain.ReplicaSnapshot {
	all := rt.pool.All()
	eligible := make([]domain.ReplicaSnapshot, 0, len(all))
	for _, replica := range all {
		if rt.gate.Eligible(replica) {
			eligible = append(eligible, replica.Snapshot())
		}
	}
	return eligible
}

// serveFromCache implements the cache-probe step: a Bernoulli draw against
// the configured cache probability, with the cached body's status and
// cpu_usage fields overridden so clients can tell a cache hit from a fresh
// forward.
func (rt *Router) serveFromCache(w http.ResponseWriter) bool {
	entry, ok := rt.cache.Get()
	if !ok {
		return false
	}
	if rand.Float64() >= rt.state.CacheProbability() {
		return false
	}

	rt.collector.IncrementCacheHits()

	var payload map[string]any
	if err := json.Unmarshal(entry.Body, &payload); err != nil {
		payload = map[string]any{}
	}
	payload["status"] = "served_from_cache_lucky"
	payload["cpu_usage"] = 0

	writeJSON(w, entry.StatusCode, payload)
	return true
}

func (rt *Router) forward(w http.ResponseWriter, r *http.Request, replica *domain.Replica) {
	rt.tracker.BeginRequest(replica)

	start := time.Now()
	outcome := ports.OutcomeUpstreamError
	var cpuUsage float64
	var hasCPU bool
	defer func() {
		rt.tracker.EndRequest(replica, outcome, time.Since(start), cpuUsage, hasCPU)
	}()

	target := *replica.URL
	target.RawQuery = r.URL.RawQuery

	ctx, cancel := context.WithTimeout(r.Context(), UpstreamTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		outcome = ports.OutcomeTransportFailure
		rt.gate.RecordTransportFailure(replica)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "Connection failed"})
		return
	}

	resp, err := rt.client.Do(req)
	if err != nil {
		outcome = ports.OutcomeTransportFailure
		rt.gate.RecordTransportFailure(replica)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "Connection failed"})
		return
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome = ports.OutcomeTransportFailure
		rt.gate.RecordTransportFailure(replica)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "Connection failed"})
		return
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		cpuUsage, hasCPU = extractCPUUsage(body)
		outcome = ports.OutcomeHealthy
		rt.gate.RecordSuccess(replica)
		rt.cache.Put(domain.CacheEntry{Body: body, StatusCode: resp.StatusCode})
		writeRaw(w, resp.StatusCode, body)
	case resp.StatusCode == http.StatusServiceUnavailable:
		rt.gate.RecordUpstream503(replica)
		writeRaw(w, resp.StatusCode, body)
	default:
		writeRaw(w, resp.StatusCode, body)
	}
}

func extractCPUUsage(body []byte) (float64, bool) {
	var payload struct {
		CPUUsage *float64 `json:"cpu_usage"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.CPUUsage == nil {
		return 0, false
	}
	return *payload.CPUUsage, true
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
