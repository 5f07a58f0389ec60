package handlers

import "net/http"

// HealthHandler serves GET /internal/health: an always-200 liveness probe
// for the balancer process itself, independent of replica health.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
