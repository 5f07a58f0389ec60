package ports

import (
	"time"

	"github.com/relaylb/relay/internal/core/domain"
)

// HealthGate is the circuit-breaker / health-gate contract: it decides
// whether a replica is eligible right now, and it moves a replica between
// healthy and crashed on request outcomes. A manual disable
// (domain.Replica.SetEnabled(false)) also forces health back to healthy.
type HealthGate interface {
	// Eligible reports whether a replica may currently receive traffic:
	// enabled and (healthy or past its recovery window).
	Eligible(replica *domain.Replica) bool

	// RecordUpstream503 marks the replica crashed because the upstream
	// itself signalled overload.
	RecordUpstream503(replica *domain.Replica)

	// RecordTransportFailure marks the replica crashed because the
	// connection could not be established or timed out.
	RecordTransportFailure(replica *domain.Replica)

	// RecordSuccess promotes the replica back to healthy on a confirmed
	// 2xx response.
	RecordSuccess(replica *domain.Replica)

	// Reset discards any tripped breaker state for the replica, giving it
	// a clean slate. Called when a replica is manually disabled.
	Reset(replica *domain.Replica)
}

// StatsTracker is the backend state tracker contract (begin/end request
// pair plus the background decay tick).
type StatsTracker interface {
	BeginRequest(replica *domain.Replica)
	EndRequest(replica *domain.Replica, outcome Outcome, latency time.Duration, cpuUsage float64, hasCPU bool)
	DecayTick()
}

// Outcome classifies how a forwarded request ended, used to decide whether
// the moving averages should be updated.
type Outcome int

const (
	OutcomeHealthy Outcome = iota
	OutcomeUpstreamError
	OutcomeTransportFailure
)

// ResponseCache is the single-slot response cache contract.
type ResponseCache interface {
	Get() (domain.CacheEntry, bool)
	Put(entry domain.CacheEntry)
}

// StatsCollector publishes process-wide counters for the control plane.
type StatsCollector interface {
	IncrementTotalRequests()
	IncrementCacheHits()
	Snapshot() StatsSnapshot
}

// StatsSnapshot is the data backing GET /stats.
type StatsSnapshot struct {
	Algorithm          string
	CacheProbability   float64
	TotalRequests      int64
	CacheHits          int64
	CurrentCostPerHour float64
	Replicas           []domain.ReplicaSnapshot
}
