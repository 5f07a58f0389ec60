package stats

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/relaylb/relay/internal/core/domain"
	"github.com/relaylb/relay/internal/core/ports"
)

// decayMin and decayMax bound the per-tick CPU cool-down applied to every
// healthy replica: an integer drawn uniformly from [10, 20].
const (
	decayMin = 10
	decayMax = 20
)

// Tracker is the stats tracker and stats collector: it mutates per-request
// replica counters on the hot path and assembles the aggregate snapshot
// served at /stats.
type Tracker struct {
	pool  *domain.Pool
	state *domain.RouterState

	rndMu sync.Mutex
	rnd   *rand.Rand

	totalRequests int64
	cacheHits     int64
}

func NewTracker(pool *domain.Pool, state *domain.RouterState) *Tracker {
	return &Tracker{
		pool:  pool,
		state: state,
		rnd:   rand.New(rand.NewSource(rand.Int63())),
	}
}

func (t *Tracker) BeginRequest(replica *domain.Replica) {
	replica.IncrementActiveConns()
}

func (t *Tracker) EndRequest(replica *domain.Replica, outcome ports.Outcome, latency time.Duration, cpuUsage float64, hasCPU bool) {
	defer replica.DecrementActiveConns()

	if outcome == ports.OutcomeHealthy {
		replica.RecordSuccess(latency, cpuUsage, hasCPU)
	}
}

func (t *Tracker) DecayTick() {
	for _, r := range t.pool.All() {
		r.DecayCPU(t.nextDecayAmount())
	}
}

func (t *Tracker) nextDecayAmount() float64 {
	t.rndMu.Lock()
	defer t.rndMu.Unlock()
	return float64(decayMin + t.rnd.Intn(decayMax-decayMin+1))
}

func (t *Tracker) IncrementTotalRequests() {
	atomic.AddInt64(&t.totalRequests, 1)
}

func (t *Tracker) IncrementCacheHits() {
	atomic.AddInt64(&t.cacheHits, 1)
}

func (t *Tracker) Snapshot() ports.StatsSnapshot {
	replicas := t.pool.All()
	snaps := make([]domain.ReplicaSnapshot, 0, len(replicas))
	var costPerHour float64
	for _, r := range replicas {
		snap := r.Snapshot()
		snaps = append(snaps, snap)
		if snap.Enabled {
			costPerHour += snap.CostPerHour
		}
	}

	return ports.StatsSnapshot{
		Algorithm:          t.state.Policy().String(),
		CacheProbability:   t.state.CacheProbability(),
		TotalRequests:      atomic.LoadInt64(&t.totalRequests),
		CacheHits:          atomic.LoadInt64(&t.cacheHits),
		CurrentCostPerHour: costPerHour,
		Replicas:           snaps,
	}
}
