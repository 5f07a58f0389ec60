package stats

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaylb/relay/internal/core/domain"
	"github.com/relaylb/relay/internal/core/ports"
)

func newTestPool(t *testing.T) *domain.Pool {
	t.Helper()
	u, err := url.Parse("http://localhost:9001")
	require.NoError(t, err)
	return domain.NewPool([]*domain.Replica{
		domain.NewReplica("r1", u, 1, 0.5),
		domain.NewReplica("r2", u, 1, 0.25),
	})
}

func TestTracker_BeginEndRequestTracksActiveConns(t *testing.T) {
	pool := newTestPool(t)
	state := domain.NewRouterState(domain.PolicyRoundRobin, 0.1)
	tr := NewTracker(pool, state)
	r1 := pool.Find("r1")

	tr.BeginRequest(r1)
	assert.Equal(t, int64(1), r1.ActiveConns())

	tr.EndRequest(r1, ports.OutcomeHealthy, 20*time.Millisecond, 30, true)
	assert.Equal(t, int64(0), r1.ActiveConns())
	assert.Equal(t, int64(1), r1.Snapshot().TotalHandled)
}

func TestTracker_EndRequestFailureDoesNotRecordSuccess(t *testing.T) {
	pool := newTestPool(t)
	state := domain.NewRouterState(domain.PolicyRoundRobin, 0.1)
	tr := NewTracker(pool, state)
	r1 := pool.Find("r1")

	tr.BeginRequest(r1)
	tr.EndRequest(r1, ports.OutcomeUpstreamError, 0, 0, false)

	assert.Equal(t, int64(0), r1.Snapshot().TotalHandled)
}

func TestTracker_DecayTickReducesHealthyCPU(t *testing.T) {
	pool := newTestPool(t)
	state := domain.NewRouterState(domain.PolicyRoundRobin, 0.1)
	tr := NewTracker(pool, state)
	r1 := pool.Find("r1")
	r1.SetCPUUsage(50)

	tr.DecayTick()
	assert.Less(t, r1.Snapshot().CPUUsage, 50.0)
}

func TestTracker_SnapshotAggregatesCostForEnabledOnly(t *testing.T) {
	pool := newTestPool(t)
	state := domain.NewRouterState(domain.PolicyP2C, 0.2)
	tr := NewTracker(pool, state)
	pool.Find("r2").SetEnabled(false)

	snap := tr.Snapshot()
	assert.Equal(t, "p2c", snap.Algorithm)
	assert.Equal(t, 0.2, snap.CacheProbability)
	assert.Equal(t, 0.5, snap.CurrentCostPerHour)
	assert.Len(t, snap.Replicas, 2)
}

func TestTracker_CountersIncrement(t *testing.T) {
	pool := newTestPool(t)
	state := domain.NewRouterState(domain.PolicyRoundRobin, 0.1)
	tr := NewTracker(pool, state)

	tr.IncrementTotalRequests()
	tr.IncrementTotalRequests()
	tr.IncrementCacheHits()

	snap := tr.Snapshot()
	assert.Equal(t, int64(2), snap.TotalRequests)
	assert.Equal(t, int64(1), snap.CacheHits)
}
