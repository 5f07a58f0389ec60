package balancer

import (
	"sync/atomic"

	"github.com/relaylb/relay/internal/core/domain"
)

// RoundRobinSelector maintains a monotonic cursor shared across requests.
// Selection = eligible[cursor mod len(eligible)], cursor post-incremented,
// so across N requests to a stable eligible set of size k each replica
// receives floor(N/k) or ceil(N/k) requests.
type RoundRobinSelector struct {
	counter uint64
}

func NewRoundRobinSelector() *RoundRobinSelector {
	return &RoundRobinSelector{}
}

func (s *RoundRobinSelector) Name() string {
	return domain.PolicyNameRoundRobin
}

func (s *RoundRobinSelector) Select(eligible []domain.ReplicaSnapshot) (domain.ReplicaSnapshot, error) {
	if len(eligible) == 0 {
		return domain.ReplicaSnapshot{}, domain.ErrNoEligibleReplicas
	}

	current := atomic.AddUint64(&s.counter, 1) - 1
	index := current % uint64(len(eligible))
	return eligible[index], nil
}
