package balancer

import "github.com/relaylb/relay/internal/core/domain"

// LeastConnectionsSelector picks the eligible replica with the fewest
// active connections, reading the count the tracker already maintains.
// Ties are broken by first occurrence in the eligible slice.
type LeastConnectionsSelector struct{}

func NewLeastConnectionsSelector() *LeastConnectionsSelector {
	return &LeastConnectionsSelector{}
}

func (s *LeastConnectionsSelector) Name() string {
	return domain.PolicyNameLeastConnections
}

func (s *LeastConnectionsSelector) Select(eligible []domain.ReplicaSnapshot) (domain.ReplicaSnapshot, error) {
	if len(eligible) == 0 {
		return domain.ReplicaSnapshot{}, domain.ErrNoEligibleReplicas
	}

	selected := eligible[0]
	for _, r := range eligible[1:] {
		if r.ActiveConns < selected.ActiveConns {
			selected = r
		}
	}
	return selected, nil
}
