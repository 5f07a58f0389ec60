package balancer

import (
	"math/rand"

	"github.com/relaylb/relay/internal/core/domain"
)

// P2CSelector implements power-of-two-choices: draw two distinct replicas
// uniformly from the eligible set and pick the one with fewer active
// connections. This is the well-known result that P2C contracts the
// maximum load versus pure random selection.
type P2CSelector struct {
	rnd *rand.Rand
}

func NewP2CSelector() *P2CSelector {
	return &P2CSelector{rnd: rand.New(rand.NewSource(rand.Int63()))}
}

func (s *P2CSelector) Name() string {
	return domain.PolicyNameP2C
}

func (s *P2CSelector) Select(eligible []domain.ReplicaSnapshot) (domain.ReplicaSnapshot, error) {
	if len(eligible) == 0 {
		return domain.ReplicaSnapshot{}, domain.ErrNoEligibleReplicas
	}
	if len(eligible) == 1 {
		return eligible[0], nil
	}

	i := s.rnd.Intn(len(eligible))
	j := s.rnd.Intn(len(eligible) - 1)
	if j >= i {
		j++
	}

	a, b := eligible[i], eligible[j]
	if a.ActiveConns <= b.ActiveConns {
		return a, nil
	}
	return b, nil
}
