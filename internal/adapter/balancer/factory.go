package balancer

import (
	"fmt"
	"sync"

	"github.com/relaylb/relay/internal/core/domain"
)

// Factory builds a domain.PolicySelector for a given PolicyKind. Policy
// switching (POST /config, config hot-reload) just swaps which selector the
// router atomically loads from here; selectors themselves are cheap and
// immutable enough to keep all six constructed up front.
type Factory struct {
	mu        sync.RWMutex
	selectors map[domain.PolicyKind]domain.PolicySelector
}

func NewFactory() *Factory {
	return &Factory{
		selectors: map[domain.PolicyKind]domain.PolicySelector{
			domain.PolicyRoundRobin:           NewRoundRobinSelector(),
			domain.PolicyLeastConnections:     NewLeastConnectionsSelector(),
			domain.PolicyWeightedResponseTime: NewWeightedResponseTimeSelector(),
			domain.PolicyPeakEWMA:             NewPeakEWMASelector(),
			domain.PolicyP2C:                  NewP2CSelector(),
			domain.PolicyAdaptive:             NewAdaptiveSelector(),
		},
	}
}

func (f *Factory) Get(kind domain.PolicyKind) (domain.PolicySelector, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	selector, ok := f.selectors[kind]
	if !ok {
		return nil, fmt.Errorf("unknown load balancer policy: %v", kind)
	}
	return selector, nil
}

func (f *Factory) AvailablePolicies() []string {
	return []string{
		domain.PolicyNameRoundRobin,
		domain.PolicyNameLeastConnections,
		domain.PolicyNameWeightedResponse,
		domain.PolicyNamePeakEWMA,
		domain.PolicyNameP2C,
		domain.PolicyNameAdaptive,
	}
}
