package domain

import (
	"math"
	"sync/atomic"
)

// RouterState is the process-wide shared mutable state the control plane
// mutates and the router reads on every request: the active policy and the
// cache-hit probability. Both fields are updated under their own atomic,
// matching the "no restart required, no draining" control-plane contract.
type RouterState struct {
	policy           atomic.Int32
	cacheProbability atomic.Uint64
}

func NewRouterState(initial PolicyKind, cacheProbability float64) *RouterState {
	s := &RouterState{}
	s.policy.Store(int32(initial))
	s.SetCacheProbability(cacheProbability)
	return s
}

func (s *RouterState) Policy() PolicyKind {
	return PolicyKind(s.policy.Load())
}

func (s *RouterState) SetPolicy(kind PolicyKind) {
	s.policy.Store(int32(kind))
}

func (s *RouterState) CacheProbability() float64 {
	return math.Float64frombits(s.cacheProbability.Load())
}

func (s *RouterState) SetCacheProbability(p float64) {
	s.cacheProbability.Store(math.Float64bits(p))
}
