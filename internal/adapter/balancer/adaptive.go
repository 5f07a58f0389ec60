package balancer

import "github.com/relaylb/relay/internal/core/domain"

// Adaptive weighting: CPU dominates at roughly 2.3:1 over connection count
// (0.7 vs 0.3*5), so readings let active connections break ties when CPU
// is similar across replicas.
const (
	adaptiveCPUWeight  = 0.7
	adaptiveConnWeight = 0.3
	adaptiveConnScale  = 5.0
)

// AdaptiveSelector picks the eligible replica minimising a CPU-aware score.
type AdaptiveSelector struct{}

func NewAdaptiveSelector() *AdaptiveSelector {
	return &AdaptiveSelector{}
}

func (s *AdaptiveSelector) Name() string {
	return domain.PolicyNameAdaptive
}

func (s *AdaptiveSelector) Select(eligible []domain.ReplicaSnapshot) (domain.ReplicaSnapshot, error) {
	if len(eligible) == 0 {
		return domain.ReplicaSnapshot{}, domain.ErrNoEligibleReplicas
	}

	best := eligible[0]
	bestScore := adaptiveScore(best)
	for _, r := range eligible[1:] {
		s := adaptiveScore(r)
		if s < bestScore {
			bestScore = s
			best = r
		}
	}
	return best, nil
}

func adaptiveScore(r domain.ReplicaSnapshot) float64 {
	return adaptiveCPUWeight*r.CPUUsage + adaptiveConnWeight*(adaptiveConnScale*float64(r.ActiveConns))
}
