package balancer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relaylb/relay/internal/core/domain"
)

func TestWeightedResponseTimeSelector_PrefersColdReplica(t *testing.T) {
	s := NewWeightedResponseTimeSelector()
	eligible := []domain.ReplicaSnapshot{
		{Name: "warm", Weight: 1, AvgLatencyMs: 50},
		{Name: "cold", Weight: 1, AvgLatencyMs: 0},
	}

	picked, err := s.Select(eligible)
	require.NoError(t, err)
	require.Equal(t, "cold", picked.Name)
}

func TestWeightedResponseTimeSelector_HigherWeightWins(t *testing.T) {
	s := NewWeightedResponseTimeSelector()
	eligible := []domain.ReplicaSnapshot{
		{Name: "a", Weight: 1, AvgLatencyMs: 10},
		{Name: "b", Weight: 5, AvgLatencyMs: 10},
	}

	picked, err := s.Select(eligible)
	require.NoError(t, err)
	require.Equal(t, "b", picked.Name)
}
