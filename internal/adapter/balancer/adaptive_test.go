package balancer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relaylb/relay/internal/core/domain"
)

func TestAdaptiveSelector_PrefersLowerCPU(t *testing.T) {
	s := NewAdaptiveSelector()
	eligible := []domain.ReplicaSnapshot{
		{Name: "hot", CPUUsage: 90, ActiveConns: 0},
		{Name: "cool", CPUUsage: 10, ActiveConns: 0},
	}

	picked, err := s.Select(eligible)
	require.NoError(t, err)
	require.Equal(t, "cool", picked.Name)
}

func TestAdaptiveSelector_ConnectionsBreakCPUTie(t *testing.T) {
	s := NewAdaptiveSelector()
	eligible := []domain.ReplicaSnapshot{
		{Name: "busy", CPUUsage: 50, ActiveConns: 10},
		{Name: "idle", CPUUsage: 50, ActiveConns: 0},
	}

	picked, err := s.Select(eligible)
	require.NoError(t, err)
	require.Equal(t, "idle", picked.Name)
}
