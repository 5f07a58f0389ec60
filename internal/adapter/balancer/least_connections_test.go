package balancer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relaylb/relay/internal/core/domain"
)

func TestLeastConnectionsSelector_PicksLowest(t *testing.T) {
	s := NewLeastConnectionsSelector()
	eligible := []domain.ReplicaSnapshot{
		{Name: "a", ActiveConns: 2},
		{Name: "b", ActiveConns: 2},
		{Name: "c", ActiveConns: 0},
	}

	picked, err := s.Select(eligible)
	require.NoError(t, err)
	require.Equal(t, "c", picked.Name)
}

func TestLeastConnectionsSelector_TieBreaksByOrder(t *testing.T) {
	s := NewLeastConnectionsSelector()
	eligible := []domain.ReplicaSnapshot{
		{Name: "a", ActiveConns: 1},
		{Name: "b", ActiveConns: 1},
	}

	picked, err := s.Select(eligible)
	require.NoError(t, err)
	require.Equal(t, "a", picked.Name)
}

func TestLeastConnectionsSelector_NoEligible(t *testing.T) {
	s := NewLeastConnectionsSelector()
	_, err := s.Select(nil)
	require.ErrorIs(t, err, domain.ErrNoEligibleReplicas)
}
