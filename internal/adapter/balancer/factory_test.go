package balancer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaylb/relay/internal/core/domain"
)

func TestFactory_GetAllPolicies(t *testing.T) {
	f := NewFactory()

	kinds := []domain.PolicyKind{
		domain.PolicyRoundRobin,
		domain.PolicyLeastConnections,
		domain.PolicyWeightedResponseTime,
		domain.PolicyPeakEWMA,
		domain.PolicyP2C,
		domain.PolicyAdaptive,
	}

	for _, k := range kinds {
		selector, err := f.Get(k)
		require.NoError(t, err)
		assert.Equal(t, k.String(), selector.Name())
	}
}

func TestFactory_UnknownPolicy(t *testing.T) {
	f := NewFactory()
	_, err := f.Get(domain.PolicyKind(99))
	require.Error(t, err)
}

func TestFactory_AvailablePolicies(t *testing.T) {
	f := NewFactory()
	assert.Len(t, f.AvailablePolicies(), 6)
}
