package domain

import "fmt"

// PolicyKind is the tagged variant replacing a stringly-typed selector:
// switching policies is a single atomic store of a PolicyKind rather than
// an if/else chain over strings.
type PolicyKind int32

const (
	PolicyRoundRobin PolicyKind = iota
	PolicyLeastConnections
	PolicyWeightedResponseTime
	PolicyPeakEWMA
	PolicyP2C
	PolicyAdaptive
)

const (
	PolicyNameRoundRobin       = "round_robin"
	PolicyNameLeastConnections = "least_connection"
	PolicyNameWeightedResponse = "weighted_response_time"
	PolicyNamePeakEWMA         = "peak_ewma"
	PolicyNameP2C              = "p2c"
	PolicyNameAdaptive         = "adaptive"
)

func (k PolicyKind) String() string {
	switch k {
	case PolicyRoundRobin:
		return PolicyNameRoundRobin
	case PolicyLeastConnections:
		return PolicyNameLeastConnections
	case PolicyWeightedResponseTime:
		return PolicyNameWeightedResponse
	case PolicyPeakEWMA:
		return PolicyNamePeakEWMA
	case PolicyP2C:
		return PolicyNameP2C
	case PolicyAdaptive:
		return PolicyNameAdaptive
	default:
		return "unknown"
	}
}

// ParsePolicyKind maps the wire algorithm identifier to a PolicyKind.
func ParsePolicyKind(name string) (PolicyKind, error) {
	switch name {
	case PolicyNameRoundRobin:
		return PolicyRoundRobin, nil
	case PolicyNameLeastConnections:
		return PolicyLeastConnections, nil
	case PolicyNameWeightedResponse:
		return PolicyWeightedResponseTime, nil
	case PolicyNamePeakEWMA:
		return PolicyPeakEWMA, nil
	case PolicyNameP2C:
		return PolicyP2C, nil
	case PolicyNameAdaptive:
		return PolicyAdaptive, nil
	default:
		return 0, fmt.Errorf("unknown load balancer policy: %s", name)
	}
}

// PolicySelector is a pure function from a set of eligible replica
// snapshots to a chosen replica. Implementations must not mutate the
// snapshots they are given; state updates flow through the tracker, not the
// policy.
type PolicySelector interface {
	Name() string
	Select(eligible []ReplicaSnapshot) (ReplicaSnapshot, error)
}

var ErrNoEligibleReplicas = fmt.Errorf("no eligible replicas available")
