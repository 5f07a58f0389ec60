package util

import (
	"fmt"
	"math/rand"
)

// GenerateRequestID returns a short, human-greppable request identifier for
// correlating log lines across the router and control-plane handlers.
func GenerateRequestID() string {
	actions := []string{
		"routing", "forwarding", "probing", "draining", "retrying",
		"balancing", "dispatching", "queuing", "polling", "relaying",
	}
	hops := []string{
		"uplink", "downlink", "backbone", "edge", "gateway",
		"spoke", "hub", "trunk", "relay", "circuit",
	}

	hop := hops[rand.Intn(len(hops))]
	action := actions[rand.Intn(len(actions))]
	suffix := fmt.Sprintf("%04x", rand.Intn(65536))

	return fmt.Sprintf("%s_%s_%s", hop, action, suffix)
}
