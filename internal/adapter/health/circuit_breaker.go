package health

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/relaylb/relay/internal/core/domain"
)

// RecoveryWindow is the cool-down a crashed replica sits in before it is
// implicitly re-admitted for a confirming request.
const RecoveryWindow = 10 * time.Second

// halfOpenProbes caps how many requests may land on a just-recovered
// replica before the breaker decides closed or open again; 1 matches "no
// more than one request is used to confirm recovery".
const halfOpenProbes = 1

var (
	errUpstream503      = errors.New("upstream replica returned 503")
	errTransportFailure = errors.New("upstream replica transport failure")
)

// Gate is the health gate / circuit breaker. One gobreaker instance per
// replica trips open on the first observed failure (a single 503 or
// transport error is enough, matching "crashed on upstream 503 or
// connection failure"), stays open for RecoveryWindow, then allows exactly
// one request through to decide whether to close again.
//
// Eligible() is a coarse pre-filter read against breaker state; it does not
// itself reserve the single half-open probe slot, so under concurrent
// traffic landing exactly as the window elapses more than one request may
// be admitted to a recovering replica. The spec's recovery-handshake open
// question permits this: it only requires the 10s exclusion be honoured and
// that no *more* than one request be used to decide the outcome, which the
// gobreaker MaxRequests=1 setting still enforces for the actual trip
// decision.
type Gate struct {
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[struct{}]
	log      *slog.Logger
}

func NewGate(log *slog.Logger) *Gate {
	return &Gate{
		breakers: make(map[string]*gobreaker.CircuitBreaker[struct{}]),
		log:      log,
	}
}

func (g *Gate) breakerFor(replica *domain.Replica) *gobreaker.CircuitBreaker[struct{}] {
	g.mu.Lock()
	defer g.mu.Unlock()

	if cb, ok := g.breakers[replica.Name]; ok {
		return cb
	}
	g.breakers[replica.Name] = g.newBreaker(replica.Name)
	return g.breakers[replica.Name]
}

func (g *Gate) newBreaker(name string) *gobreaker.CircuitBreaker[struct{}] {
	return gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: halfOpenProbes,
		Timeout:     RecoveryWindow,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
		OnStateChange: func(_ string, from, to gobreaker.State) {
			if g.log != nil {
				g.log.Info("replica circuit breaker transitioned", "replica", name, "from", from.String(), "to", to.String())
			}
		},
	})
}

// Eligible reports whether replica should be offered to the policy engine:
// enabled, and not currently tripped open.
func (g *Gate) Eligible(replica *domain.Replica) bool {
	if !replica.IsEnabled() {
		return false
	}
	return g.breakerFor(replica).State() != gobreaker.StateOpen
}

// RecordUpstream503 trips the breaker and marks the replica crashed with a
// saturated CPU reading, matching the upstream self-crash signal.
func (g *Gate) RecordUpstream503(replica *domain.Replica) {
	cb := g.breakerFor(replica)
	_, _ = cb.Execute(func() (struct{}, error) { return struct{}{}, errUpstream503 })
	replica.MarkCrashed(time.Now(), 100)
}

// RecordTransportFailure trips the breaker and marks the replica crashed
// with a zero CPU reading, since no upstream body was ever observed.
func (g *Gate) RecordTransportFailure(replica *domain.Replica) {
	cb := g.breakerFor(replica)
	_, _ = cb.Execute(func() (struct{}, error) { return struct{}{}, errTransportFailure })
	replica.MarkCrashed(time.Now(), 0)
}

// RecordSuccess closes the breaker and promotes the replica back to
// healthy on a confirmed 2xx response.
func (g *Gate) RecordSuccess(replica *domain.Replica) {
	cb := g.breakerFor(replica)
	_, _ = cb.Execute(func() (struct{}, error) { return struct{}{}, nil })
	replica.MarkHealthy()
}

// Reset discards the breaker state for replica, giving it a clean slate.
// Called when a replica is manually disabled, so a later re-enable finds it
// eligible straight away.
func (g *Gate) Reset(replica *domain.Replica) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.breakers[replica.Name] = g.newBreaker(replica.Name)
}
