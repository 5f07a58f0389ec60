// Package simulator implements the backend simulator: a CPU/latency model
// with injected pathologies and a self-induced crash on sustained overload.
// It is the realistic target the balancer forwards to, and a self-contained
// testbed for evaluating policies. Each Simulator seeds its own random
// source from the global math/rand source in New; the seed is not
// configurable, so runs are not reproducible.
package simulator

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Config holds the per-replica curve parameters and pathology knobs.
type Config struct {
	Name string

	BaseDelay time.Duration
	A         float64
	K         float64

	IdleNoiseLo, IdleNoiseHi float64
	NoiseLo, NoiseHi         float64
	JitterLo, JitterHi       float64
	DelayCPUDivisor          float64

	PSpike      float64
	PFreeze     float64
	PJitter     float64
	SpikeDelay  time.Duration
	FreezeDelay time.Duration

	OverloadCPU    float64
	OverloadStreak int
	CrashDuration  time.Duration
}

// Phase selects which backend curve a simulated replica runs: Phase1 is the
// original single-tenant "realistic mode" model with no failure injection,
// Phase2 adds the homogeneous-hardware curve plus the spike/freeze/jitter
// instability profile.
type Phase int

const (
	Phase1 Phase = iota
	Phase2
)

func (p Phase) String() string {
	if p == Phase1 {
		return "phase1"
	}
	return "phase2"
}

// ParsePhase parses "1"/"phase1" as Phase1 and "2"/"phase2" (or "") as
// Phase2, the -phase flag and RELAY_PHASE env var's accepted spellings.
func ParsePhase(s string) (Phase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "2", "phase2":
		return Phase2, nil
	case "1", "phase1":
		return Phase1, nil
	default:
		return Phase2, fmt.Errorf("unknown simulator phase %q", s)
	}
}

// ConfigForPhase returns the default curve for the given phase.
func ConfigForPhase(phase Phase, name string) Config {
	if phase == Phase1 {
		return Phase1Config(name)
	}
	return Phase2Config(name)
}

// Phase1Config is the original realistic-mode curve: idle_cpu in U[2,5],
// noise in U[-3,3], delay's CPU factor divides by 80, overload threshold
// 95%, streak 3, crash window 10s, and no failure-injection pathologies.
func Phase1Config(name string) Config {
	return Config{
		Name:            name,
		BaseDelay:       100 * time.Millisecond,
		A:               70,
		K:               0.15,
		IdleNoiseLo:     2,
		IdleNoiseHi:     5,
		NoiseLo:         -3,
		NoiseHi:         3,
		JitterLo:        -0.05,
		JitterHi:        0.05,
		DelayCPUDivisor: 80,
		OverloadCPU:     95,
		OverloadStreak:  3,
		CrashDuration:   10 * time.Second,
	}
}

// Phase2Config is the homogeneous-hardware curve with the spike/
// micro-freeze/jitter instability profile layered on top: idle_noise in
// U[3,6], noise in U[-2,2], overload threshold 97%, streak 4, crash window
// 8s.
func Phase2Config(name string) Config {
	return Config{
		Name:            name,
		BaseDelay:       100 * time.Millisecond,
		A:               70,
		K:               0.35,
		IdleNoiseLo:     3,
		IdleNoiseHi:     6,
		NoiseLo:         -2,
		NoiseHi:         2,
		JitterLo:        -0.03,
		JitterHi:        0.03,
		DelayCPUDivisor: 85,
		PSpike:          0.03,
		PFreeze:         0.02,
		PJitter:         0.1,
		SpikeDelay:      2500 * time.Millisecond,
		FreezeDelay:     1500 * time.Millisecond,
		OverloadCPU:     97,
		OverloadStreak:  4,
		CrashDuration:   8 * time.Second,
	}
}

// DefaultConfig is Phase2Config, the richer of the two curves and the
// balancer's default simulated target.
func DefaultConfig(name string) Config {
	return Phase2Config(name)
}

// Response is the JSON body returned on both success and crash paths.
type Response struct {
	Server   string  `json:"server"`
	Status   string  `json:"status"`
	Delay    float64 `json:"delay,omitempty"`
	CPUUsage float64 `json:"cpu_usage,omitempty"`
	Note     string  `json:"note,omitempty"`
}

// Simulator is one simulated backend replica.
type Simulator struct {
	cfg Config

	mu             sync.Mutex
	activeRequests int
	crashed        bool
	crashStart     time.Time
	overloadCount  int

	rndMu sync.Mutex
	rnd   *rand.Rand
}

func New(cfg Config) *Simulator {
	return &Simulator{
		cfg: cfg,
		rnd: rand.New(rand.NewSource(rand.Int63())),
	}
}

func (s *Simulator) uniform(lo, hi float64) float64 {
	s.rndMu.Lock()
	defer s.rndMu.Unlock()
	return lo + s.rnd.Float64()*(hi-lo)
}

// ServeHTTP implements the per-request algorithm from the simulator
// component: crash gate, CPU model, delay model, pathology dispatch,
// sleep, overload-streak evaluation.
func (s *Simulator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.rejectIfCrashed(w) {
		return
	}

	s.mu.Lock()
	s.activeRequests++
	active := s.activeRequests
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.activeRequests--
		s.mu.Unlock()
	}()

	cpu := s.computeCPU(active)
	delay := s.computeDelay(cpu)
	delay, note := s.applyPathology(delay)

	time.Sleep(delay)

	if cpu > s.cfg.OverloadCPU {
		crashedNow := s.recordOverload()
		if crashedNow {
			s.writeJSON(w, http.StatusServiceUnavailable, Response{
				Server: s.cfg.Name,
				Status: "crashed_now",
			})
			return
		}
	} else {
		s.resetOverload()
	}

	s.writeJSON(w, http.StatusOK, Response{
		Server:   s.cfg.Name,
		Status:   "handled",
		Delay:    delay.Seconds(),
		CPUUsage: cpu,
		Note:     note,
	})
}

func (s *Simulator) rejectIfCrashed(w http.ResponseWriter) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.crashed {
		return false
	}
	if time.Since(s.crashStart) < s.cfg.CrashDuration {
		s.writeJSONLocked(w, http.StatusServiceUnavailable, Response{
			Server: s.cfg.Name,
			Status: "crashed",
		})
		return true
	}
	s.crashed = false
	s.overloadCount = 0
	return false
}

func (s *Simulator) computeCPU(active int) float64 {
	idleNoise := s.uniform(s.cfg.IdleNoiseLo, s.cfg.IdleNoiseHi)
	noise := s.uniform(s.cfg.NoiseLo, s.cfg.NoiseHi)
	saturation := s.cfg.A * (1 - math.Exp(-s.cfg.K*float64(active)))
	cpu := idleNoise + saturation + noise
	if cpu < 0 {
		cpu = 0
	}
	if cpu > 100 {
		cpu = 100
	}
	return cpu
}

func (s *Simulator) computeDelay(cpu float64) time.Duration {
	jitter := s.uniform(s.cfg.JitterLo, s.cfg.JitterHi)
	seconds := s.cfg.BaseDelay.Seconds()*(1+cpu/s.cfg.DelayCPUDivisor) + jitter
	if seconds < 0.01 {
		seconds = 0.01
	}
	return time.Duration(seconds * float64(time.Second))
}

func (s *Simulator) applyPathology(delay time.Duration) (time.Duration, string) {
	roll := s.uniform(0, 1)
	switch {
	case roll < s.cfg.PSpike:
		return s.cfg.SpikeDelay, "spike"
	case roll < s.cfg.PSpike+s.cfg.PFreeze:
		return s.cfg.FreezeDelay, "micro_freeze"
	case roll < s.cfg.PSpike+s.cfg.PFreeze+s.cfg.PJitter:
		return delay + time.Duration(s.uniform(0.2, 0.5)*float64(time.Second)), "jitter"
	default:
		return delay, "normal"
	}
}

// recordOverload increments the overload streak and crashes the simulator
// once it reaches OverloadStreak, returning whether it just crashed.
func (s *Simulator) recordOverload() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overloadCount++
	if s.overloadCount >= s.cfg.OverloadStreak {
		s.crashed = true
		s.crashStart = time.Now()
		s.overloadCount = 0
		return true
	}
	return false
}

func (s *Simulator) resetOverload() {
	s.mu.Lock()
	s.overloadCount = 0
	s.mu.Unlock()
}

func (s *Simulator) writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Simulator) writeJSONLocked(w http.ResponseWriter, status int, body Response) {
	// caller already holds s.mu; writing to the ResponseWriter doesn't touch
	// simulator state so this is safe to call under the lock.
	s.writeJSON(w, status, body)
}

// Health is the supplemented liveness probe at /internal/health: a
// dependency-free readiness signal independent of the crash-simulation
// state, used by orchestrators that shouldn't treat a modelled crash as the
// process being down.
func (s *Simulator) Health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, Response{Server: s.cfg.Name, Status: "alive"})
}
