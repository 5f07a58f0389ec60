// Package app wires the balancer's components into a running HTTP server:
// pool, router state, policy factory, health gate, stats tracker, response
// cache, and the control-plane handlers, plus the background CPU decay tick.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/relaylb/relay/internal/adapter/balancer"
	"github.com/relaylb/relay/internal/adapter/cache"
	"github.com/relaylb/relay/internal/adapter/health"
	"github.com/relaylb/relay/internal/adapter/router"
	"github.com/relaylb/relay/internal/adapter/stats"
	"github.com/relaylb/relay/internal/app/handlers"
	"github.com/relaylb/relay/internal/app/middleware"
	"github.com/relaylb/relay/internal/config"
	"github.com/relaylb/relay/internal/core/domain"
	"github.com/relaylb/relay/internal/logger"
	router2 "github.com/relaylb/relay/internal/router"
)

// DecayTickInterval is the background cool-down cadence the stats tracker
// runs on, matching the 1Hz cadence documented on domain.Replica.DecayCPU.
const DecayTickInterval = time.Second

// Application owns the balancer's HTTP server and the background decay
// tick goroutine.
type Application struct {
	config   *config.Config
	server   *http.Server
	logger   *slog.Logger
	registry *router2.RouteRegistry
	state    *domain.RouterState
	tracker  *stats.Tracker
	errCh    chan error
	stopTick chan struct{}
}

// New builds the full dependency graph from cfg: replica pool, router
// state, policy factory, health gate, stats tracker, response cache, the
// request router, and the control-plane handlers.
func New(cfg *config.Config, styled *logger.StyledLogger) (*Application, error) {
	log := styled.GetUnderlying()

	pool, err := buildPool(cfg.Pool.Replicas)
	if err != nil {
		return nil, fmt.Errorf("building replica pool: %w", err)
	}

	policy, err := domain.ParsePolicyKind(cfg.Pool.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("parsing configured algorithm: %w", err)
	}

	state := domain.NewRouterState(policy, cfg.Pool.CacheProbability)
	gate := health.NewGate(log)
	tracker := stats.NewTracker(pool, state)
	slot := cache.NewSingleSlot()
	factory := balancer.NewFactory()

	requestRouter := router.New(pool, state, gate, tracker, tracker, slot, factory, log)

	registry := router2.NewRouteRegistry(styled)
	statsHandler := handlers.NewStatsHandler(tracker)
	configHandler := handlers.NewConfigHandler(state, log)
	toggleHandler := handlers.NewToggleHandler(pool, gate, log)

	registry.RegisterWithMethod("/", requestRouter.ServeHTTP, "Forward to a selected backend replica", http.MethodGet)
	registry.RegisterWithMethod("/stats", statsHandler.ServeHTTP, "Aggregate balancer and replica statistics", http.MethodGet)
	registry.RegisterWithMethod("/config", configHandler.ServeHTTP, "Update the active algorithm and/or cache probability", http.MethodPost)
	registry.RegisterWithMethod("/toggle_server", toggleHandler.ServeHTTP, "Manually enable or disable a replica", http.MethodPost)
	registry.RegisterWithMethod("/internal/health", handlers.HealthHandler, "Balancer process liveness", http.MethodGet)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Application{
		config:   cfg,
		server:   server,
		logger:   log,
		registry: registry,
		state:    state,
		tracker:  tracker,
		errCh:    make(chan error, 1),
		stopTick: make(chan struct{}),
	}, nil
}

// ApplyRuntimeConfig pushes a hot-reloaded algorithm and cache probability
// onto the live router state, the same effect POST /config has.
func (a *Application) ApplyRuntimeConfig(cfg *config.Config) {
	if kind, err := domain.ParsePolicyKind(cfg.Pool.Algorithm); err == nil {
		a.state.SetPolicy(kind)
	} else {
		a.logger.Warn("ignoring invalid algorithm in reloaded config", "algorithm", cfg.Pool.Algorithm, "error", err)
	}
	a.state.SetCacheProbability(cfg.Pool.CacheProbability)
	a.logger.Info("runtime config reloaded", "algorithm", a.state.Policy().String(), "cache_probability", a.state.CacheProbability())
}

func buildPool(replicas []config.ReplicaConfig) (*domain.Pool, error) {
	built := make([]*domain.Replica, 0, len(replicas))
	for _, rc := range replicas {
		u, err := url.Parse(rc.URL)
		if err != nil {
			return nil, fmt.Errorf("replica %s: invalid url %q: %w", rc.Name, rc.URL, err)
		}
		built = append(built, domain.NewReplica(rc.Name, u, rc.Weight, rc.CostPerHour))
	}
	return domain.NewPool(built), nil
}

// Start wires the route table onto the HTTP server, begins listening, and
// starts the background CPU decay tick.
func (a *Application) Start(ctx context.Context) error {
	go func() {
		select {
		case err := <-a.errCh:
			a.logger.Error("server startup error", "error", err)
		case <-ctx.Done():
			return
		}
	}()

	a.startWebServer()
	go a.runDecayTick()

	a.logger.Info("relay started", "bind", a.server.Addr)
	return nil
}

// Stop stops the decay tick and shuts the HTTP server down within the
// configured grace period.
func (a *Application) Stop(ctx context.Context) error {
	close(a.stopTick)

	shutdownCtx, cancel := context.WithTimeout(ctx, a.config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown error: %w", err)
	}
	return nil
}

func (a *Application) startWebServer() {
	a.logger.Info("starting web server", "host", a.config.Server.Host, "port", a.config.Server.Port)

	mux := http.NewServeMux()
	a.registry.WireUp(mux)

	handler := middleware.AccessLogging(a.logger)(mux)
	a.server.Handler = handler

	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server error", "error", err)
			a.errCh <- err
		}
	}()
}

func (a *Application) runDecayTick() {
	ticker := time.NewTicker(DecayTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.tracker.DecayTick()
		case <-a.stopTick:
			return
		}
	}
}
