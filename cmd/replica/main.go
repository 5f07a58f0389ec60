// Command replica runs a single simulated backend instance: the CPU/latency
// model and crash pathology that the balancer forwards requests to.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/relaylb/relay/internal/adapter/simulator"
	"github.com/relaylb/relay/internal/env"
	"github.com/relaylb/relay/internal/logger"
)

func main() {
	lcfg := &logger.Config{
		Level:      env.GetEnvOrDefault("RELAY_LOG_LEVEL", "info"),
		FileOutput: env.GetEnvBoolOrDefault("RELAY_FILE_OUTPUT", false),
		LogDir:     env.GetEnvOrDefault("RELAY_LOG_DIR", "./logs"),
		MaxSize:    env.GetEnvIntOrDefault("RELAY_MAX_SIZE", 100),
		MaxBackups: env.GetEnvIntOrDefault("RELAY_MAX_BACKUPS", 5),
		MaxAge:     env.GetEnvIntOrDefault("RELAY_MAX_AGE", 30),
		Theme:      env.GetEnvOrDefault("RELAY_THEME", "default"),
	}

	log, cleanup, err := logger.New(lcfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Println("relay-replica")
		return
	}

	name := env.GetEnvOrDefault("RELAY_REPLICA_NAME", "replica-1")
	port := env.GetEnvIntOrDefault("RELAY_REPLICA_PORT", 8001)

	phase, err := simulator.ParsePhase(phaseArg())
	if err != nil {
		log.Error("invalid simulator phase, falling back to phase2", "error", err)
		phase = simulator.Phase2
	}

	sim := simulator.New(simulator.ConfigForPhase(phase, name))

	mux := http.NewServeMux()
	mux.HandleFunc("/", sim.ServeHTTP)
	mux.HandleFunc("/internal/health", sim.Health)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	go func() {
		log.Info("replica listening", "name", name, "addr", server.Addr, "phase", phase.String())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("replica server error", "error", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("replica shutdown error", "error", err)
	}

	log.Info("replica stopped", "name", name)
}

// phaseArg resolves the simulator phase from a "-phase=N" or "-phase N"
// command-line argument, falling back to RELAY_PHASE, then the simulator's
// own Phase2 default.
func phaseArg() string {
	for i, arg := range os.Args[1:] {
		if value, ok := strings.CutPrefix(arg, "-phase="); ok {
			return value
		}
		if arg == "-phase" && i+2 < len(os.Args) {
			return os.Args[i+2]
		}
	}
	return env.GetEnvOrDefault("RELAY_PHASE", "")
}
