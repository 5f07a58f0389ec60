package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/relaylb/relay/internal/app"
	"github.com/relaylb/relay/internal/config"
	"github.com/relaylb/relay/internal/env"
	"github.com/relaylb/relay/internal/logger"
	"github.com/relaylb/relay/internal/version"
	"github.com/relaylb/relay/pkg/container"
	"github.com/relaylb/relay/pkg/format"
	"github.com/relaylb/relay/pkg/nerdstats"
	"github.com/relaylb/relay/pkg/profiler"
)

func main() {
	startTime := time.Now()
	vlog := log.New(log.Writer(), "", 0)
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.PrintVersionInfo(true, vlog)
		os.Exit(0)
	} else {
		version.PrintVersionInfo(false, vlog)
	}

	lcfg := buildLoggerConfig()
	logInstance, styledLogger, cleanup, err := logger.NewWithTheme(lcfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer cleanup()

	slog.SetDefault(logInstance)

	if env.GetEnvBoolOrDefault("RELAY_PPROF", false) {
		profiler.InitialiseProfiler()
	}

	styledLogger.Info("initialising", "version", version.Version, "pid", os.Getpid(), "containerised", container.IsContainerised())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		styledLogger.Info("shutdown signal received", "signal", sig.String())
		cancel()
	}()

	var application *app.Application
	cfg, err := config.Load(func() {
		if application == nil {
			return
		}
		reloaded, loadErr := config.Load(nil)
		if loadErr != nil {
			styledLogger.Warn("failed to reload config", "error", loadErr)
			return
		}
		application.ApplyRuntimeConfig(reloaded)
	})
	if err != nil {
		logger.FatalWithLogger(logInstance, "failed to load configuration", "error", err)
	}

	application, err = app.New(cfg, styledLogger)
	if err != nil {
		logger.FatalWithLogger(logInstance, "failed to create application", "error", err)
	}

	if err := application.Start(ctx); err != nil {
		logger.FatalWithLogger(logInstance, "failed to start application", "error", err)
	}

	<-ctx.Done()

	if err := application.Stop(context.Background()); err != nil {
		styledLogger.Error("error during shutdown", "error", err)
	}

	reportProcessStats(styledLogger, startTime)

	styledLogger.Info("relay has shutdown")
}

func reportProcessStats(logger *logger.StyledLogger, startTime time.Time) {
	runtime.GC()

	stats := nerdstats.Snapshot(startTime)

	logger.Info("process memory stats",
		"heap_alloc", format.Bytes(stats.HeapAlloc),
		"heap_sys", format.Bytes(stats.HeapSys),
		"heap_inuse", format.Bytes(stats.HeapInuse),
		"heap_released", format.Bytes(stats.HeapReleased),
		"stack_inuse", format.Bytes(stats.StackInuse),
		"total_alloc", format.Bytes(stats.TotalAlloc),
		"memory_pressure", stats.GetMemoryPressure(),
	)

	logger.Info("process allocation stats",
		"total_mallocs", stats.Mallocs,
		"total_frees", stats.Frees,
		"net_objects", int64(stats.Mallocs)-int64(stats.Frees),
	)

	if stats.NumGC > 0 {
		logger.Info("garbage collection stats",
			"num_gc_cycles", stats.NumGC,
			"last_gc", stats.LastGC.Format(time.RFC3339),
			"total_gc_time", format.Duration(stats.TotalGCTime),
			"gc_cpu_fraction", fmt.Sprintf("%.4f%%", stats.GCCPUFraction*100),
		)
	}

	logger.Info("goroutine stats",
		"num_goroutines", stats.NumGoroutines,
		"goroutine_health", stats.GetGoroutineHealthStatus(),
		"num_cgo_calls", stats.NumCgoCall,
	)

	logger.Info("runtime stats",
		"uptime", format.Duration(stats.Uptime),
		"go_version", stats.GoVersion,
		"num_cpu", stats.NumCPU,
		"gomaxprocs", stats.GOMAXPROCS,
	)
}

// buildLoggerConfig creates logger config from environment variables with defaults.
func buildLoggerConfig() *logger.Config {
	return &logger.Config{
		Level:      env.GetEnvOrDefault("RELAY_LOG_LEVEL", "info"),
		FileOutput: env.GetEnvBoolOrDefault("RELAY_FILE_OUTPUT", true),
		LogDir:     env.GetEnvOrDefault("RELAY_LOG_DIR", "./logs"),
		MaxSize:    env.GetEnvIntOrDefault("RELAY_MAX_SIZE", 100),
		MaxBackups: env.GetEnvIntOrDefault("RELAY_MAX_BACKUPS", 5),
		MaxAge:     env.GetEnvIntOrDefault("RELAY_MAX_AGE", 30),
		Theme:      env.GetEnvOrDefault("RELAY_THEME", "default"),
	}
}
