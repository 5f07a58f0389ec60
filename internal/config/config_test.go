package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Host != DefaultHost {
		t.Errorf("Expected host %s, got %s", DefaultHost, cfg.Server.Host)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Expected port %d, got %d", DefaultPort, cfg.Server.Port)
	}
	if cfg.Pool.Algorithm != "round_robin" {
		t.Errorf("Expected algorithm 'round_robin', got %s", cfg.Pool.Algorithm)
	}
	if cfg.Pool.CacheProbability != 0 {
		t.Errorf("Expected cache probability 0, got %v", cfg.Pool.CacheProbability)
	}
	if cfg.Pool.RecoveryWindow != DefaultRecoveryWindow {
		t.Errorf("Expected recovery window %v, got %v", DefaultRecoveryWindow, cfg.Pool.RecoveryWindow)
	}
	if cfg.Pool.UpstreamTimeout != DefaultUpstreamTimeout {
		t.Errorf("Expected upstream timeout %v, got %v", DefaultUpstreamTimeout, cfg.Pool.UpstreamTimeout)
	}
	if len(cfg.Pool.Replicas) != 3 {
		t.Fatalf("Expected 3 default replicas, got %d", len(cfg.Pool.Replicas))
	}
	if cfg.Pool.Replicas[0].Name != "replica-1" {
		t.Errorf("Expected first replica named 'replica-1', got %s", cfg.Pool.Replicas[0].Name)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Expected log level 'info', got %s", cfg.Logging.Level)
	}
	if !cfg.Logging.PrettyLogs {
		t.Error("Expected PrettyLogs to be true by default")
	}
	if cfg.Logging.FileOutput {
		t.Error("Expected FileOutput to be false by default")
	}
}

func TestLoad_WithoutFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	defer os.Chdir(wd)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Expected default port %d, got %d", DefaultPort, cfg.Server.Port)
	}
	if cfg.Pool.Algorithm != "round_robin" {
		t.Errorf("Expected default algorithm 'round_robin', got %s", cfg.Pool.Algorithm)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	defer os.Chdir(wd)

	contents := `
server:
  host: "127.0.0.1"
  port: 9100
pool:
  algorithm: "p2c"
  cache_probability: 0.25
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Expected host 127.0.0.1 from file, got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 9100 {
		t.Errorf("Expected port 9100 from file, got %d", cfg.Server.Port)
	}
	if cfg.Pool.Algorithm != "p2c" {
		t.Errorf("Expected algorithm p2c from file, got %s", cfg.Pool.Algorithm)
	}
	if cfg.Pool.CacheProbability != 0.25 {
		t.Errorf("Expected cache probability 0.25 from file, got %v", cfg.Pool.CacheProbability)
	}

	// Replicas are untouched in the file, so the default set survives the merge.
	if len(cfg.Pool.Replicas) != 3 {
		t.Errorf("Expected default replicas to survive unmarshal, got %d", len(cfg.Pool.Replicas))
	}
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	defer os.Chdir(wd)

	testEnvVars := map[string]string{
		"RELAY_SERVER_PORT":   "8181",
		"RELAY_SERVER_HOST":   "0.0.0.0",
		"RELAY_LOGGING_LEVEL": "debug",
	}
	for key, value := range testEnvVars {
		os.Setenv(key, value)
	}
	defer func() {
		for key := range testEnvVars {
			os.Unsetenv(key)
		}
	}()

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load with env vars failed: %v", err)
	}

	if cfg.Server.Port != 8181 {
		t.Errorf("Expected port 8181 from env var, got %d", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected log level debug from env var, got %s", cfg.Logging.Level)
	}
}

func TestLoad_OnConfigChangeDebounce(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	defer os.Chdir(wd)

	called := 0
	_, err = Load(func() { called++ })
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// OnConfigChange is only wired, not fired, by Load itself; the debounce
	// guard must not trip the callback just by registering.
	if called != 0 {
		t.Errorf("Expected onConfigChange not to fire on Load, got %d calls", called)
	}
}

func TestDefaultConfig_ReplicaFieldsPopulated(t *testing.T) {
	cfg := DefaultConfig()

	for i, replica := range cfg.Pool.Replicas {
		if replica.Name == "" {
			t.Errorf("Replica %d has empty name", i)
		}
		if replica.URL == "" {
			t.Errorf("Replica %d has empty URL", i)
		}
		if replica.Weight <= 0 {
			t.Errorf("Replica %d has non-positive weight %v", i, replica.Weight)
		}
		if replica.CostPerHour < 0 {
			t.Errorf("Replica %d has negative cost %v", i, replica.CostPerHour)
		}
	}
}

func TestDefaultConfig_DurationFieldsAreSet(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.ReadTimeout != 30*time.Second {
		t.Errorf("Expected ReadTimeout 30s, got %v", cfg.Server.ReadTimeout)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Expected ShutdownTimeout 10s, got %v", cfg.Server.ShutdownTimeout)
	}
}
