package config

import "time"

// Config holds all configuration for the balancer process.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Pool    PoolConfig    `yaml:"pool"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds HTTP server configuration for the control-plane +
// proxy listener.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// PoolConfig holds the replica pool and balancer tuning knobs.
// CacheProbability is a fraction in [0,1], matching the internal
// representation; the wire protocol in the control-plane handlers converts
// to/from the 0-100 percentage clients send.
type PoolConfig struct {
	Algorithm        string          `yaml:"algorithm"`
	CacheProbability float64         `yaml:"cache_probability"`
	RecoveryWindow   time.Duration   `yaml:"recovery_window"`
	UpstreamTimeout  time.Duration   `yaml:"upstream_timeout"`
	Replicas         []ReplicaConfig `yaml:"replicas"`
}

// ReplicaConfig describes one statically-configured backend replica.
type ReplicaConfig struct {
	Name        string  `yaml:"name"`
	URL         string  `yaml:"url"`
	Weight      float64 `yaml:"weight"`
	CostPerHour float64 `yaml:"cost_per_hour"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Theme      string `yaml:"theme"`
	FileOutput bool   `yaml:"file_output"`
	LogDir     string `yaml:"log_dir"`
	PrettyLogs bool   `yaml:"pretty_logs"`
}
