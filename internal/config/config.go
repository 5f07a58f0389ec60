package config

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	DefaultPort = 8000
	DefaultHost = "0.0.0.0"

	DefaultRecoveryWindow  = 10 * time.Second
	DefaultUpstreamTimeout = 30 * time.Second

	// DefaultFileWriteDelay is how long the change handler waits before
	// reloading, since the fsnotify event can fire before the write
	// completes. Repeat events within 500ms are dropped separately.
	DefaultFileWriteDelay = 150 * time.Millisecond
)

var (
	lastReload  time.Time
	reloadMutex sync.Mutex
)

// DefaultConfig returns a configuration with sensible defaults: three
// local replicas, round robin, no caching.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Pool: PoolConfig{
			Algorithm:        "round_robin",
			CacheProbability: 0,
			RecoveryWindow:   DefaultRecoveryWindow,
			UpstreamTimeout:  DefaultUpstreamTimeout,
			Replicas: []ReplicaConfig{
				{Name: "replica-1", URL: "http://localhost:8001", Weight: 1, CostPerHour: 0.10},
				{Name: "replica-2", URL: "http://localhost:8002", Weight: 1, CostPerHour: 0.10},
				{Name: "replica-3", URL: "http://localhost:8003", Weight: 1, CostPerHour: 0.10},
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Theme:      "default",
			FileOutput: false,
			LogDir:     "./logs",
			PrettyLogs: true,
		},
	}
}

// Load loads configuration from file and environment variables, and
// watches the file for hot-reload when onConfigChange is non-nil.
func Load(onConfigChange func()) (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetEnvPrefix("RELAY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if configFile := os.Getenv("RELAY_CONFIG_FILE"); configFile != "" {
			viper.SetConfigFile(configFile)
			if err := viper.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
			}
		}
	}

	// The config structs carry yaml tags; decode by them so snake_case keys
	// such as cache_probability reach their fields.
	if err := viper.Unmarshal(cfg, func(dc *mapstructure.DecoderConfig) { dc.TagName = "yaml" }); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	viper.WatchConfig()

	if onConfigChange != nil {
		viper.OnConfigChange(func(e fsnotify.Event) {
			reloadMutex.Lock()
			defer reloadMutex.Unlock()

			now := time.Now()
			if now.Sub(lastReload) < 500*time.Millisecond {
				return
			}
			lastReload = now

			// on some platforms this event fires before the file write
			// completes.
			time.Sleep(DefaultFileWriteDelay)
			onConfigChange()
		})
	}
	return cfg, nil
}
