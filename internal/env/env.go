// Package env reads process environment variables with typed fallbacks,
// for the handful of bootstrap settings needed before the YAML config is
// loaded (log level, log directory, theme).
package env

import (
	"os"
	"strconv"
)

// GetEnvOrDefault returns the named environment variable, or def if unset.
func GetEnvOrDefault(name, def string) string {
	if v, ok := os.LookupEnv(name); ok {
		return v
	}
	return def
}

// GetEnvBoolOrDefault returns the named environment variable parsed as a
// bool, or def if unset or unparsable.
func GetEnvBoolOrDefault(name string, def bool) bool {
	v, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return parsed
}

// GetEnvIntOrDefault returns the named environment variable parsed as an
// int, or def if unset or unparsable.
func GetEnvIntOrDefault(name string, def int) int {
	v, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return parsed
}
