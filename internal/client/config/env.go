package config

import (
	"os"
	"time"
)

const (
	envAddr    = "SHIFTLY_ADDR"
	envToken   = "SHIFTLY_TOKEN"
	envTimeout = "SHIFTLY_TIMEOUT"
)

// parseEnv overlays cfg with SHIFTLY_ADDR, SHIFTLY_TOKEN and SHIFTLY_TIMEOUT.
// An unparsable timeout is ignored.
func parseEnv(cfg *Config) {
	if v := os.Getenv(envAddr); v != "" {
		cfg.ServerEndpointAddr = v
	}
	if v := os.Getenv(envToken); v != "" {
		cfg.AccessToken = v
	}
	if v := os.Getenv(envTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
}
