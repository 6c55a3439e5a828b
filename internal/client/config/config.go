package config

import "time"

// Config holds runtime settings for shiftlyctl.
//
// Fields:
//   - ServerEndpointAddr: host:port of the ops gRPC endpoint.
//   - AccessToken: bearer token sent as access_token metadata.
//   - RequestTimeout: deadline applied to every call.
type Config struct {
	ServerEndpointAddr string
	AccessToken        string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.AccessToken = ""
	c.RequestTimeout = 30 * time.Second
}

// LoadConfig constructs a Config from defaults, then the JSON file at path
// (skipped when empty), then the environment. Flags are applied by the
// command layer on top.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, path); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	return cfg, nil
}
