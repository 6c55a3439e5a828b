// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables and command-line flags.
package config

import "time"

// Config holds runtime settings for the Shiftly server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the ops gRPC endpoint.
//   - EndpointAddrHTTP: bind address for the health/queue HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects in-memory storage.
//   - SecretKey: HMAC secret for signing ops JWTs (HS256). Do not use test defaults in prod.
//   - EncryptionSecret: master secret the credential vault derives its key from.
//   - AccessTokenValidityDuration: ops token lifetime.
//   - S3*: object storage settings for feed snapshots.
//   - ArchiveSnapshots: store each sync's normalized feed in S3.
//   - WorkerPollInterval: how often each queue dispatcher claims due jobs.
//   - AnalyticsInterval: recurrence period of analytics jobs.
//   - PlatformsOffline: use deterministic offline posters instead of live APIs.
//   - FacebookAPIBaseURL: Graph API root for the Facebook poster.
//   - CazooBaseURL / AutotraderBaseURL: provider feed roots.
//   - Timezone: IANA zone used for "09:00" scheduling.
type Config struct {
	EndpointAddrGRPC            string
	EndpointAddrHTTP            string
	DatabaseDSN                 string
	SecretKey                   string
	EncryptionSecret            string
	AccessTokenValidityDuration time.Duration
	S3RootUser                  string
	S3RootPassword              string
	S3Bucket                    string
	S3Region                    string
	S3BaseEndpoint              string
	ArchiveSnapshots            bool
	WorkerPollInterval          time.Duration
	AnalyticsInterval           time.Duration
	PlatformsOffline            bool
	FacebookAPIBaseURL          string
	CazooBaseURL                string
	AutotraderBaseURL           string
	Timezone                    string
	LogLevel                    string
	LogFormat                   string
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.EndpointAddrHTTP = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.EncryptionSecret = "dev-encryption-secret"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.S3RootUser = "admin"
	c.S3RootPassword = "secretpassword"
	c.S3Bucket = "shiftly-snapshots"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.ArchiveSnapshots = false
	c.WorkerPollInterval = time.Second
	c.AnalyticsInterval = 24 * time.Hour
	c.PlatformsOffline = true
	c.FacebookAPIBaseURL = "https://graph.facebook.com/v18.0"
	c.CazooBaseURL = "https://api.cazoo.co.uk"
	c.AutotraderBaseURL = "https://api.autotrader.co.uk"
	c.Timezone = "UTC"
	c.LogLevel = "info"
	c.LogFormat = "json"
}

// Location resolves Timezone, falling back to UTC when it is unknown.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment, and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
