package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/flagx"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Interval fields
// use timex.Duration so both "1s" and integer nanoseconds are accepted.
// Pointers distinguish "absent" from "false" for booleans.
type JsonConfig struct {
	EndpointAddrGRPC            string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	EncryptionSecret            string         `json:"encryption_secret"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	ArchiveSnapshots            *bool          `json:"archive_snapshots"`
	WorkerPollInterval          timex.Duration `json:"worker_poll_interval"`
	AnalyticsInterval           timex.Duration `json:"analytics_interval"`
	PlatformsOffline            *bool          `json:"platforms_offline"`
	FacebookAPIBaseURL          string         `json:"facebook_api_base_url"`
	CazooBaseURL                string         `json:"cazoo_base_url"`
	AutotraderBaseURL           string         `json:"autotrader_base_url"`
	Timezone                    string         `json:"timezone"`
	LogLevel                    string         `json:"log_level"`
	LogFormat                   string         `json:"log_format"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flag. Only fields present in the file override the target.
// Unreadable files and invalid JSON panic: a broken config is a startup bug.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.EncryptionSecret, c.EncryptionSecret)
	setDuration(&config.AccessTokenValidityDuration, c.AccessTokenValidityDuration)
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if c.ArchiveSnapshots != nil {
		config.ArchiveSnapshots = *c.ArchiveSnapshots
	}
	setDuration(&config.WorkerPollInterval, c.WorkerPollInterval)
	setDuration(&config.AnalyticsInterval, c.AnalyticsInterval)
	if c.PlatformsOffline != nil {
		config.PlatformsOffline = *c.PlatformsOffline
	}
	setString(&config.FacebookAPIBaseURL, c.FacebookAPIBaseURL)
	setString(&config.CazooBaseURL, c.CazooBaseURL)
	setString(&config.AutotraderBaseURL, c.AutotraderBaseURL)
	setString(&config.Timezone, c.Timezone)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v timex.Duration) {
	if v.Duration != 0 {
		*dst = v.Duration
	}
}
