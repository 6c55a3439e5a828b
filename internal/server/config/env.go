package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/flagx"
)

const envPrefix = "SHIFTLY_"

// parseEnv overlays SHIFTLY_* environment variables. A .env file (or the one
// named by -env) is loaded first; variables already set in the process
// environment win over the file. Malformed numeric/bool values panic.
func parseEnv(config *Config) {
	if file := flagx.EnvFileFlags(); file != "" {
		if err := godotenv.Load(file); err != nil {
			panic(err)
		}
	} else {
		// missing .env is normal outside development
		_ = godotenv.Load()
	}

	envString(&config.EndpointAddrGRPC, "GRPC_ADDR")
	envString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	envString(&config.DatabaseDSN, "DATABASE_DSN")
	envString(&config.SecretKey, "SECRET_KEY")
	envString(&config.EncryptionSecret, "ENCRYPTION_SECRET")
	envDuration(&config.AccessTokenValidityDuration, "ACCESS_TOKEN_TTL")
	envString(&config.S3RootUser, "S3_ROOT_USER")
	envString(&config.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&config.S3Bucket, "S3_BUCKET")
	envString(&config.S3Region, "S3_REGION")
	envString(&config.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envBool(&config.ArchiveSnapshots, "ARCHIVE_SNAPSHOTS")
	envDuration(&config.WorkerPollInterval, "WORKER_POLL_INTERVAL")
	envDuration(&config.AnalyticsInterval, "ANALYTICS_INTERVAL")
	envBool(&config.PlatformsOffline, "PLATFORMS_OFFLINE")
	envString(&config.FacebookAPIBaseURL, "FACEBOOK_API_BASE_URL")
	envString(&config.CazooBaseURL, "CAZOO_BASE_URL")
	envString(&config.AutotraderBaseURL, "AUTOTRADER_BASE_URL")
	envString(&config.Timezone, "TIMEZONE")
	envString(&config.LogLevel, "LOG_LEVEL")
	envString(&config.LogFormat, "LOG_FORMAT")
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(envPrefix + key); ok && v != "" {
		*dst = v
	}
}

func envDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}

func envBool(dst *bool, key string) {
	v, ok := os.LookupEnv(envPrefix + key)
	if !ok || v == "" {
		return
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		panic(err)
	}
	*dst = b
}
