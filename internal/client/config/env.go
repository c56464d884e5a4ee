package config

import (
	"fmt"
	"strconv"
	"time"
)

// EnvPrefix starts every environment variable read by parseEnv.
const EnvPrefix = "QACURATOR_"

// parseEnv overlays Config with QACURATOR_* variables found by lookup.
// Durations accept Go duration strings or whole seconds. Malformed numbers
// panic, like malformed flags.
func parseEnv(cfg *Config, lookup func(string) (string, bool)) {
	get := func(name string) string {
		v, _ := lookup(EnvPrefix + name)
		return v
	}

	setString(&cfg.ServerURL, get("SERVER_URL"))
	setDuration(&cfg.RequestTimeout, envDuration("REQUEST_TIMEOUT", get("REQUEST_TIMEOUT")))
	if v := get("RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			panic(fmt.Errorf("%sRPS: %w", EnvPrefix, err))
		}
		cfg.RequestsPerSecond = rps
	}
	setString(&cfg.StoragePath, get("STORAGE_PATH"))
	setString(&cfg.StorageSecret, get("STORAGE_SECRET"))
	setDuration(&cfg.OnlineCheckInterval, envDuration("ONLINE_CHECK_INTERVAL", get("ONLINE_CHECK_INTERVAL")))
	setDuration(&cfg.PollInterval, envDuration("POLL_INTERVAL", get("POLL_INTERVAL")))
	setDuration(&cfg.NotificationTTL, envDuration("NOTIFICATION_TTL", get("NOTIFICATION_TTL")))
	setString(&cfg.LogBackend, get("LOG_BACKEND"))
	setString(&cfg.LogLevel, get("LOG_LEVEL"))
	setString(&cfg.LogFormat, get("LOG_FORMAT"))
	setString(&cfg.ExportDir, get("EXPORT_DIR"))
	setString(&cfg.S3Endpoint, get("S3_ENDPOINT"))
	setString(&cfg.S3Region, get("S3_REGION"))
	setString(&cfg.S3Bucket, get("S3_BUCKET"))
	setString(&cfg.S3AccessKey, get("S3_ACCESS_KEY"))
	setString(&cfg.S3SecretKey, get("S3_SECRET_KEY"))
}

func envDuration(name, v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
	}
	return d
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}
