package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/qacurator/internal/flagx"
	"github.com/dmitrijs2005/qacurator/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. Fields left out of the file
// keep their previous values.
type JsonConfig struct {
	ServerURL           string         `json:"server_url"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	RequestsPerSecond   float64        `json:"requests_per_second"`
	StoragePath         string         `json:"storage_path"`
	StorageSecret       string         `json:"storage_secret"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	PollInterval        timex.Duration `json:"poll_interval"`
	NotificationTTL     timex.Duration `json:"notification_ttl"`
	LogBackend          string         `json:"log_backend"`
	LogLevel            string         `json:"log_level"`
	LogFormat           string         `json:"log_format"`
	ExportDir           string         `json:"export_dir"`
	S3Endpoint          string         `json:"s3_endpoint"`
	S3Region            string         `json:"s3_region"`
	S3Bucket            string         `json:"s3_bucket"`
	S3AccessKey         string         `json:"s3_access_key"`
	S3SecretKey         string         `json:"s3_secret_key"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// The path comes from -c or -config, else from QACURATOR_CONFIG. With no
// path nothing is loaded. Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout.Duration)
	if jc.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = jc.RequestsPerSecond
	}
	setString(&cfg.StoragePath, jc.StoragePath)
	setString(&cfg.StorageSecret, jc.StorageSecret)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval.Duration)
	setDuration(&cfg.PollInterval, jc.PollInterval.Duration)
	setDuration(&cfg.NotificationTTL, jc.NotificationTTL.Duration)
	setString(&cfg.LogBackend, jc.LogBackend)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.ExportDir, jc.ExportDir)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
}
