package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime settings for the qacurator CLI.
//
// Durations are time.Duration values; the flag forms of RequestTimeout,
// OnlineCheckInterval and PollInterval take whole seconds.
type Config struct {
	ServerURL         string
	RequestTimeout    time.Duration
	RequestsPerSecond float64

	StoragePath   string
	StorageSecret string

	OnlineCheckInterval time.Duration
	PollInterval        time.Duration
	NotificationTTL     time.Duration

	LogBackend string
	LogLevel   string
	LogFormat  string

	ExportDir   string
	S3Endpoint  string
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.RequestTimeout = 10 * time.Second
	c.RequestsPerSecond = 20
	c.StoragePath = "qacurator.db"
	c.StorageSecret = ""
	c.OnlineCheckInterval = 5 * time.Second
	c.PollInterval = 2 * time.Second
	c.NotificationTTL = 3 * time.Second
	c.LogBackend = "slog"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.ExportDir = "exports"
	c.S3Region = "us-east-1"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment (after loading .env, if present) and
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	_ = godotenv.Load()
	parseEnv(cfg, os.LookupEnv)
	parseFlags(cfg)
	return cfg
}
