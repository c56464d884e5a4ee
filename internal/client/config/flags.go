package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/qacurator/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a  string  server base URL
//	-t  int     request timeout (seconds)
//	-r  float   client-side request rate limit (requests per second)
//	-d  string  path of the local SQLite store
//	-k  string  secret sealing stored credentials
//	-i  int     online check interval (seconds)
//	-p  int     task progress poll interval (seconds)
//	-lb string  log backend: slog or zap
//	-l  string  log level
//	-e  string  export directory
//
// os.Args is filtered with flagx.FilterArgs first, so flags owned by other
// loaders (-c) do not break parsing.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], "-a", "-t", "-r", "-d", "-k", "-i", "-p", "-lb", "-l", "-e")

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "server base URL")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.Float64Var(&cfg.RequestsPerSecond, "r", cfg.RequestsPerSecond, "requests per second")
	fs.StringVar(&cfg.StoragePath, "d", cfg.StoragePath, "local storage path")
	fs.StringVar(&cfg.StorageSecret, "k", cfg.StorageSecret, "storage secret")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	pollInterval := fs.Int("p", int(cfg.PollInterval.Seconds()), "task poll interval (in seconds)")
	fs.StringVar(&cfg.LogBackend, "lb", cfg.LogBackend, "log backend (slog|zap)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.ExportDir, "e", cfg.ExportDir, "export directory")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.PollInterval = time.Duration(*pollInterval) * time.Second
}
