// Package config loads runtime configuration for the qacurator CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected with -c / -config or the
//     QACURATOR_CONFIG variable.
//  3. QACURATOR_* environment variables, after a .env file in the working
//     directory has been loaded with godotenv. Variables already set in the
//     environment win over .env.
//  4. Command-line flags (see parseFlags).
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "3s" or
// integer nanoseconds:
//
//	{
//	  "server_url": "http://127.0.0.1:8000",
//	  "request_timeout": "10s",
//	  "poll_interval": "2s",
//	  "storage_path": "qacurator.db",
//	  "log_backend": "zap",
//	  "s3_bucket": "exports"
//	}
package config
