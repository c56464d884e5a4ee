// Package logging defines the structured logger used across qacurator.
// Two backends are provided: log/slog and go.uber.org/zap.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are key-value pairs:
//
//	log.Info(ctx, "request sent", "method", method, "path", path)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}

// Backend selects the logger implementation.
type Backend string

const (
	BackendSlog Backend = "slog"
	BackendZap  Backend = "zap"
)

// Options configure New.
type Options struct {
	Backend Backend
	Level   string // debug, info, warn, error
	Format  string // text|json for slog, console|json for zap
	Writer  io.Writer
}

// New builds a Logger for the requested backend. Unknown levels fall back to info.
func New(opts Options) (Logger, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}
	switch opts.Backend {
	case "", BackendSlog:
		return newSlog(opts), nil
	case BackendZap:
		return newZap(opts)
	default:
		return nil, fmt.Errorf("unknown log backend %q", opts.Backend)
	}
}
