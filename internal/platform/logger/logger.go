// Package logger provides structured logging functionality for the worker.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Options controls logger construction.
type Options struct {
	// Level is the minimum log level: debug, info, warn or error.
	Level string

	// Format selects the handler: "json" (default) or "text". The text
	// format uses a colorized handler intended for local development.
	Format string
}

// Setup builds the application logger from the given options and installs
// it as the process default. JSON output goes to stdout; invalid levels
// fall back to info with a warning.
func Setup(opts Options) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(opts.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info", "":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
		tmp := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmp.Warn("invalid log level configured, using default level",
			"configured_level", opts.Level,
			"default_level", "info")
	}

	var handler slog.Handler
	switch strings.ToLower(opts.Format) {
	case "text":
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	default:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}

	log := slog.New(handler)
	slog.SetDefault(log)
	return log
}

// ctxKey is the private type used for the context logger key.
type ctxKey struct{}

// WithLogger returns a copy of ctx carrying the given logger.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext returns the logger stored in ctx, or the process default
// logger if none is present.
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return slog.Default()
}
