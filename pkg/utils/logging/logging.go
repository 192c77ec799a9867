package logging

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/clog"
)

type ctxLoggerKey struct{}

var defaultLogger *slog.Logger

func init() {
	defaultLogger = slog.New(clog.New(
		clog.WithWriter(os.Stdout),
		clog.WithLevel(slog.LevelInfo),
	))
}

// Default returns the process-wide logger
func Default() *slog.Logger {
	return defaultLogger
}

// SetDefault replaces the process-wide logger. Intended to be called once
// from CLI configuration.
func SetDefault(logger *slog.Logger) {
	defaultLogger = logger
}

// With returns a new context with the given logger embedded
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

// From extracts a logger from the context, falling back to the default
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxLoggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return defaultLogger
}
