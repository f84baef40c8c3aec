package colfilter

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with colfilter-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{Logger: slog.New(handler)}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{Logger: slog.New(handler)}
}

// WithColumn adds a column key field to the logger.
func (l *Logger) WithColumn(key string) *Logger {
	return &Logger{Logger: l.Logger.With("column", key)}
}

// LogFilter logs a row filter pass.
func (l *Logger) LogFilter(ctx context.Context, total, kept int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "filter pass failed",
			"total", total,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "filter pass completed",
			"total", total,
			"kept", kept,
		)
	}
}

// LogOptimize logs a selection optimization.
func (l *Logger) LogOptimize(ctx context.Context, column string, pattern string, rules int) {
	l.DebugContext(ctx, "selection optimized",
		"column", column,
		"pattern", pattern,
		"rules", rules,
	)
}

// LogSnapshot logs a snapshot operation.
func (l *Logger) LogSnapshot(ctx context.Context, name string, columns int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot saved",
			"name", name,
			"columns", columns,
		)
	}
}
