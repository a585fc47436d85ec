package posehash

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with table-specific context.
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
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithTable adds a table field to the logger.
func (l *Logger) WithTable(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("table", name),
	}
}

// LogOpen logs opening a table.
func (l *Logger) LogOpen(ctx context.Context, version uint64, entries int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "open failed",
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "table opened",
		"version", version,
		"entries", entries,
	)
}

// LogLookup logs a batched lookup.
func (l *Logger) LogLookup(ctx context.Context, pairs, hits int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "lookup failed",
			"pairs", pairs,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "lookup completed",
		"pairs", pairs,
		"hits", hits,
	)
}

// LogInsert logs a batched insert.
func (l *Logger) LogInsert(ctx context.Context, pairs int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "insert failed",
			"pairs", pairs,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "insert completed",
		"pairs", pairs,
	)
}

// LogCommit logs a commit.
func (l *Logger) LogCommit(ctx context.Context, version uint64, entries int, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "commit failed",
			"version", version,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "commit completed",
		"version", version,
		"entries", entries,
		"bytes", bytes,
	)
}
