package segstore

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with store-specific context.
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

// WithRoot adds the store root to the logger.
func (l *Logger) WithRoot(root string) *Logger {
	return &Logger{
		Logger: l.Logger.With("root", root),
	}
}

// WithStream adds a stream field to the logger.
func (l *Logger) WithStream(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("stream", name),
	}
}

// LogOpen logs the discovery of an existing root.
func (l *Logger) LogOpen(ctx context.Context, streams int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "store open failed",
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "store opened",
			"streams", streams,
		)
	}
}

// LogProcess logs the draining of one record sequence into a stream.
// Call it on a logger returned by WithStream.
func (l *Logger) LogProcess(ctx context.Context, records int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "process failed",
			"records", records,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "process completed",
			"records", records,
			"elapsed", elapsed,
		)
	}
}

// LogMerge logs a stream merge.
// Call it on a logger returned by WithStream.
func (l *Logger) LogMerge(ctx context.Context, from string, segments int, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "merge failed",
			"from", from,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "merge completed",
			"from", from,
			"segments", segments,
			"bytes", bytes,
		)
	}
}
