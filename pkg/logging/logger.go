// Package logging wraps log/slog with a compact console handler and
// request-scoped helpers for the web layer.
package logging

import (
	"context"
	"log/slog"
	"os"
)

type contextKey string

const requestIDKey contextKey = "requestID"

var logger *slog.Logger

func init() {
	logger = slog.New(NewCompactHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// SetLevel replaces the logger with a compact handler at the given level.
func SetLevel(level slog.Level) {
	logger = slog.New(NewCompactHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

// SetJSONOutput switches to JSON output, for running under log collectors.
func SetJSONOutput(level slog.Level) {
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
}

// WithRequestID attaches a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID returns the request ID from the context, or "".
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func withRequestID(ctx context.Context, args []any) []any {
	if id := GetRequestID(ctx); id != "" {
		return append([]any{"requestID", id}, args...)
	}
	return args
}

// Debug logs internal behavior useful when tracking down a problem.
func Debug(msg string, args ...any) {
	logger.Debug(msg, args...)
}

// Info logs user-facing operations.
func Info(msg string, args ...any) {
	logger.Info(msg, args...)
}

// Warn logs conditions worth monitoring.
func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

// Error logs failures that should not happen.
func Error(msg string, args ...any) {
	logger.Error(msg, args...)
}

// InfoContext logs at INFO level with the context's request ID.
func InfoContext(ctx context.Context, msg string, args ...any) {
	logger.InfoContext(ctx, msg, withRequestID(ctx, args)...)
}

// ErrorContext logs at ERROR level with the context's request ID.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	logger.ErrorContext(ctx, msg, withRequestID(ctx, args)...)
}

// Fatal logs at ERROR level and exits.
func Fatal(msg string, args ...any) {
	logger.Error(msg, args...)
	os.Exit(1)
}
