package common

import (
	"context"
	"log/slog"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRunID      contextKey = "run_id"
	ContextKeyCollection contextKey = "collection"
)

// WithRunID adds a run ID to the context
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ContextKeyRunID, runID)
}

// RunIDFromContext extracts the run ID from context
func RunIDFromContext(ctx context.Context) string {
	if runID, ok := ctx.Value(ContextKeyRunID).(string); ok {
		return runID
	}
	return ""
}

// WithCollection adds the collection name being processed to the context
func WithCollection(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ContextKeyCollection, name)
}

// CollectionFromContext extracts the collection name from context
func CollectionFromContext(ctx context.Context) string {
	if name, ok := ctx.Value(ContextKeyCollection).(string); ok {
		return name
	}
	return ""
}

// LoggerWithContext returns logger enriched with the run and collection found in ctx.
func LoggerWithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	if id := RunIDFromContext(ctx); id != "" {
		logger = logger.With("run_id", id)
	}
	if name := CollectionFromContext(ctx); name != "" {
		logger = logger.With("collection", name)
	}
	return logger
}
