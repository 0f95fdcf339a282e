package services

import "context"

type contextKey string

const (
	runIDKey  contextKey = "run_id"
	stageKey  contextKey = "stage"
	workerKey contextKey = "worker"
)

// WithRunID annotates context with the batch run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the batch run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stageKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithWorker annotates context with the worker index.
func WithWorker(ctx context.Context, worker int) context.Context {
	return context.WithValue(ctx, workerKey, worker)
}

// WorkerFromContext returns the worker index if present.
func WorkerFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(workerKey).(int)
	return v, ok
}
