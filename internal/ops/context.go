package ops

import "context"

type contextKey string

const (
	runIDKey      contextKey = "run_id"
	operationKey  contextKey = "operation"
	manifestIDKey contextKey = "manifest_id"
)

// WithRunID annotates context with the identifier of one organize or undo pass.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the pass identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithOperation annotates context with the engine operation (organize, undo, preview).
func WithOperation(ctx context.Context, op string) context.Context {
	if op == "" {
		return ctx
	}
	return context.WithValue(ctx, operationKey, op)
}

// OperationFromContext returns the operation name if present.
func OperationFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(operationKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithManifestID annotates context with the manifest being written or undone.
func WithManifestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, manifestIDKey, id)
}

// ManifestIDFromContext returns the manifest identifier if present.
func ManifestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(manifestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
