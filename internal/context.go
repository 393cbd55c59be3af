package internal

import (
	"context"
)

type ctxKey string

const ContextRunKey ctxKey = "syncRunID"

// RunIDFromContext returns the sync run identifier attached to ctx, if any.
func RunIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if runID, ok := ctx.Value(ContextRunKey).(string); ok {
		return runID
	}
	return ""
}

func ContextWithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, ContextRunKey, runID)
}
