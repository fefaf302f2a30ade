package transport

import (
	"context"

	"github.com/google/uuid"
)

type (
	contextKey string
)

const (
	// ContextRequestIDKey carries the X-Request-Id sent with every attempt of a call.
	ContextRequestIDKey contextKey = "requestID"
)

const requestIDHeader = "X-Request-Id"

// WithRequestID returns a context that pins the request ID used for correlation.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextRequestIDKey, id)
}

func requestID(ctx context.Context) string {
	if v := ctx.Value(ContextRequestIDKey); v != nil {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return uuid.NewString()
}
