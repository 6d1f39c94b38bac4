package tracing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const TraceIDHeader = "X-Trace-Id"

// InjectTraceID attaches a logger carrying a fresh traceId to ctx.
func InjectTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, uuid.New().String())
}

// WithTraceID attaches a logger carrying id to ctx, generating one when id
// is empty.
func WithTraceID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.New().String()
	}
	logger := log.With().Str("traceId", id).Logger()
	return logger.WithContext(ctx)
}
