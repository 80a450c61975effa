// Package requestcontext carries per-request correlation data explicitly.
// Core services never read the acting principal from ambient state; the
// actor is always an argument. Only the correlation ID and a clock override
// (for deterministic tests) travel on the context.
package requestcontext

import (
	"context"
	"time"
)

type ctxKey int

const (
	requestIDKey ctxKey = iota
	nowKey
	clientMetadataKey
)

// ClientMetadata is the anonymized client info captured by the transport
// layer for audit attribution.
type ClientMetadata struct {
	IP        string
	UserAgent string
}

// WithRequestID returns a context carrying the correlation ID.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the correlation ID, or "" when none is set.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// WithNow pins the clock for the request. Tests use this to make
// timestamp-bearing outputs deterministic.
func WithNow(ctx context.Context, now time.Time) context.Context {
	return context.WithValue(ctx, nowKey, now)
}

// Now returns the pinned clock if present, otherwise the wall clock.
func Now(ctx context.Context) time.Time {
	if v, ok := ctx.Value(nowKey).(time.Time); ok {
		return v
	}
	return time.Now()
}

// WithClientMetadata returns a context carrying anonymized client info.
func WithClientMetadata(ctx context.Context, meta ClientMetadata) context.Context {
	return context.WithValue(ctx, clientMetadataKey, meta)
}

// GetClientMetadata returns the client info, zero-valued when none is set.
func GetClientMetadata(ctx context.Context) ClientMetadata {
	if v, ok := ctx.Value(clientMetadataKey).(ClientMetadata); ok {
		return v
	}
	return ClientMetadata{}
}
