package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
)

// HeaderName carries the request trace id between services
const HeaderName = "X-Trace-ID"

type ctxKey struct{}

// GenerateTraceID returns a random 128-bit hex id
func GenerateTraceID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// FromContext returns the trace id stored in ctx, or ""
func FromContext(ctx context.Context) string {
	if traceID, ok := ctx.Value(ctxKey{}).(string); ok {
		return traceID
	}
	return ""
}

// WithContext stores traceID in ctx
func WithContext(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, traceID)
}

// FromHeader returns the inbound id, generating one when the header is empty
func FromHeader(headerValue string) string {
	if headerValue != "" {
		return headerValue
	}
	return GenerateTraceID()
}
