// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware and the Discord adapter set values here;
// services read them. Keeping this package free of net/http lets services
// import only what they need.
package requestcontext

import (
	"context"
	"time"

	"whitelist/internal/identity"
)

type (
	requesterKey   struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
	tokenIDKey     struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyRequester   = requesterKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
	ContextKeyTokenID     = tokenIDKey{}
)

// Requester retrieves the authenticated requester from the context. Returns
// the zero value (unauthenticated, no capabilities) if not set.
func Requester(ctx context.Context) identity.Requester {
	if r, ok := ctx.Value(ContextKeyRequester).(identity.Requester); ok {
		return r
	}
	return identity.Requester{}
}

// WithRequester injects a requester into the context.
func WithRequester(ctx context.Context, r identity.Requester) context.Context {
	return context.WithValue(ctx, ContextKeyRequester, r)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// TokenID retrieves the bearer token's jti claim from the context. Empty when
// the request was not authenticated with a token (e.g. Discord interactions).
func TokenID(ctx context.Context) string {
	if jti, ok := ctx.Value(ContextKeyTokenID).(string); ok {
		return jti
	}
	return ""
}

// WithTokenID injects a token jti into the context.
func WithTokenID(ctx context.Context, jti string) context.Context {
	return context.WithValue(ctx, ContextKeyTokenID, jti)
}

// Now retrieves the request-scoped time from context. Falls back to
// time.Now() for non-HTTP contexts (workers, tests without middleware).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests that don't run the HTTP middleware chain.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
