// Package contextkeys provides centralized context key definitions
//
// IMPORTANT: All context keys used across the library must be defined here.
// This prevents typos, documents dependencies, and makes key usage discoverable.
//
// USAGE PATTERN:
//   import "github.com/harborbank/appcontext/pkg/contextkeys"
//   ctx = contextkeys.WithExecutionContext(ctx, ec)
//   ec, ok := ctx.Value(contextkeys.ExecutionContextKey).(*appctx.Context)
package contextkeys

import "context"

// Key is the type for context keys to prevent collisions
type Key string

const (
	// ClaimsKey contains map[string]string of verified token claims.
	// Set by: the authentication gateway in front of this library
	// Required by: appctx.ClaimsStrategy
	ClaimsKey Key = "verified_claims"

	// ExecutionContextKey contains the resolved *appctx.Context.
	// Set by: middleware.ContextMiddleware (pkg/middleware/resolve.go)
	// Required by: middleware.SecureMiddleware, request handlers
	ExecutionContextKey Key = "execution_context"

	// RequestIDKey contains request ID string (UUID)
	// Set by: HTTP middleware in the surrounding service
	// Used by: audit logging of authorization denials
	RequestIDKey Key = "request_id"
)

// Helper functions for type-safe context operations

// WithClaims adds verified token claims to the context
func WithClaims(ctx context.Context, claims map[string]string) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// Claims extracts verified token claims from the context
func Claims(ctx context.Context) map[string]string {
	claims, ok := ctx.Value(ClaimsKey).(map[string]string)
	if !ok {
		return nil
	}
	return claims
}

// WithExecutionContext adds the resolved execution context to the context
func WithExecutionContext(ctx context.Context, ec interface{}) context.Context {
	return context.WithValue(ctx, ExecutionContextKey, ec)
}

// WithRequestID adds request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// RequestID extracts the request ID from the context
func RequestID(ctx context.Context) string {
	id, ok := ctx.Value(RequestIDKey).(string)
	if !ok {
		return ""
	}
	return id
}
