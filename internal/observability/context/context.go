// Package context carries request-scoped correlation values.
package context

import (
	stdcontext "context"
	"strings"
)

type requestIDKey struct{}

type sessionIDKey struct{}

func WithRequestID(ctx stdcontext.Context, requestID string) stdcontext.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return stdcontext.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx stdcontext.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDKey{}).(string)
	return value
}

// WithSessionID records the cart session a request operates on.
func WithSessionID(ctx stdcontext.Context, sessionID string) stdcontext.Context {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ctx
	}
	return stdcontext.WithValue(ctx, sessionIDKey{}, sessionID)
}

func SessionIDFromContext(ctx stdcontext.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(sessionIDKey{}).(string)
	return value
}
