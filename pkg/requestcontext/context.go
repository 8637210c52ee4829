// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// Context keys and getter/setter pairs live here so that services consume
// values set by middleware without importing net/http. Workers and tests
// inject the same values directly.
//
// Usage in services (read values):
//
//	subject := requestcontext.SubjectID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithSubject(ctx, subjectID, role)
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"
)

// Role is the caller classification handed to us by the identity provider.
// The core trusts it; it never derives roles itself.
type Role string

const (
	RoleStudent  Role = "student"
	RoleParent   Role = "parent"
	RoleDean     Role = "dean"
	RoleSecurity Role = "security"
	RoleAdmin    Role = "admin"
)

type (
	subjectIDKey   struct{}
	roleKey        struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for tests that need raw context.WithValue.
var (
	ContextKeySubjectID   = subjectIDKey{}
	ContextKeyRole        = roleKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// SubjectID retrieves the authenticated caller's ID from the context.
// Returns "" if not set.
func SubjectID(ctx context.Context) string {
	if s, ok := ctx.Value(ContextKeySubjectID).(string); ok {
		return s
	}
	return ""
}

// CallerRole retrieves the caller's role from the context.
func CallerRole(ctx context.Context) Role {
	if r, ok := ctx.Value(ContextKeyRole).(Role); ok {
		return r
	}
	return ""
}

// WithSubject injects the caller identity and role into the context.
func WithSubject(ctx context.Context, subjectID string, role Role) context.Context {
	ctx = context.WithValue(ctx, ContextKeySubjectID, subjectID)
	return context.WithValue(ctx, ContextKeyRole, role)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (workers, CLI, tests without injection).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests and for workers that need one consistent time per batch.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
