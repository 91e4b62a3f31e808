package middleware

import "context"

// ContextKey is a private type for request context keys. The user id lives
// in the domain package so outbound backend calls can read it.
type ContextKey string

const (
	SessionIDCtxKey = ContextKey("session_id")
	RequestIDCtxKey = ContextKey("request_id")
)

func SessionIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(SessionIDCtxKey).(string)
	return v, ok && v != ""
}

func RequestIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(RequestIDCtxKey).(string)
	return v
}
