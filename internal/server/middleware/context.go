package middleware

import (
	"context"

	userdomain "aido/backend/internal/user/domain"
)

type contextKey struct{ name string }

var (
	userKey     = contextKey{"user"}
	clientIPKey = contextKey{"client_ip"}
)

// WithUser returns a context carrying the authenticated user.
// Handlers read it via GetUser / GetUserID.
func WithUser(ctx context.Context, u *userdomain.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

// GetUser returns the authenticated user from ctx and true if set.
func GetUser(ctx context.Context) (*userdomain.User, bool) {
	u, ok := ctx.Value(userKey).(*userdomain.User)
	return u, ok
}

// GetUserID returns the authenticated user's id from ctx and true if set.
func GetUserID(ctx context.Context) (string, bool) {
	u, ok := GetUser(ctx)
	if !ok || u == nil {
		return "", false
	}
	return u.ID, true
}

// WithClientIP returns a context carrying the remote client IP.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIP returns the client IP recorded for this request, or "" if unknown.
func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey).(string)
	return v
}
