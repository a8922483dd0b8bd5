// Package middleware holds the HTTP middleware chain: client-IP capture,
// session authentication, and per-request telemetry.
package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"

	"aido/backend/internal/httpx"
	identityservice "aido/backend/internal/identity/service"
	userdomain "aido/backend/internal/user/domain"
)

// Authenticator validates an inbound (token, userID) pair and returns the
// authenticated user.
type Authenticator interface {
	Authenticate(ctx context.Context, token, userID string) (*userdomain.User, error)
}

// RequireAuth returns middleware that authenticates the request from the
// Authorization and X-User-Id headers and stores the user in the request
// context. Missing or invalid credentials end the request with 401;
// a directory failure ends it with 500 and a generic message.
func RequireAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("Authorization")
			userID := r.Header.Get("X-User-Id")
			u, err := auth.Authenticate(r.Context(), token, userID)
			if err != nil {
				var downstream *identityservice.DownstreamError
				if errors.As(err, &downstream) {
					httpx.Error(w, http.StatusInternalServerError, "internal error")
					return
				}
				httpx.Error(w, http.StatusUnauthorized, err.Error())
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// CaptureClientIP records the remote address (host only) in the request
// context for audit logging.
func CaptureClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ip = host
		}
		next.ServeHTTP(w, r.WithContext(WithClientIP(r.Context(), ip)))
	})
}
