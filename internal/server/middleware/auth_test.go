package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	identityservice "aido/backend/internal/identity/service"
	userdomain "aido/backend/internal/user/domain"
)

type fakeAuthenticator struct {
	user      *userdomain.User
	err       error
	gotToken  string
	gotUserID string
}

func (a *fakeAuthenticator) Authenticate(ctx context.Context, token, userID string) (*userdomain.User, error) {
	a.gotToken = token
	a.gotUserID = userID
	if a.err != nil {
		return nil, a.err
	}
	return a.user, nil
}

func TestRequireAuth_StoresUserInContext(t *testing.T) {
	auth := &fakeAuthenticator{user: &userdomain.User{ID: "u-1", Phone: "13800000000", Token: "t-1"}}

	var gotID string
	h := RequireAuth(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetUserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Authorization", "Bearer t-1")
	req.Header.Set("X-User-Id", "u-1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if gotID != "u-1" {
		t.Errorf("user id in context = %q, want u-1", gotID)
	}
	if auth.gotToken != "Bearer t-1" || auth.gotUserID != "u-1" {
		t.Errorf("authenticator got (%q, %q), want raw header values", auth.gotToken, auth.gotUserID)
	}
}

func TestRequireAuth_InvalidCredentials(t *testing.T) {
	auth := &fakeAuthenticator{err: identityservice.ErrInvalidCredential}

	h := RequireAuth(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run on auth failure")
	}))

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuth_DownstreamFailureIs500(t *testing.T) {
	auth := &fakeAuthenticator{err: &identityservice.DownstreamError{Op: "lookup session", Err: errors.New("connection reset")}}

	h := RequireAuth(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not run on auth failure")
	}))

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500: a database failure is not the client's fault", w.Code)
	}
	if body := w.Body.String(); strings.Contains(body, "connection reset") {
		t.Errorf("body = %q leaks the internal error", body)
	}
}

func TestCaptureClientIP(t *testing.T) {
	var got string
	h := CaptureClientIP(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ClientIP(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:54321"
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "203.0.113.9" {
		t.Errorf("client ip = %q, want 203.0.113.9", got)
	}
}

func TestGetUser_Absent(t *testing.T) {
	if _, ok := GetUser(context.Background()); ok {
		t.Error("GetUser on an empty context should report false")
	}
	if _, ok := GetUserID(context.Background()); ok {
		t.Error("GetUserID on an empty context should report false")
	}
}
