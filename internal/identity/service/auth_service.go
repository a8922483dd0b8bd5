// Package service implements the phone-code login flow: code issuance and
// delivery, code-checked login with find-or-create identity resolution, and
// token+user-id session authentication.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	auditdomain "aido/backend/internal/audit/domain"
	userdomain "aido/backend/internal/user/domain"
)

// Sentinel errors for the auth service; the handler maps them to HTTP statuses.
var (
	ErrPhoneRequired     = errors.New("phone is required")
	ErrCodeRequired      = errors.New("verification code is required")
	ErrBadCode           = errors.New("verification code is invalid or expired")
	ErrMissingCredential = errors.New("missing token or user id")
	ErrInvalidCredential = errors.New("invalid token or user id")
)

// DownstreamError marks a cache, database, or delivery-infrastructure failure.
// Handlers map it to a 5xx with a generic client message; the wrapped error
// carries the diagnostic detail for the server-side log only.
type DownstreamError struct {
	Op  string
	Err error
}

func (e *DownstreamError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *DownstreamError) Unwrap() error { return e.Err }

const bearerPrefix = "bearer "

// LoginResult is the outcome of a successful login. Phone is set only on the
// code-verified path; the trusted phone-only path leaves it empty so clients
// can tell the two call patterns apart.
type LoginResult struct {
	UserID    string
	Token     string
	Signature string
	Nickname  string
	Phone     string
}

// CodeIssuer issues and validates one-time codes against a TTL store.
type CodeIssuer interface {
	Issue(ctx context.Context, phone string) (string, error)
	Validate(ctx context.Context, phone, submitted string) (bool, error)
}

// Notifier delivers a code to a phone. Send reports delivery only; it never
// returns an error.
type Notifier interface {
	Send(ctx context.Context, phone, code string) bool
}

// UserDirectory is the minimal identity directory needed by the auth service.
type UserDirectory interface {
	ResolveOrCreate(ctx context.Context, phone string) (*userdomain.User, bool, error)
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	LookupByTokenAndID(ctx context.Context, token, id string) (*userdomain.User, error)
	ClearToken(ctx context.Context, id string) error
}

// AuditLogger records auth events. May be nil.
type AuditLogger interface {
	LogEvent(ctx context.Context, userID, action, phone, metadata string)
}

// AuthService coordinates code issuance, login, session authentication, and logout.
type AuthService struct {
	codes        CodeIssuer
	notifier     Notifier
	directory    UserDirectory
	audit        AuditLogger
	trustedLogin bool
	logger       *slog.Logger
}

// NewAuthService returns an AuthService with the given dependencies.
// trustedLogin enables the phone-only login branch that skips code validation;
// it must stay off outside trusted environments. audit may be nil.
func NewAuthService(codes CodeIssuer, notifier Notifier, directory UserDirectory, audit AuditLogger, trustedLogin bool, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		codes:        codes,
		notifier:     notifier,
		directory:    directory,
		audit:        audit,
		trustedLogin: trustedLogin,
		logger:       logger,
	}
}

// SendCode issues a fresh code for phone and attempts one SMS delivery.
// delivered reports only the delivery outcome; a code-store failure is a
// DownstreamError so callers can distinguish infrastructure trouble from a
// provider that merely refused the send.
func (s *AuthService) SendCode(ctx context.Context, phone string) (delivered bool, err error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return false, ErrPhoneRequired
	}
	c, err := s.codes.Issue(ctx, phone)
	if err != nil {
		return false, &DownstreamError{Op: "issue code", Err: err}
	}
	delivered = s.notifier.Send(ctx, phone, c)
	s.auditEvent(ctx, "", auditdomain.ActionSendCode, phone, fmt.Sprintf(`{"delivered":%t}`, delivered))
	return delivered, nil
}

// Login authenticates a phone with its verification code and returns the
// user's shared session token.
//
// One rule governs code checking: a login is always code-validated. The only
// exception is trusted mode, where an empty code skips validation, and then
// the result deliberately omits the phone. A login on a second device returns
// the same token the first device holds; no session is rotated.
func (s *AuthService) Login(ctx context.Context, phone, submittedCode string) (*LoginResult, error) {
	phone = strings.TrimSpace(phone)
	submittedCode = strings.TrimSpace(submittedCode)
	if phone == "" {
		return nil, ErrPhoneRequired
	}

	echoPhone := true
	if submittedCode == "" {
		if !s.trustedLogin {
			return nil, ErrCodeRequired
		}
		echoPhone = false
	} else {
		ok, err := s.codes.Validate(ctx, phone, submittedCode)
		if err != nil {
			return nil, &DownstreamError{Op: "validate code", Err: err}
		}
		if !ok {
			s.auditEvent(ctx, "", auditdomain.ActionLoginFailure, phone, `{"reason":"bad_code"}`)
			return nil, ErrBadCode
		}
	}

	u, isNew, err := s.directory.ResolveOrCreate(ctx, phone)
	if err != nil {
		return nil, &DownstreamError{Op: "resolve user", Err: err}
	}

	// Re-read for current profile fields; a profile update racing this login
	// should win in the response.
	current, err := s.directory.GetByID(ctx, u.ID)
	if err != nil {
		return nil, &DownstreamError{Op: "load user", Err: err}
	}
	if current == nil {
		current = u
	}

	s.auditEvent(ctx, u.ID, auditdomain.ActionLoginSuccess, phone, fmt.Sprintf(`{"created":%t}`, isNew))
	s.logger.InfoContext(ctx, "login succeeded", "user_id", u.ID, "created", isNew)

	res := &LoginResult{
		UserID:    u.ID,
		Token:     u.Token,
		Signature: current.Signature,
		Nickname:  current.Nickname,
	}
	if echoPhone {
		res.Phone = phone
	}
	return res, nil
}

// Authenticate validates an inbound (token, userID) pair and returns the full
// user record as the authenticated identity. token may carry a Bearer prefix.
// Read-only: no session state changes.
func (s *AuthService) Authenticate(ctx context.Context, token, userID string) (*userdomain.User, error) {
	token = strings.TrimSpace(token)
	userID = strings.TrimSpace(userID)
	if token == "" || userID == "" {
		return nil, ErrMissingCredential
	}
	token = stripBearer(token)
	if token == "" {
		return nil, ErrMissingCredential
	}
	u, err := s.directory.LookupByTokenAndID(ctx, token, userID)
	if err != nil {
		return nil, &DownstreamError{Op: "lookup session", Err: err}
	}
	if u == nil {
		return nil, ErrInvalidCredential
	}
	return u, nil
}

// Logout revokes the user's shared token. Because all of the user's devices
// share one token, this logs out every device at once. Idempotent.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if err := s.directory.ClearToken(ctx, userID); err != nil {
		return &DownstreamError{Op: "clear token", Err: err}
	}
	s.auditEvent(ctx, userID, auditdomain.ActionLogout, "", "")
	s.logger.InfoContext(ctx, "logout succeeded", "user_id", userID)
	return nil
}

func (s *AuthService) auditEvent(ctx context.Context, userID, action, phone, metadata string) {
	if s.audit == nil {
		return
	}
	s.audit.LogEvent(ctx, userID, action, phone, metadata)
}

// stripBearer removes an optional case-insensitive "Bearer " marker.
func stripBearer(token string) string {
	if len(token) >= len(bearerPrefix) && strings.EqualFold(token[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(token[len(bearerPrefix):])
	}
	return token
}
