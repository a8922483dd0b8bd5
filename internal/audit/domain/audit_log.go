package domain

import "time"

// Actions recorded by the auth code paths.
const (
	ActionSendCode     = "send_code"
	ActionLoginSuccess = "login_success"
	ActionLoginFailure = "login_failure"
	ActionLogout       = "logout"
)

// AuditLog is one persisted auth event. UserID may be empty for events that
// happen before an identity is resolved (send_code, failed login).
type AuditLog struct {
	ID        string
	UserID    string
	Action    string
	Phone     string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
