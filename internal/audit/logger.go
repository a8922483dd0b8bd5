// Package audit records auth events (code sends, logins, logouts) as a
// persisted trail. Writes are best-effort and never fail the caller.
package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"aido/backend/internal/audit/domain"
	auditrepo "aido/backend/internal/audit/repository"
)

// IPExtractor returns the client IP from the request context, or "" if unknown.
type IPExtractor func(context.Context) string

// AuditLogger writes a single audit event. Implementations must be best-effort:
// failures are logged server-side and do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, userID, action, phone, metadata string)
}

// Logger implements AuditLogger using the audit repository and an optional IP extractor.
type Logger struct {
	repo        auditrepo.Repository
	ipExtractor IPExtractor
	slog        *slog.Logger
}

// NewLogger returns an AuditLogger that persists to repo and uses ipExtractor
// for the client IP. ipExtractor may be nil; then IP is recorded as "unknown".
func NewLogger(repo auditrepo.Repository, ipExtractor IPExtractor, logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{repo: repo, ipExtractor: ipExtractor, slog: logger}
}

// LogEvent writes one audit entry. Best-effort: errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, userID, action, phone, metadata string) {
	if l == nil || l.repo == nil {
		return
	}
	ip := "unknown"
	if l.ipExtractor != nil {
		if v := l.ipExtractor(ctx); v != "" {
			ip = v
		}
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Phone:     phone,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		l.slog.ErrorContext(ctx, "audit write failed", "action", action, "err", err)
	}
}
