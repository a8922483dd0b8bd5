package audit

import (
	"context"
	"errors"
	"testing"

	"aido/backend/internal/audit/domain"
	"aido/backend/internal/server/middleware"
)

type memAuditRepo struct {
	entries []*domain.AuditLog
	err     error
}

func (r *memAuditRepo) Create(ctx context.Context, e *domain.AuditLog) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, e)
	return nil
}

func TestLogEvent_PersistsEntry(t *testing.T) {
	repo := &memAuditRepo{}
	l := NewLogger(repo, middleware.ClientIP, nil)

	ctx := middleware.WithClientIP(context.Background(), "203.0.113.9")
	l.LogEvent(ctx, "u-1", domain.ActionLoginSuccess, "13800000000", `{"created":true}`)

	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(repo.entries))
	}
	e := repo.entries[0]
	if e.ID == "" {
		t.Error("entry should get an id")
	}
	if e.UserID != "u-1" || e.Action != domain.ActionLoginSuccess || e.Phone != "13800000000" {
		t.Errorf("entry = %+v", e)
	}
	if e.IP != "203.0.113.9" {
		t.Errorf("ip = %q, want the request's client ip", e.IP)
	}
	if e.CreatedAt.IsZero() {
		t.Error("created_at should be set")
	}
}

func TestLogEvent_UnknownIPWithoutExtractor(t *testing.T) {
	repo := &memAuditRepo{}
	l := NewLogger(repo, nil, nil)

	l.LogEvent(context.Background(), "u-1", domain.ActionLogout, "", "")
	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(repo.entries))
	}
	if ip := repo.entries[0].IP; ip != "unknown" {
		t.Errorf("ip = %q, want unknown", ip)
	}
}

func TestLogEvent_RepositoryFailureIsSwallowed(t *testing.T) {
	repo := &memAuditRepo{err: errors.New("table missing")}
	l := NewLogger(repo, nil, nil)

	// Must not panic or propagate; the trail is best-effort.
	l.LogEvent(context.Background(), "u-1", domain.ActionSendCode, "13800000000", "")
}
