// Package directory resolves phone numbers to user records, creating them on
// first login. It owns the resolve-or-create semantics and the shared-token
// session model on top of the user repository.
package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"aido/backend/internal/user/domain"
	"aido/backend/internal/user/repository"
)

// Directory resolves a phone number to exactly one user, creating the record
// when the phone has never been seen. Safe under concurrent first-time logins:
// the repository's unique index on phone turns the duplicate insert into a
// conflict, and the losing caller re-reads and reuses the winner's row.
type Directory struct {
	repo repository.Repository
	nowF func() time.Time
}

// New returns a Directory backed by the given repository.
func New(repo repository.Repository) *Directory {
	return &Directory{repo: repo, nowF: func() time.Time { return time.Now().UTC() }}
}

// ResolveOrCreate returns the user for phone, creating one when absent.
//
// An existing user keeps its current token so sessions on other devices stay
// valid; only updated_at is refreshed. A user whose token was cleared by
// logout gets a fresh token. A new user is created with a fresh id and token;
// isNew is true only when this call inserted the row.
func (d *Directory) ResolveOrCreate(ctx context.Context, phone string) (*domain.User, bool, error) {
	u, err := d.repo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, false, err
	}
	if u != nil {
		return u, false, d.refresh(ctx, u)
	}

	now := d.nowF()
	nu := &domain.User{
		ID:        uuid.New().String(),
		Phone:     phone,
		Token:     uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := nu.Validate(); err != nil {
		return nil, false, err
	}
	inserted, err := d.repo.Create(ctx, nu)
	if err != nil {
		return nil, false, err
	}
	if inserted {
		return nu, true, nil
	}

	// Lost the race: another request created this phone's user between the
	// lookup and the insert. Reuse that row.
	u, err = d.repo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, false, err
	}
	if u == nil {
		return nil, false, fmt.Errorf("user for phone disappeared after insert conflict")
	}
	return u, false, d.refresh(ctx, u)
}

// refresh re-writes the user's token to bump updated_at, minting a fresh one
// when the user is fully logged out.
func (d *Directory) refresh(ctx context.Context, u *domain.User) error {
	if u.Token == "" {
		u.Token = uuid.New().String()
	}
	if err := d.repo.RefreshToken(ctx, u.ID, u.Token); err != nil {
		return err
	}
	u.UpdatedAt = d.nowF()
	return nil
}

// GetByID returns the user for id, or nil if not found.
func (d *Directory) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return d.repo.GetByID(ctx, id)
}

// LookupByTokenAndID returns the user matching both credentials, or nil when
// either does not match.
func (d *Directory) LookupByTokenAndID(ctx context.Context, token, id string) (*domain.User, error) {
	return d.repo.GetByTokenAndID(ctx, token, id)
}

// ClearToken revokes the user's shared session token, logging out every
// device at once. Idempotent.
func (d *Directory) ClearToken(ctx context.Context, id string) error {
	return d.repo.ClearToken(ctx, id)
}
