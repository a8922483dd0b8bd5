package repository

import (
	"context"

	"aido/backend/internal/user/domain"
)

// Repository defines persistence for users. Lookups return (nil, nil) when no
// row matches; errors are returned only for database failures.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	// GetByTokenAndID returns the user matching both the session token and id.
	GetByTokenAndID(ctx context.Context, token, id string) (*domain.User, error)
	// Create inserts the user. Returns inserted=false without error when a row
	// for the same phone already exists (unique index on phone).
	Create(ctx context.Context, u *domain.User) (inserted bool, err error)
	// RefreshToken writes the token (possibly the same value) and bumps updated_at.
	RefreshToken(ctx context.Context, id, token string) error
	// ClearToken nulls the token for the user. Idempotent.
	ClearToken(ctx context.Context, id string) error
}
