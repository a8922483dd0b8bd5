package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"aido/backend/internal/user/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, phone, token, nickname, signature, created_at, updated_at`

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByPhone returns the user with the given phone, or nil if not found.
func (r *PostgresRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, phone))
}

// GetByTokenAndID returns the user matching both token and id, or nil if no
// row matches. A NULL token column never matches.
func (r *PostgresRepository) GetByTokenAndID(ctx context.Context, token, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE token = $1 AND id = $2`
	return r.scanOne(r.db.QueryRowContext(ctx, query, token, id))
}

// Create inserts the user. The user must have ID set; it is not assigned here.
// A concurrent insert for the same phone is not an error: the unique index on
// phone makes the conflict visible and Create reports inserted=false so the
// caller can re-read the winning row.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) (bool, error) {
	query := `
		INSERT INTO users (id, phone, token, nickname, signature, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (phone) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query,
		u.ID, u.Phone, nullIfEmpty(u.Token), nullIfEmpty(u.Nickname), nullIfEmpty(u.Signature),
		u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n == 1, nil
}

// RefreshToken writes the session token for the user and bumps updated_at.
// Writing the same token is the login-refresh path: other devices keep their
// sessions because the credential does not change.
func (r *PostgresRepository) RefreshToken(ctx context.Context, id, token string) error {
	query := `UPDATE users SET token = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, nullIfEmpty(token), time.Now().UTC()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// ClearToken nulls the session token for the user, logging out every device.
// Clearing an already-null token is a no-op.
func (r *PostgresRepository) ClearToken(ctx context.Context, id string) error {
	query := `UPDATE users SET token = NULL, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var token, nickname, signature sql.NullString
	err := row.Scan(&u.ID, &u.Phone, &token, &nickname, &signature, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	u.Token = token.String
	u.Nickname = nickname.String
	u.Signature = signature.String
	return &u, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
