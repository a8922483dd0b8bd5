package domain

import (
	"errors"
	"time"
)

// User is the core user entity. Phone is the natural key used for login;
// Token is the opaque session credential shared by all of the user's
// logged-in devices. An empty Token means logged out everywhere.
type User struct {
	ID        string
	Phone     string
	Token     string
	Nickname  string
	Signature string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	if u.ID == "" {
		return errors.New("id is required")
	}
	if u.Phone == "" {
		return errors.New("phone is required")
	}
	return nil
}

// LoggedIn reports whether the user currently holds an active session token.
func (u *User) LoggedIn() bool {
	return u.Token != ""
}
