package code

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"
)

// DefaultTTL is the code lifetime used when none is configured.
const DefaultTTL = 5 * time.Minute

// Issuer generates codes and checks submissions against the store.
type Issuer struct {
	store Store
	ttl   time.Duration
	nowF  func() time.Time
}

// NewIssuer returns an Issuer writing to store with the given TTL.
// A non-positive ttl falls back to DefaultTTL.
func NewIssuer(store Store, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{store: store, ttl: ttl, nowF: func() time.Time { return time.Now().UTC() }}
}

// Issue generates a fresh 6-digit code for phone and stores it with the
// configured TTL, replacing any unexpired code. Returns the code so the
// caller can hand it to the delivery channel.
func (i *Issuer) Issue(ctx context.Context, phone string) (string, error) {
	c, err := Generate()
	if err != nil {
		return "", err
	}
	if err := i.store.Put(ctx, phone, c, i.nowF().Add(i.ttl)); err != nil {
		return "", fmt.Errorf("code store: %w", err)
	}
	return c, nil
}

// Validate reports whether submitted matches the unexpired code stored for
// phone. The code is not consumed on success: it stays valid for repeated
// checks until its TTL elapses. A store failure is returned as an error,
// distinct from a mismatch.
func (i *Issuer) Validate(ctx context.Context, phone, submitted string) (bool, error) {
	stored, ok, err := i.store.Get(ctx, phone)
	if err != nil {
		return false, fmt.Errorf("code store: %w", err)
	}
	if !ok || submitted == "" {
		return false, nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1, nil
}
