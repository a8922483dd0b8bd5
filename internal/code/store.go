package code

import (
	"context"
	"sync"
	"time"
)

// Store holds the current verification code per phone until it expires.
// Implementations may be backed by any key-value store with expiry; errors
// signal store unavailability, never a missing or expired code.
type Store interface {
	// Put stores code for phone until expiresAt, replacing any previous code.
	Put(ctx context.Context, phone, code string, expiresAt time.Time) error
	// Get returns the code for phone if present and not expired. ok is false
	// when the code is missing or expired.
	Get(ctx context.Context, phone string) (code string, ok bool, err error)
}

type entry struct {
	code      string
	expiresAt time.Time
}

// MemoryStore is an in-process Store implementation.
type MemoryStore struct {
	mu   sync.RWMutex
	m    map[string]entry
	nowF func() time.Time
}

// NewMemoryStore returns a new in-memory code store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m:    make(map[string]entry),
		nowF: func() time.Time { return time.Now().UTC() },
	}
}

// Put stores code for phone until expiresAt. Overwrites any unexpired code
// for the same phone (rolling reset).
func (s *MemoryStore) Put(ctx context.Context, phone, code string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[phone] = entry{code: code, expiresAt: expiresAt}
	return nil
}

// Get returns the code for phone if present and not expired. Expired entries
// are removed on read.
func (s *MemoryStore) Get(ctx context.Context, phone string) (string, bool, error) {
	s.mu.RLock()
	e, ok := s.m[phone]
	s.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if !e.expiresAt.After(s.nowF()) {
		s.mu.Lock()
		delete(s.m, phone)
		s.mu.Unlock()
		return "", false, nil
	}
	return e.code, true, nil
}
