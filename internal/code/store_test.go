package code

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryStore_PutThenGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	expiresAt := time.Now().UTC().Add(5 * time.Minute)

	if err := store.Put(ctx, "13800000000", "482913", expiresAt); err != nil {
		t.Fatalf("Put: %v", err)
	}

	c, ok, err := store.Get(ctx, "13800000000")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get should return the code after Put")
	}
	if c != "482913" {
		t.Errorf("code = %q, want %q", c, "482913")
	}
}

func TestMemoryStore_Get_MissingPhone(t *testing.T) {
	store := NewMemoryStore()

	c, ok, err := store.Get(context.Background(), "13800000000")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("Get should return ok=false for a phone with no code")
	}
	if c != "" {
		t.Errorf("code = %q, want empty", c)
	}
}

func TestMemoryStore_Get_Expired(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()
	store.nowF = func() time.Time { return now }

	if err := store.Put(ctx, "13800000000", "482913", now.Add(300*time.Second)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	store.nowF = func() time.Time { return now.Add(301 * time.Second) }
	_, ok, err := store.Get(ctx, "13800000000")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("Get should return ok=false after the TTL elapses")
	}
}

func TestMemoryStore_Put_OverwritesPriorCode(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	expiresAt := time.Now().UTC().Add(5 * time.Minute)

	_ = store.Put(ctx, "13800000000", "111111", expiresAt)
	_ = store.Put(ctx, "13800000000", "222222", expiresAt)

	c, ok, _ := store.Get(ctx, "13800000000")
	if !ok {
		t.Fatal("Get should return the latest code")
	}
	if c != "222222" {
		t.Errorf("code = %q, want %q (rolling reset replaces the old code)", c, "222222")
	}
}

func TestMemoryStore_PhonesAreIndependent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	expiresAt := time.Now().UTC().Add(5 * time.Minute)

	_ = store.Put(ctx, "13800000000", "111111", expiresAt)
	_ = store.Put(ctx, "13900000000", "222222", expiresAt)

	c, _, _ := store.Get(ctx, "13800000000")
	if c != "111111" {
		t.Errorf("code for first phone = %q, want %q", c, "111111")
	}
	c, _, _ = store.Get(ctx, "13900000000")
	if c != "222222" {
		t.Errorf("code for second phone = %q, want %q", c, "222222")
	}
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	expiresAt := time.Now().UTC().Add(5 * time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Put(ctx, "13800000000", "482913", expiresAt)
		}()
		go func() {
			defer wg.Done()
			_, _, _ = store.Get(ctx, "13800000000")
		}()
	}
	wg.Wait()

	c, ok, _ := store.Get(ctx, "13800000000")
	if !ok || c != "482913" {
		t.Errorf("Get = (%q, %t), want (%q, true)", c, ok, "482913")
	}
}
