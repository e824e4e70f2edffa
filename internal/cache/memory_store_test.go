package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func freezeNow(t *testing.T) *time.Time {
	t.Helper()
	base := time.Now()
	now = func() time.Time { return base }
	t.Cleanup(func() { now = time.Now })
	return &base
}

func TestMemoryStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if err := s.Set(ctx, "/produtos", []byte(`[]`), time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	e, ok, err := s.Get(ctx, "/produtos")
	if err != nil || !ok || string(e.Value) != "[]" {
		t.Fatalf("expected hit with value [], got ok=%v v=%q err=%v", ok, e.Value, err)
	}
	if e.Key != "/produtos" || e.InsertedAt.IsZero() {
		t.Fatalf("expected entry metadata to be set, got %+v", e)
	}
	if n, _ := s.Len(ctx); n != 1 {
		t.Fatalf("expected Len=1, got %d", n)
	}
}

func TestMemoryStore_TTL_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := freezeNow(t)

	_ = s.Set(ctx, "k", []byte("v"), 100*time.Second)
	*base = base.Add(99 * time.Second)
	if _, ok, _ := s.Get(ctx, "k"); !ok {
		t.Fatalf("expected hit before expiry")
	}

	*base = base.Add(time.Second)
	if _, ok, _ := s.Get(ctx, "k"); ok {
		t.Fatalf("expected miss once TTL elapsed")
	}
	if n, _ := s.Len(ctx); n != 0 {
		t.Fatalf("expected Len=0 for expired entries, got %d", n)
	}
	if purged := s.PurgeExpired(); purged != 1 {
		t.Fatalf("expected 1 purged entry, got %d", purged)
	}
}

func TestMemoryStore_OverwriteRefreshesExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := freezeNow(t)

	_ = s.Set(ctx, "k", []byte("v1"), 10*time.Second)
	*base = base.Add(8 * time.Second)
	_ = s.Set(ctx, "k", []byte("v2"), 10*time.Second)
	*base = base.Add(8 * time.Second)

	e, ok, _ := s.Get(ctx, "k")
	if !ok || string(e.Value) != "v2" {
		t.Fatalf("expected refreshed entry v2, got ok=%v v=%q", ok, e.Value)
	}
}

func TestMemoryStore_Clear(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Set(ctx, "a", []byte("1"), 0)
	_ = s.Set(ctx, "b", []byte("2"), 0)
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n, _ := s.Len(ctx); n != 0 {
		t.Fatalf("expected Len=0 after Clear, got %d", n)
	}
}

func TestMemoryStore_Janitor(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewMemoryStore()
	_ = s.Set(ctx, "short", []byte("x"), time.Millisecond)

	s.StartJanitor(ctx, 5*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.RLock()
		remaining := len(s.items)
		s.mu.RUnlock()
		if remaining == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected janitor to purge expired entry")
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	keys := 50
	rounds := 100

	var wg sync.WaitGroup
	for i := 0; i < keys; i++ {
		key := fmt.Sprintf("/produtos/%d", i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := 0; r < rounds; r++ {
				_ = s.Set(ctx, key, []byte("x"), time.Minute)
				_, _, _ = s.Get(ctx, key)
			}
		}()
	}
	wg.Wait()
	if n, _ := s.Len(ctx); n != keys {
		t.Fatalf("expected %d entries, got %d", keys, n)
	}
}
