package cache

import (
	"context"
	"sync"
	"time"
)

// item stores a cached response and the TTL it was written with.
type item struct {
	entry Entry
	ttl   time.Duration
}

// MemoryStore is a map-backed Store guarded by a RWMutex.
// Expired entries are treated as misses on read and removed by PurgeExpired,
// either on demand or from the janitor started with StartJanitor.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]item
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]item)}
}

// now is a small indirection to allow test stubbing.
var now = time.Now

// Get implements Store.Get.
func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[key]
	if !ok || it.entry.Expired(it.ttl, now()) {
		// expired; treat as miss (cleanup deferred to PurgeExpired)
		return Entry{}, false, nil
	}
	return it.entry, true, nil
}

// Set implements Store.Set.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[key] = item{
		entry: Entry{Key: key, Value: value, InsertedAt: now()},
		ttl:   ttl,
	}
	return nil
}

// Clear implements Store.Clear.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]item)
	return nil
}

// Len implements Store.Len. It counts only non-expired entries.
func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ts := now()
	count := 0
	for _, it := range s.items {
		if !it.entry.Expired(it.ttl, ts) {
			count++
		}
	}
	return count, nil
}

// PurgeExpired removes expired entries and returns how many were dropped.
func (s *MemoryStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := now()
	purged := 0
	for k, it := range s.items {
		if it.entry.Expired(it.ttl, ts) {
			delete(s.items, k)
			purged++
		}
	}
	return purged
}

// StartJanitor runs PurgeExpired every period until ctx is done.
func (s *MemoryStore) StartJanitor(ctx context.Context, period time.Duration) {
	if period <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.PurgeExpired()
			}
		}
	}()
}

// Ensure MemoryStore implements Store at compile time.
var _ Store = (*MemoryStore)(nil)
