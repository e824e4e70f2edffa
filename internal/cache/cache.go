// Package cache holds serialized GET responses keyed by request URI.
package cache

import (
	"context"
	"time"
)

// Entry is one cached response body.
type Entry struct {
	Key        string
	Value      []byte
	InsertedAt time.Time
}

// Expired reports whether the entry is older than ttl at instant t.
// A non-positive ttl never expires.
func (e Entry) Expired(ttl time.Duration, t time.Time) bool {
	return ttl > 0 && t.Sub(e.InsertedAt) >= ttl
}

// Store defines the byte-level backend behind ResponseCache.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the entry and whether it was present and not expired.
	Get(ctx context.Context, key string) (Entry, bool, error)

	// Set stores value under key; overwriting a key restarts its TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Clear removes all entries.
	Clear(ctx context.Context) error

	// Len returns the number of non-expired entries.
	Len(ctx context.Context) (int, error)
}
