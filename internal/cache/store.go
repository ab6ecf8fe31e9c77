// Package cache memoizes expensive lookups behind a pluggable key-value store
// with per-entry expiry.
package cache

import (
	"context"
	"time"
)

// Store is a key-value store whose entries expire after a TTL.
// An expired entry must never be returned by Get.
type Store interface {
	// Get returns the value stored under key. found is false for missing or expired entries.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// Stats holds store counters.
type Stats struct {
	Hits        int64 // Get calls that found a live entry
	Misses      int64 // Get calls for missing or expired entries
	Sets        int64
	Evictions   int64 // expired entries removed by the janitor
	CurrentSize int
}
