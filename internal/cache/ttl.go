package cache

import (
	"math/rand/v2"
	"time"
)

// TTLFunc picks the lifetime of a newly stored entry.
type TTLFunc func() time.Duration

// Fixed gives every entry the same lifetime.
func Fixed(d time.Duration) TTLFunc {
	return func() time.Duration { return d }
}

// Jitter gives each entry a lifetime drawn uniformly from [base, 2*base), so
// entries written together do not all expire together.
func Jitter(base time.Duration) TTLFunc {
	return func() time.Duration {
		if base <= 0 {
			return base
		}
		return base + time.Duration(rand.Int64N(int64(base)))
	}
}
