package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e *entry) expiredAt(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// MemoryStore is a process-resident Store. Entries are only dropped when they
// expire; size is unbounded.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
	now     func() time.Time
	janitor *janitor

	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	evictions atomic.Int64
}

// NewMemoryStore creates an in-memory store. When cleanupInterval is positive a
// background goroutine removes expired entries at that interval; call Stop to end it.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
	if cleanupInterval > 0 {
		s.janitor = &janitor{
			interval: cleanupInterval,
			stop:     make(chan struct{}),
		}
		go s.janitor.run(s)
	}
	return s
}

// Get retrieves a live entry.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	e, found := s.entries[key]
	s.mu.RUnlock()

	if !found || e.expiredAt(s.now()) {
		s.misses.Add(1)
		return nil, false, nil
	}
	s.hits.Add(1)
	return e.value, true, nil
}

// Set stores value for ttl. A non-positive ttl stores nothing.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = &entry{
		value:     value,
		expiresAt: s.now().Add(ttl),
	}
	s.sets.Add(1)
	return nil
}

// Delete removes key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// Stats returns a snapshot of the store counters.
func (s *MemoryStore) Stats() Stats {
	s.mu.RLock()
	size := len(s.entries)
	s.mu.RUnlock()

	return Stats{
		Hits:        s.hits.Load(),
		Misses:      s.misses.Load(),
		Sets:        s.sets.Load(),
		Evictions:   s.evictions.Load(),
		CurrentSize: size,
	}
}

// deleteExpired removes all expired entries and returns how many were removed.
func (s *MemoryStore) deleteExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	count := 0
	for key, e := range s.entries {
		if e.expiredAt(now) {
			delete(s.entries, key)
			count++
		}
	}
	s.evictions.Add(int64(count))
	return count
}

// Stop ends the background cleanup goroutine.
func (s *MemoryStore) Stop() {
	if s.janitor != nil {
		close(s.janitor.stop)
		s.janitor = nil
	}
}

type janitor struct {
	interval time.Duration
	stop     chan struct{}
}

func (j *janitor) run(s *MemoryStore) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.deleteExpired()
		case <-j.stop:
			return
		}
	}
}
