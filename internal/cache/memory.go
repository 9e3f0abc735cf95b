package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dgraph-io/ristretto"
)

// sweepInterval bounds how long expired keys linger in the tag index
const sweepInterval = time.Minute

// MemoryStore is a single-process backend on top of ristretto.
// Suitable for one server instance; multiple instances need RedisStore.
//
// ristretto evicts and expires values on its own, so the tag index can name
// keys that are gone. Those entries are dropped when a Get misses on the key
// and by a periodic sweep of expired entries run from Set.
type MemoryStore struct {
	cache *ristretto.Cache

	mu        sync.Mutex
	index     map[Tag]map[string]struct{}
	entries   map[string]indexEntry
	lastSweep time.Time
	now       func() time.Time
}

// indexEntry is the reverse side of the tag index
type indexEntry struct {
	tags    []Tag
	expires time.Time // zero when the key has no ttl
}

// MemoryConfig sizes the underlying ristretto cache
type MemoryConfig struct {
	MaxItems int64 // approximate number of entries kept
	MaxBytes int64 // total cost budget, cost = value length
}

// DefaultMemoryConfig fits a few thousand cached envelopes
func DefaultMemoryConfig() MemoryConfig {
	return MemoryConfig{MaxItems: 10_000, MaxBytes: 64 << 20}
}

// NewMemoryStore creates a ristretto-backed store
func NewMemoryStore(cfg MemoryConfig) (*MemoryStore, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.MaxItems * 10,
		MaxCost:     cfg.MaxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create ristretto cache: %w", err)
	}

	return &MemoryStore{
		cache:     c,
		index:     make(map[Tag]map[string]struct{}),
		entries:   make(map[string]indexEntry),
		lastSweep: time.Now(),
		now:       time.Now,
	}, nil
}

// Get returns the value at key. A miss also drops the key from the tag
// index, since ristretto may have evicted or expired it.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := s.cache.Get(key)
	if !ok {
		s.mu.Lock()
		s.forget(key)
		s.mu.Unlock()
		return nil, false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		return nil, false, fmt.Errorf("cache key %s holds %T", key, v)
	}
	return b, true, nil
}

// Set stores value for ttl and records key under each tag, replacing the
// tags recorded by an earlier Set of the same key.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration, tags ...Tag) error {
	// ristretto may drop a set under contention; that is a miss, not an error
	s.cache.SetWithTTL(key, value, int64(len(value))+int64(len(key)), ttl)
	// make the write visible to the next Get
	s.cache.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if now.Sub(s.lastSweep) >= sweepInterval {
		s.sweep(now)
	}

	s.forget(key)
	entry := indexEntry{tags: append([]Tag(nil), tags...)}
	if ttl > 0 {
		entry.expires = now.Add(ttl)
	}
	s.entries[key] = entry
	for _, tag := range tags {
		set, ok := s.index[tag]
		if !ok {
			set = make(map[string]struct{})
			s.index[tag] = set
		}
		set[key] = struct{}{}
	}
	return nil
}

// Delete removes keys and their index entries
func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		s.cache.Del(key)
		s.forget(key)
	}
	return nil
}

// Invalidate removes every key recorded under any of tags
func (s *MemoryStore) Invalidate(_ context.Context, tags ...Tag) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := make(map[string]struct{})
	for _, tag := range tags {
		for key := range s.index[tag] {
			dropped[key] = struct{}{}
		}
	}
	for key := range dropped {
		s.cache.Del(key)
		s.forget(key)
	}
	return len(dropped), nil
}

// Reset clears values and the index
func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Clear()
	s.index = make(map[Tag]map[string]struct{})
	s.entries = make(map[string]indexEntry)
	return nil
}

// Close releases ristretto's background goroutines
func (s *MemoryStore) Close() {
	s.cache.Close()
}

// forget removes key from every tag it was recorded under. Caller holds mu.
func (s *MemoryStore) forget(key string) {
	entry, ok := s.entries[key]
	if !ok {
		return
	}
	delete(s.entries, key)
	for _, tag := range entry.tags {
		set := s.index[tag]
		delete(set, key)
		if len(set) == 0 {
			delete(s.index, tag)
		}
	}
}

// sweep forgets every key whose ttl has passed. Caller holds mu.
func (s *MemoryStore) sweep(now time.Time) {
	for key, entry := range s.entries {
		if !entry.expires.IsZero() && !now.Before(entry.expires) {
			s.forget(key)
		}
	}
	s.lastSweep = now
}

// indexed reports how many keys and tags the index holds
func (s *MemoryStore) indexed() (keys, tags int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), len(s.index)
}
