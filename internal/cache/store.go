// Package cache is the read-through, tag-invalidated front cache for
// bank, folder and résumé reads.
//
// Every Set records the tags the value depends on. A write later calls
// Invalidate with the tags of the resources it touched and the store drops
// every key recorded under any of them.
package cache

import (
	"context"
	"time"
)

// Tag names an abstract resource a cached value depends on
type Tag string

// Store is the backend contract shared by the memory and redis backends
type Store interface {
	// Get returns the stored bytes. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value for ttl and records key under each tag
	Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...Tag) error

	// Delete removes keys directly
	Delete(ctx context.Context, keys ...string) error

	// Invalidate removes every key recorded under any of the tags and
	// returns how many keys were dropped
	Invalidate(ctx context.Context, tags ...Tag) (int, error)

	// Reset flushes everything owned by this store
	Reset(ctx context.Context) error
}

// HealthReporter is implemented by stores that can report backend health.
// HealthClosed means requests reach the backend.
type HealthReporter interface {
	Health() string
}

// HealthClosed is the state of a store whose backend is reachable
const HealthClosed = "closed"
