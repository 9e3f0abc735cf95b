package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Layer applies the read-through / write-invalidate protocol on top of a Store.
// Backend failures are logged and never surface to callers.
type Layer struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

// NewLayer creates a layer whose entries live for ttl
func NewLayer(store Store, ttl time.Duration, logger *slog.Logger) *Layer {
	return &Layer{store: store, ttl: ttl, logger: logger}
}

// ComputeFn produces a fresh value and the tags it depends on.
// A non-nil error is an infrastructure fault: nothing is cached.
type ComputeFn[T any] func(ctx context.Context) (T, []Tag, error)

// Remember returns the cached value at key, or computes, stores and returns it.
// No stampede protection: concurrent misses all compute and the last Set wins.
func Remember[T any](ctx context.Context, l *Layer, key string, compute ComputeFn[T]) (T, error) {
	return RememberFor(ctx, l, key, l.ttl, compute)
}

// RememberFor is Remember with an explicit ttl
func RememberFor[T any](ctx context.Context, l *Layer, key string, ttl time.Duration, compute ComputeFn[T]) (T, error) {
	if raw, ok, err := l.store.Get(ctx, key); err != nil {
		l.logger.Warn("cache get failed, computing directly", "key", key, "error", err)
	} else if ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			l.logger.Debug("cache hit", "key", key)
			return cached, nil
		}
		l.logger.Warn("cache entry undecodable, recomputing", "key", key)
	}

	value, tags, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		l.logger.Warn("cache value not encodable", "key", key, "error", err)
		return value, nil
	}
	if err := l.store.Set(ctx, key, raw, ttl, tags...); err != nil {
		l.logger.Warn("cache set failed", "key", key, "error", err)
	}
	return value, nil
}

// Invalidate drops every key depending on any of tags.
// Failures are logged; the write that triggered them already succeeded.
func (l *Layer) Invalidate(ctx context.Context, tags ...Tag) {
	if len(tags) == 0 {
		return
	}
	n, err := l.store.Invalidate(ctx, tags...)
	if err != nil {
		l.logger.Warn("cache invalidation failed", "tags", tags, "error", err)
		return
	}
	l.logger.Debug("cache invalidated", "tags", tags, "keys", n)
}

// Health reports the backend state, HealthClosed when the backend is in use
func (l *Layer) Health() string {
	return healthOf(l.store)
}

// Reset flushes the whole cache. Unlike reads, the caller asked for this
// explicitly, so the error is returned.
func (l *Layer) Reset(ctx context.Context) error {
	if err := l.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset cache: %w", err)
	}
	l.logger.Info("cache reset")
	return nil
}
