package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerStore wraps a backend with a circuit breaker so an unreachable
// cache fails fast instead of adding a network timeout to every request.
// While open, every call returns gobreaker.ErrOpenState and the Layer falls
// through to the entity store.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker
}

// BreakerConfig mirrors the gobreaker settings used here
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32        // requests allowed while half-open
	Interval         time.Duration // closed-state counter reset period
	Timeout          time.Duration // open duration before half-open
	ConsecutiveFails uint32        // trips the breaker
}

// DefaultBreakerConfig trips after five consecutive backend errors
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "cache",
		MaxRequests:      1,
		Interval:         30 * time.Second,
		Timeout:          10 * time.Second,
		ConsecutiveFails: 5,
	}
}

// NewBreakerStore wraps next
func NewBreakerStore(next Store, cfg BreakerConfig, logger *slog.Logger) *BreakerStore {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.ConsecutiveFails
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("cache breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
	return &BreakerStore{next: next, cb: cb}
}

// Health reports the breaker state: "closed" while the backend answers,
// "open" or "half-open" while it is being isolated.
func (s *BreakerStore) Health() string {
	return s.cb.State().String()
}

type getResult struct {
	value []byte
	ok    bool
}

// Get reads through the breaker. While open it fails without calling the backend.
func (s *BreakerStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		v, ok, err := s.next.Get(ctx, key)
		return getResult{value: v, ok: ok}, err
	})
	if err != nil {
		return nil, false, err
	}
	r := res.(getResult)
	return r.value, r.ok, nil
}

// Set writes through the breaker
func (s *BreakerStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...Tag) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.next.Set(ctx, key, value, ttl, tags...)
	})
	return err
}

// Delete removes keys through the breaker
func (s *BreakerStore) Delete(ctx context.Context, keys ...string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.next.Delete(ctx, keys...)
	})
	return err
}

// Invalidate drops tagged keys through the breaker
func (s *BreakerStore) Invalidate(ctx context.Context, tags ...Tag) (int, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.next.Invalidate(ctx, tags...)
	})
	if err != nil {
		return 0, err
	}
	return res.(int), nil
}

// Reset flushes the backend through the breaker
func (s *BreakerStore) Reset(ctx context.Context) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.next.Reset(ctx)
	})
	return err
}
