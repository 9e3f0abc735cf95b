package cache

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts cache operations by outcome
type Metrics struct {
	ops         *prometheus.CounterVec
	invalidated prometheus.Counter
}

// NewMetrics registers the cache collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "resumebank",
				Subsystem: "cache",
				Name:      "operations_total",
				Help:      "Cache operations by operation and result",
			},
			[]string{"op", "result"},
		),
		invalidated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "resumebank",
				Subsystem: "cache",
				Name:      "invalidated_keys_total",
				Help:      "Keys dropped through tag invalidation",
			},
		),
	}
	reg.MustRegister(m.ops, m.invalidated)
	return m
}

// InstrumentedStore records Metrics around another Store
type InstrumentedStore struct {
	next    Store
	metrics *Metrics
}

// Instrument wraps next
func Instrument(next Store, metrics *Metrics) *InstrumentedStore {
	return &InstrumentedStore{next: next, metrics: metrics}
}

func (s *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok, err := s.next.Get(ctx, key)
	switch {
	case err != nil:
		s.metrics.ops.WithLabelValues("get", "error").Inc()
	case ok:
		s.metrics.ops.WithLabelValues("get", "hit").Inc()
	default:
		s.metrics.ops.WithLabelValues("get", "miss").Inc()
	}
	return v, ok, err
}

func (s *InstrumentedStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...Tag) error {
	err := s.next.Set(ctx, key, value, ttl, tags...)
	s.metrics.ops.WithLabelValues("set", result(err)).Inc()
	return err
}

func (s *InstrumentedStore) Delete(ctx context.Context, keys ...string) error {
	err := s.next.Delete(ctx, keys...)
	s.metrics.ops.WithLabelValues("delete", result(err)).Inc()
	return err
}

func (s *InstrumentedStore) Invalidate(ctx context.Context, tags ...Tag) (int, error) {
	n, err := s.next.Invalidate(ctx, tags...)
	s.metrics.ops.WithLabelValues("invalidate", result(err)).Inc()
	s.metrics.invalidated.Add(float64(n))
	return n, err
}

func (s *InstrumentedStore) Reset(ctx context.Context) error {
	err := s.next.Reset(ctx)
	s.metrics.ops.WithLabelValues("reset", result(err)).Inc()
	return err
}

// Health forwards the wrapped store's state, HealthClosed when it reports none
func (s *InstrumentedStore) Health() string {
	return healthOf(s.next)
}

func healthOf(store Store) string {
	if hr, ok := store.(HealthReporter); ok {
		return hr.Health()
	}
	return HealthClosed
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
