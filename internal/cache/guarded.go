package cache

import (
	"context"
	"errors"
	"time"

	"github.com/ruslano69/launchdash/pkg/resilience"
)

// Guarded puts a circuit breaker in front of a remote cache. While the
// breaker is open, Get and Set fail fast with resilience.ErrOpen instead of
// waiting on a dead backend. A miss is not a failure.
type Guarded struct {
	inner   Cache
	breaker *resilience.Breaker
}

// NewGuarded wraps inner with breaker.
func NewGuarded(inner Cache, breaker *resilience.Breaker) *Guarded {
	return &Guarded{inner: inner, breaker: breaker}
}

func (g *Guarded) Get(ctx context.Context, key string) ([]byte, error) {
	var val []byte
	var miss bool
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		v, err := g.inner.Get(ctx, key)
		if errors.Is(err, ErrMiss) {
			miss = true
			return nil
		}
		val = v
		return err
	})
	if err != nil {
		return nil, err
	}
	if miss {
		return nil, ErrMiss
	}
	return val, nil
}

func (g *Guarded) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.inner.Set(ctx, key, val, ttl)
	})
}

// Ping bypasses the breaker so readiness reflects the backend itself.
func (g *Guarded) Ping(ctx context.Context) error { return g.inner.Ping(ctx) }

func (g *Guarded) Close() error { return g.inner.Close() }

// State reports the breaker state.
func (g *Guarded) State() resilience.State { return g.breaker.State() }
