package infra

import (
	"context"
	"fmt"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/ruslano69/launchdash/internal/cache"
	"github.com/ruslano69/launchdash/pkg/resilience"
)

// Infra holds all live infrastructure handles for the running service.
type Infra struct {
	Cache cache.Cache

	// dev-mode internal instance; nil in production
	mini *miniredis.Miniredis
}

// Setup initialises the render cache.
//   - dev=true: the redis cache runs on an in-process miniredis, whatever cache.type says.
//   - dev=false: the backend named by cache.type; redis is pinged before use.
func Setup(ctx context.Context, cfg *Config, dev bool) (*Infra, error) {
	inf := &Infra{}

	switch {
	case dev:
		var err error
		inf.mini, err = miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("infra: miniredis: %w", err)
		}
		rc := cache.NewRedis(redis.NewClient(&redis.Options{Addr: inf.mini.Addr()}))
		if inf.Cache, err = guard(rc, cfg.Cache.Breaker); err != nil {
			inf.Close()
			return nil, err
		}
		log.Info().Str("redis", inf.mini.Addr()).Msg("dev: in-process miniredis started")

	case cfg.Cache.Type == CacheRedis:
		rc := cache.NewRedis(redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		}))
		var err error
		if inf.Cache, err = guard(rc, cfg.Cache.Breaker); err != nil {
			return nil, err
		}

	case cfg.Cache.Type == CacheNone:
		inf.Cache = cache.Noop{}

	default:
		inf.Cache = cache.NewMemory(cfg.Cache.MaxEntries)
	}

	if err := inf.Cache.Ping(ctx); err != nil {
		inf.Close()
		return nil, fmt.Errorf("infra: cache ping: %w", err)
	}
	return inf, nil
}

// guard wraps a remote cache in a circuit breaker that logs its transitions.
func guard(c cache.Cache, cfg resilience.Config) (cache.Cache, error) {
	cfg.OnStateChange = func(name string, from, to resilience.State) {
		log.Warn().Str("breaker", name).Stringer("from", from).Stringer("to", to).Msg("render cache breaker state changed")
	}
	b, err := resilience.New(cfg)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("infra: cache breaker: %w", err)
	}
	log.Info().
		Str("breaker", b.Name()).
		Uint32("max_failures", cfg.MaxFailures).
		Dur("cooldown", cfg.Cooldown).
		Msg("render cache guarded by circuit breaker")
	return cache.NewGuarded(c, b), nil
}

// Close releases all infrastructure resources.
func (inf *Infra) Close() {
	if inf.Cache != nil {
		_ = inf.Cache.Close()
	}
	if inf.mini != nil {
		inf.mini.Close()
	}
}
