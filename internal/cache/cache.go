// Package cache stores rendered chart images keyed by dataset, output, format
// and selection. Every backend is best-effort: callers treat errors as misses.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zeebo/xxh3"
)

const keyPrefix = "launchdash:render:"

// ErrMiss is returned by Get when the key is absent or expired.
var ErrMiss = errors.New("cache miss")

// Cache is a byte store with per-entry TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

// Key builds the cache key for a rendered chart. The selection is hashed so
// keys stay short whatever the site name.
func Key(fingerprint uint64, output, format, selection string) string {
	return fmt.Sprintf("%s%016x:%s:%s:%016x", keyPrefix, fingerprint, output, format, xxh3.HashString(selection))
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, error)              { return nil, ErrMiss }
func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Noop) Ping(context.Context) error                               { return nil }
func (Noop) Close() error                                             { return nil }
