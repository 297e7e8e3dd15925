// Package cache stores derived artifacts keyed by the documents they were
// derived from.
//
// Rendering a large expedition graph with Graphviz is slow compared to
// loading the document, so the CLI caches rendered DOT and SVG output under
// a key built from the document hash and the render options (see [Keyer]).
// Changing the document changes its hash, so stale entries are never hit.
//
// Three backends implement [Cache]:
//   - [FileCache] stores entries as files under a directory
//   - [RedisCache] stores entries in Redis with native expiry
//   - [NullCache] never stores anything
//
// The package also provides [RetryWithBackoff], used by the remote document
// stores to retry transient failures.
package cache

import (
	"context"
	"time"

	"github.com/matzehuels/expedition/pkg/observability"
)

// Cache is a byte-oriented key/value cache with optional expiry.
type Cache interface {
	// Get returns the cached data and whether the key was present.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero keeps the entry until it is
	// deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// GetOrSet returns the cached value for key, or calls fill, stores its
// result and returns it. Cache read and write failures are not fatal: fill
// is used and its result returned. Hits, misses and writes are reported to
// the cache hooks under keyType.
func GetOrSet(ctx context.Context, c Cache, keyType, key string, ttl time.Duration, fill func() ([]byte, error)) ([]byte, bool, error) {
	hooks := observability.Cache()
	if data, hit, err := c.Get(ctx, key); err == nil && hit {
		hooks.OnCacheHit(ctx, keyType)
		return data, true, nil
	}
	hooks.OnCacheMiss(ctx, keyType)

	data, err := fill()
	if err != nil {
		return nil, false, err
	}
	if err := c.Set(ctx, key, data, ttl); err == nil {
		hooks.OnCacheSet(ctx, keyType, len(data))
	}
	return data, false, nil
}
