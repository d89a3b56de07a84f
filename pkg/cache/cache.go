// Package cache stores annealing results keyed by their inputs.
//
// A run is fully determined by its catalog, starting expression and
// schedule (including the seed), so a repeated run can be answered from
// the cache without searching again. Three backends are provided:
// [FileCache] for the CLI, [RedisCache] for the HTTP server, and
// [NullCache] when caching is disabled.
package cache

import (
	"context"
	"time"
)

// TTL values for cached entries.
const (
	// TTLResult is how long an annealing result stays cached. Results are
	// deterministic, so the TTL only bounds disk and memory growth.
	TTLResult = 30 * 24 * time.Hour

	// TTLCost is how long a single-expression evaluation stays cached.
	TTLCost = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
// It backs "floorplan cache clear".
type Clearer interface {
	// Clear deletes all entries and reports how many were removed.
	Clear(ctx context.Context) (int, error)
}
