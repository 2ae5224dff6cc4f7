// Package cache stores solved lines outside the solver core.
//
// The line solver itself is a pure function and keeps no state between
// calls. Callers that solve the same lines repeatedly (the CLI across runs,
// the HTTP server across requests) wrap it with a [Cache] keyed by a [Keyer].
//
// # Backends
//
//   - [NullCache]: stores nothing, used with --no-cache and in tests
//   - [FileCache]: JSON files under the XDG cache directory, for the CLI
//   - [RedisCache]: shared cache for several server instances
//   - [MongoCache]: document store with a TTL index
//
// All backends treat expired or undecodable entries as misses.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and true, or nil and false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer derives cache keys for solved lines.
type Keyer interface {
	// LineKey returns the key for one solve of (size, blocks) with the given
	// known cells. known may be empty for an unconstrained solve.
	LineKey(size int, blocks []int, known string) string
}

// DefaultKeyer hashes line inputs into "line:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LineKey implements Keyer.
func (DefaultKeyer) LineKey(size int, blocks []int, known string) string {
	if blocks == nil {
		blocks = []int{}
	}
	return hashKey("line", size, blocks, known)
}
