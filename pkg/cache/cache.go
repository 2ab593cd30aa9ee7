// Package cache stores fetched family trees, person details and rendered
// artifacts so repeated loads skip the backend.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON envelope per key under a local directory (CLI)
//   - [RedisCache]: a shared Redis instance (the serve command)
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys come from a [Keyer]. [DefaultKeyer] hashes the inputs that change
// the cached value; [ScopedKeyer] prefixes another keyer so several
// backends can share one Redis database.
package cache

import (
	"context"
	"time"
)

// Time-to-live values per cached kind.
const (
	// TTLTree bounds how stale a fetched hierarchy may be.
	TTLTree = 10 * time.Minute

	// TTLPerson applies to person detail records.
	TTLPerson = 10 * time.Minute

	// TTLArtifact applies to rendered SVG, DOT, PNG and PDF output. Artifacts
	// are keyed by the hash of their inputs and never go stale.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// A miss is reported as (nil, false, nil). Errors are reserved for backend
// failures; callers generally treat them as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	// Clear removes all entries and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}
