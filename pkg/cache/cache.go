// Package cache provides response caching for the HTTP façade.
//
// Analyses are cheap relative to snapshot size, but the façade serves the
// same handful of queries on every selection, so serialized results are
// cached keyed by snapshot hash plus operation plus parameters. Keying on
// the snapshot hash makes invalidation structural: loading a new document
// changes the hash and every stale entry simply stops being referenced.
//
// Backends: in-memory with LRU eviction (the default), file-based (survives
// restarts of a single host), Redis (shared across replicas), and a no-op
// null cache for tests and --no-cache runs.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache stores serialized analysis results under opaque keys.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// ResultKey builds the cache key for one analysis result: the snapshot hash,
// the operation name, and its parameters, hashed together. Two snapshots
// never share a key, so reloads invalidate wholesale by construction.
func ResultKey(snapshotHash, operation string, params ...string) string {
	sum := sha256.Sum256([]byte(snapshotHash + "\x00" + operation + "\x00" + strings.Join(params, "\x00")))
	return "result:" + hex.EncodeToString(sum[:])
}

// Hash computes the SHA-256 hex digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
