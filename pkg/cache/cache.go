// Package cache provides result caching for graph evaluations.
//
// Evaluating a described graph is deterministic for the builtin ops
// (noise takes an explicit seed), so the server and CLI can cache the
// output value keyed by a hash of the graph description. Three backends
// are provided:
//   - FileCache: file-based storage for CLI usage
//   - RedisCache: Redis-backed storage for multi-instance deployments
//   - NullCache: no-op cache for tests or when caching is disabled
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores opaque byte payloads under string keys with optional
// expiration. Implementations must treat a missing key as a miss, not
// an error.
type Cache interface {
	// Get retrieves a value. The second result reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A non-positive ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// DefaultTTL is the expiration applied to cached evaluation results.
const DefaultTTL = 24 * time.Hour

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ResultKey builds the cache key for the evaluation result of a graph
// description, given the description's canonical JSON bytes.
func ResultKey(descJSON []byte) string {
	return "result:" + Hash(descJSON)
}
