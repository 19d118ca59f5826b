// Package cache provides artifact caching for rendered keymaps.
//
// Rendering SVG is cheap, but converting to PNG or PDF shells out to
// rsvg-convert on every run. The cache keys converted artifacts by the
// content hash of the source document plus the render options, so an
// unchanged keymap skips the conversion entirely.
package cache

import (
	"context"
	"time"
)

// Cache stores rendered artifacts keyed by content hash.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// ArtifactKey builds the cache key for a rendered artifact from the source
// document hash and the options that affect the output bytes. layer is the
// single-layer restriction, empty for the full board.
func ArtifactKey(docHash, layer, format string, scale float64) string {
	return hashKey("artifact", docHash, layer, format, scale)
}
