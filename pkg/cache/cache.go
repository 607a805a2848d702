// Package cache stores parsed glyph sources keyed by content fingerprint.
//
// Importing a source file means parsing XML, flattening shapes and
// normalizing outlines. The result depends only on the file bytes, so it is
// cached under the file's SHA-256 fingerprint and reused across builds and
// machines:
//
//   - [FileCache] keeps entries under the user cache directory (CLI default)
//   - [RedisCache] shares entries between machines, for CI farms
//   - [NullCache] disables caching
//
// Keys are produced by a [Keyer] so backends can be namespaced with
// [NewScopedKeyer] without touching call sites.
package cache

import (
	"context"
	"time"
)

// TTLSource is how long a parsed source stays cached.
const TTLSource = 30 * 24 * time.Hour

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	// Get returns the value for key. The boolean is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// SourceKeyOpts distinguishes cache entries derived from the same bytes.
type SourceKeyOpts struct {
	// Kind is "image" or "font".
	Kind string `json:"kind"`
	// Version changes when the parsed representation changes.
	Version int `json:"version"`
}

// Keyer builds cache keys.
type Keyer interface {
	SourceKey(fingerprint string, opts SourceKeyOpts) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SourceKey returns "source:<sha256(fingerprint, opts)>".
func (DefaultKeyer) SourceKey(fingerprint string, opts SourceKeyOpts) string {
	return hashKey("source", fingerprint, opts)
}
