// Package cache stores rendered export artifacts.
//
// Laying out an SVG runs the embedded Graphviz engine, which is slow next to
// producing the DOT text it starts from. Artifacts are therefore cached under
// a key derived from the format and the exact DOT input, so an unchanged
// scene is never laid out twice:
//
//	key := cache.Key("svg", dot)
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data, nil
//	}
//
// Three backends are provided: [FileCache] for the CLI, [Memory] for a
// long-running server and [NullCache] to disable caching.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte store with optional per-entry expiry. A miss is reported
// with ok=false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key returns the cache key of an artifact rendered in format from input.
func Key(format, input string) string {
	return format + ":" + Hash([]byte(input))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// expired reports whether an entry stamped with expiresAt is stale at now.
// A zero stamp never expires.
func expired(expiresAt, now time.Time) bool {
	return !expiresAt.IsZero() && now.After(expiresAt)
}

func expiry(ttl time.Duration, now time.Time) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
