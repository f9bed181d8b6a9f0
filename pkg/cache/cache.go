// Package cache stores rendered diagrams so repeated requests for the same
// graph skip Graphviz.
//
// Keys are built with [Key] from the output format and the source that
// determines the result, typically the DOT text of a graph:
//
//	key := cache.Key("svg", dot)
//	if data, ok, _ := c.Get(ctx, key); ok {
//	    return data, nil
//	}
//
// Three backends exist: [FileCache] for the CLI, [RedisCache] for a
// serve process sharing renders with other instances, and [NullCache]
// when caching is off.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional per-entry expiry.
// A TTL of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
