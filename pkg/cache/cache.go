// Package cache stores rendered diagram artifacts by content key.
//
// Graphviz layout is the slowest step of producing an SVG. Views whose
// positions and snapshot did not change produce the same DOT source, so the
// SVG is cached under a hash of that source:
//
//	svg, err := cache.Memo(ctx, c, cache.Key("svg", dot), time.Hour, func() ([]byte, error) {
//		return nodelink.RenderSVG(dot)
//	})
//
// Backends: [Memory] for the server, [File] for the CLI, [Redis] for
// servers sharing one cache, and [Null] to disable caching.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte store with optional expiry. A miss is reported by the
// boolean, not by an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Key builds a cache key for an artifact kind and its source.
func Key(kind, source string) string {
	return kind + ":" + Hash([]byte(source))
}

// Memo returns the cached value for key, or computes, stores and returns it.
// Cache errors fall through to compute; a failed Set is ignored.
func Memo(ctx context.Context, c Cache, key string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, error) {
	if c == nil {
		return compute()
	}
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		return data, nil
	}
	data, err := compute()
	if err != nil {
		return nil, err
	}
	_ = c.Set(ctx, key, data, ttl)
	return data, nil
}

// Null never stores anything.
type Null struct{}

func (Null) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (Null) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Null) Delete(context.Context, string) error                     { return nil }
func (Null) Close() error                                             { return nil }

var _ Cache = Null{}
