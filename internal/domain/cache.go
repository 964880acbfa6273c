package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the cache.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the cache.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache is the key/value store used for the leaderboard and finalization leases.
type Cache interface {
	// Get returns ErrCacheMiss if the key is not found.
	Get(ctx context.Context, key string) (string, error)
	// Incr atomically adds one to an integer key, creating it at 1.
	Incr(ctx context.Context, key string) (int64, error)
	// SetNX stores value only if key is absent and reports whether it did.
	SetNX(ctx context.Context, key string, value string, expiration time.Duration) (bool, error)
	// Delete does not fail when the key is absent.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error

	// HGet returns ErrCacheMiss if the field is not found.
	HGet(ctx context.Context, key, field string) (string, error)
	HSet(ctx context.Context, key string, field string, value string) error
	Expire(ctx context.Context, key string, expiration time.Duration) error
}
