// Package interfaces defines the core interfaces used throughout the application.
// These interfaces allow for dependency injection and make the code testable.
package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key does not exist or has expired
var ErrCacheMiss = errors.New("cache: key not found")

// Cache defines the interface for cache operations.
// Implementations are the in-memory go-cache store and Redis; the HTTP layer
// keeps flash messages in it between a redirect and the next page render.
//
// Example usage:
//
//	// Store a value
//	err := cache.Set(ctx, "flash:3f2a", payload, 5*time.Minute)
//
//	// Retrieve a value
//	data, err := cache.Get(ctx, "flash:3f2a")
//	if errors.Is(err, interfaces.ErrCacheMiss) {
//		// nothing pending
//	}
//
//	// Delete a value
//	err = cache.Delete(ctx, "flash:3f2a")
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns the cached data as []byte or ErrCacheMiss if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the given key and TTL.
	// If ttl is 0, the value should be stored indefinitely.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error
}