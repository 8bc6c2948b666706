// Package interfaces defines the contracts between the article pipeline and its
// collaborators. Core packages depend only on these types.
package interfaces

import (
	"context"
	"time"
)

// Cache defines the interface for cache operations.
// Implementations are in-memory (go-cache), Redis or SQLite.
//
// Example usage:
//
//	cache := someCache // implements Cache interface
//
//	err := cache.Set(ctx, "preview:https://example.com", data, 24*time.Hour)
//	data, err := cache.Get(ctx, "preview:https://example.com")
//	if err != nil {
//		// miss
//	}
type Cache interface {
	// Get retrieves a value from the cache by key.
	// Returns the cached data as []byte or an error if the key doesn't exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with the given key and TTL.
	// If ttl is 0, the value should be stored indefinitely.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache by key.
	// Returns nil if the key doesn't exist.
	Delete(ctx context.Context, key string) error
}