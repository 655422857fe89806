package cache

import (
	"context"
	"fmt"
	"time"

	"SalesDriveSync/internal/domain"
)

// Cache holds derived catalog presentations and one-time trigger tokens.
type Cache interface {
	// Get retrieves a value by key. Returns ErrCacheMiss if not found.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value by key.
	Delete(ctx context.Context, key string) error

	// Take removes the key and reports whether it was present.
	Take(ctx context.Context, key string) (bool, error)

	// GetOrSet retrieves a value or computes and stores it if missing.
	GetOrSet(ctx context.Context, key string, ttl time.Duration, fn func() ([]byte, error)) ([]byte, error)

	Close() error
}

// CacheError is a constant error type for cache sentinels.
type CacheError string

func (e CacheError) Error() string { return string(e) }

const (
	// ErrCacheMiss indicates the key was not found in cache.
	ErrCacheMiss CacheError = "cache miss"
)

// PresentationKey is where the price/stock view of an entry is cached.
func PresentationKey(id domain.EntryID) string {
	return fmt.Sprintf("salesdrive:entry:%d:presentation", id)
}

// TokenKey is where a one-time trigger token is stored.
func TokenKey(token string) string {
	return "salesdrive:trigger-token:" + token
}
