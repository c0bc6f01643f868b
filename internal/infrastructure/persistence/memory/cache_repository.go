// Package memory provides an in-process cache repository used when Redis
// is disabled and in tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mealsync/api/internal/infrastructure/persistence/redis"
	"github.com/mealsync/api/internal/ports/outbound"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// CacheRepository implements the cache repository interface in memory
type CacheRepository struct {
	mu       sync.RWMutex
	entries  map[string]entry
	counters map[string]int64
}

// NewCacheRepository creates a new in-memory cache repository
func NewCacheRepository() outbound.CacheRepository {
	return &CacheRepository{
		entries:  make(map[string]entry),
		counters: make(map[string]int64),
	}
}

// Get retrieves a value from cache
func (r *CacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()

	if !ok || e.expired(time.Now()) {
		return nil, redis.ErrCacheMiss
	}
	return e.value, nil
}

// Set stores a value in cache with TTL
func (r *CacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	r.mu.Lock()
	r.entries[key] = entry{value: value, expiresAt: expiresAt}
	r.mu.Unlock()
	return nil
}

// Delete removes a value from cache
func (r *CacheRepository) Delete(ctx context.Context, key string) error {
	r.mu.Lock()
	delete(r.entries, key)
	delete(r.counters, key)
	r.mu.Unlock()
	return nil
}

// Exists checks if a key exists in cache
func (r *CacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	r.mu.RLock()
	e, ok := r.entries[key]
	r.mu.RUnlock()
	return ok && !e.expired(time.Now()), nil
}

// Increment atomically increments a counter
func (r *CacheRepository) Increment(ctx context.Context, key string) (int64, error) {
	r.mu.Lock()
	r.counters[key]++
	n := r.counters[key]
	r.mu.Unlock()
	return n, nil
}
