package user

import (
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/fdilabs/LevelGate_Go/internal/domain"
)

// CacheSchemaVersion is the current version of the cache schema
// Increment this when the cached data structure changes to auto-invalidate old entries
const CacheSchemaVersion = "1.0"

// CacheConfig controls the user lookup cache.
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// DefaultCacheConfig returns the default cache sizing.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Size: 1024,
		TTL:  5 * time.Minute,
	}
}

// cachedUserEntry wraps a user with version metadata for cache invalidation
type cachedUserEntry struct {
	Version  string       `json:"version"`
	User     *domain.User `json:"user"`
	CachedAt time.Time    `json:"cached_at"`
}

// userCache provides an in-memory LRU cache for user-by-telegram-id lookups
// with time-based expiration and version-based invalidation to prevent stale data.
type userCache struct {
	lru *expirable.LRU[string, *cachedUserEntry]
}

// newUserCache creates a new user cache with the specified size and TTL.
func newUserCache(size int, ttl time.Duration) *userCache {
	return &userCache{
		lru: expirable.NewLRU[string, *cachedUserEntry](size, nil, ttl),
	}
}

func cacheKey(telegramID int64) string {
	return strconv.FormatInt(telegramID, 10)
}

// Get retrieves a user from the cache.
// Returns (user, true) if found and version matches.
// Automatically invalidates entries with mismatched versions.
func (c *userCache) Get(telegramID int64) (*domain.User, bool) {
	key := cacheKey(telegramID)
	entry, found := c.lru.Get(key)
	if !found {
		return nil, false
	}

	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(key)
		return nil, false
	}

	return entry.User, true
}

// Set stores a user in the cache with current schema version.
func (c *userCache) Set(telegramID int64, user *domain.User) {
	entry := &cachedUserEntry{
		Version:  CacheSchemaVersion,
		User:     user,
		CachedAt: time.Now(),
	}
	c.lru.Add(cacheKey(telegramID), entry)
}

// Invalidate removes a user from the cache.
// Must be called whenever the user record is mutated.
func (c *userCache) Invalidate(telegramID int64) {
	c.lru.Remove(cacheKey(telegramID))
}

// Clear removes all entries from the cache.
func (c *userCache) Clear() {
	c.lru.Purge()
}

// Len returns the number of cached entries.
func (c *userCache) Len() int {
	return c.lru.Len()
}
