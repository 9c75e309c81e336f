package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/anatole0000/book-store/internal/domain"
)

// CacheSchemaVersion is the current version of the cache schema
// Increment this when the cached data structure changes to auto-invalidate old entries
const CacheSchemaVersion = "1.0"

// cachedBookEntry wraps a book with version metadata for cache invalidation
type cachedBookEntry struct {
	Version  string       `json:"version"`
	Book     *domain.Book `json:"book"`
	CachedAt time.Time    `json:"cached_at"`
}

// bookCache provides an in-memory LRU cache for single-book lookups with
// time-based expiration. Stock decrements from order placement do not pass
// through the catalog, so the TTL bounds how stale a cached stock figure can
// get.
type bookCache struct {
	lru *expirable.LRU[uuid.UUID, *cachedBookEntry]
}

// newBookCache creates a new book cache with the specified size and TTL
func newBookCache(size int, ttl time.Duration) *bookCache {
	return &bookCache{
		lru: expirable.NewLRU[uuid.UUID, *cachedBookEntry](size, nil, ttl),
	}
}

// Get retrieves a book from the cache.
// Returns (nil, false) if not in cache, expired, or version mismatch.
func (c *bookCache) Get(id uuid.UUID) (*domain.Book, bool) {
	entry, found := c.lru.Get(id)
	if !found {
		return nil, false
	}
	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(id)
		return nil, false
	}
	return entry.Book, true
}

// Set stores a book in the cache with current schema version
func (c *bookCache) Set(book *domain.Book) {
	c.lru.Add(book.ID, &cachedBookEntry{
		Version:  CacheSchemaVersion,
		Book:     book,
		CachedAt: time.Now(),
	})
}

// Invalidate removes a book from the cache
func (c *bookCache) Invalidate(id uuid.UUID) {
	c.lru.Remove(id)
}

// Clear removes all entries from the cache
func (c *bookCache) Clear() {
	c.lru.Purge()
}
