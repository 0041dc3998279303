package cache

import (
	"time"

	"storefront-client/pkg/cache"

	gocache "github.com/patrickmn/go-cache"
)

// memoryCache backs CacheService with an in-process store. Catalog responses
// are the only thing cached in this client, so there is no eviction pressure
// beyond TTL expiry.
type memoryCache struct {
	store *gocache.Cache
}

// NewMemoryCache creates an in-memory cache service.
// defaultExpiration is the TTL applied when Set receives a zero duration;
// cleanupInterval is how often expired items are scanned out.
func NewMemoryCache(defaultExpiration, cleanupInterval time.Duration) cache.CacheService {
	return &memoryCache{
		store: gocache.New(defaultExpiration, cleanupInterval),
	}
}

func (c *memoryCache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

func (c *memoryCache) Set(key string, value interface{}, duration time.Duration) {
	c.store.Set(key, value, duration)
}

func (c *memoryCache) Delete(key string) {
	c.store.Delete(key)
}

func (c *memoryCache) Flush() {
	c.store.Flush()
}
