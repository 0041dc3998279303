package cache

import "time"

// CacheService is the caching behavior the catalog client depends on.
// Implementations are safe for concurrent use.
type CacheService interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(key string) (interface{}, bool)

	// Set stores a value for the given duration.
	Set(key string, value interface{}, duration time.Duration)

	// Delete removes a single key.
	Delete(key string)

	// Flush removes all items.
	Flush()
}
