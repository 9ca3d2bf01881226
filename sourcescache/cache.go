// Package sourcescache implements the import resolution cache spec.md
// §4.4.2/§4.4.5 describes as memoized by dependency id-string across one
// batch: a Cache interface with an in-process map-backed default, and a
// redis-backed implementation for reuse across separate process
// invocations.
//
// Grounded on the teacher's registry/storage/cache package split between
// cache/memory (an in-process provider) and cache/redis (a redis-backed
// provider implementing the same interface) — both registered against one
// BlobDescriptorCacheProvider contract, the model for Cache here.
package sourcescache

import (
	"context"
	"sync"

	"github.com/scopeengine/core/internal/sourcesrepo"
)

// Cache memoizes a resolved sourcesrepo.ComponentObjects bundle by
// dependency id-string (scope.BitId.Key()).
type Cache interface {
	Get(ctx context.Context, key string) (sourcesrepo.ComponentObjects, bool, error)
	Set(ctx context.Context, key string, value sourcesrepo.ComponentObjects) error
}

// MemoryCache is the default Cache: an unbounded in-process map, scoped to
// one Scope instance's lifetime. Unbounded is appropriate here since a
// single putMany/importMany batch is bounded by the size of the request,
// unlike the teacher's blob descriptor cache which lives for a whole
// server process and needs LRU eviction.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]sourcesrepo.ComponentObjects
}

// NewMemoryCache constructs an empty MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: map[string]sourcesrepo.ComponentObjects{}}
}

func (c *MemoryCache) Get(ctx context.Context, key string) (sourcesrepo.ComponentObjects, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value sourcesrepo.ComponentObjects) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}
