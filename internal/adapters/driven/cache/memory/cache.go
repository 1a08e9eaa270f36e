// Package memory provides an in-process vision cache. Entries are lost
// when the process exits.
package memory

import (
	"sync"

	"github.com/custodia-labs/labelscan/internal/adapters/driven/cache"
	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.VisionCache = (*Cache)(nil)

// Cache is a map-backed vision cache keyed by image hash.
type Cache struct {
	mu       sync.RWMutex
	entries  map[string][]domain.Code
	counters cache.Counters
}

// New creates an empty in-memory cache.
func New() *Cache {
	return &Cache{entries: make(map[string][]domain.Code)}
}

// Get returns a copy of the cached codes for the image.
func (c *Cache) Get(image []byte) ([]domain.Code, bool) {
	key := cache.Key(image)

	c.mu.RLock()
	codes, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.counters.Miss()
		return nil, false
	}
	c.counters.Hit()
	return append([]domain.Code{}, codes...), true
}

// Put stores a copy of the codes for the image.
func (c *Cache) Put(image []byte, codes []domain.Code) {
	key := cache.Key(image)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = append([]domain.Code{}, codes...)
}

// Stats returns counters and the entry count.
func (c *Cache) Stats() domain.CacheStats {
	c.mu.RLock()
	n := len(c.entries)
	c.mu.RUnlock()
	return c.counters.Stats(n)
}

// Clear removes every entry.
func (c *Cache) Clear() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := len(c.entries)
	c.entries = make(map[string][]domain.Code)
	return n, nil
}
