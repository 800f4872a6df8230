package palette

import (
	"image"
	"sync"
)

// Cache is a concurrency-safe palette cache shared by batch workers. The
// empty path stands for the built-in gradient.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	size  int
}

type cacheEntry struct {
	img *image.NRGBA
	err error
}

// NewCache creates a cache whose built-in palette is size pixels square.
func NewCache(size int) *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		size:  size,
	}
}

// Get loads and caches the palette at path. Failed loads are cached too.
func (c *Cache) Get(path string) (*image.NRGBA, error) {
	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.img, entry.err
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	var entry cacheEntry
	if path == "" {
		entry.img = Gradient(c.size)
	} else {
		entry.img, entry.err = Load(path)
	}

	// Write lock with double-check
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, exists := c.items[path]; exists {
		return existing.img, existing.err
	}
	c.items[path] = &entry
	return entry.img, entry.err
}
