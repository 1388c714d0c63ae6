package parser

import (
	"io/fs"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/standardbeagle/pyscope/internal/types"
)

// Cache holds extracted modules keyed by file path so repeated scans and
// watch-mode rebuilds only re-parse files that changed. Validity is checked
// by size and mtime first; when stat data moved but content may be the same
// (checkout churn, touch), an xxhash of the content decides.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	size    int64
	modTime int64
	hash    uint64
	module  *types.ModuleInfo
}

// NewCache creates an empty module cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*cacheEntry)}
}

// Lookup returns the cached module for path when it is still valid.
func (c *Cache) Lookup(path string, info fs.FileInfo, content []byte) (*types.ModuleInfo, bool) {
	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if info != nil && entry.size == info.Size() && entry.modTime == info.ModTime().UnixNano() {
		return entry.module, true
	}

	if xxhash.Sum64(content) != entry.hash {
		return nil, false
	}

	// Same content, new stat data; refresh so the fast path works next time.
	if info != nil {
		c.mu.Lock()
		entry.size = info.Size()
		entry.modTime = info.ModTime().UnixNano()
		c.mu.Unlock()
	}
	return entry.module, true
}

// Store records a freshly extracted module.
func (c *Cache) Store(path string, info fs.FileInfo, content []byte, module *types.ModuleInfo) {
	entry := &cacheEntry{
		hash:   xxhash.Sum64(content),
		module: module,
	}
	if info != nil {
		entry.size = info.Size()
		entry.modTime = info.ModTime().UnixNano()
	}

	c.mu.Lock()
	c.entries[path] = entry
	c.mu.Unlock()
}

// Invalidate drops one path from the cache.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// Len reports the number of cached modules.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
