// Package cache memoizes best-price selections in a durable key/value
// file. The file is loaded wholesale at process start and flushed at
// process end; load and flush failures degrade to an empty in-memory
// cache with a warning, never a fatal error.
package cache

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"plancost/core/types"
	"plancost/internal/errors"
	"plancost/internal/logging"
)

// FileCache is a durable price cache backed by one JSON file
type FileCache struct {
	path    string
	entries map[types.CacheKey]types.CacheEntry
	warn    []string
	dirty   bool
	log     *zap.Logger
	mu      sync.RWMutex
}

// storedEntry is the persisted pairing; the map key struct is not a
// valid JSON object key, so the file holds a flat list
type storedEntry struct {
	Key   types.CacheKey   `json:"key"`
	Entry types.CacheEntry `json:"entry"`
}

// Open loads the cache file at path. A missing, unreadable, or corrupt
// file yields an empty cache with a recorded warning.
func Open(path string) *FileCache {
	c := &FileCache{
		path:    path,
		entries: make(map[types.CacheKey]types.CacheEntry),
		log:     logging.With(zap.String("component", "price-cache")),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.degrade("cache load failed", err)
		}
		return c
	}

	var stored []storedEntry
	if err := json.Unmarshal(data, &stored); err != nil {
		c.degrade("cache file corrupt, starting empty", err)
		return c
	}
	for _, se := range stored {
		c.entries[se.Key] = se.Entry
	}
	return c
}

func (c *FileCache) degrade(msg string, cause error) {
	c.warn = append(c.warn, errors.CacheIO(msg, cause).Error())
	c.log.Warn(msg, zap.Error(cause))
}

// Lookup returns the memoized entry for key, if any
func (c *FileCache) Lookup(key types.CacheKey) (types.CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	return entry, ok
}

// Put stores or overwrites the entry for key
func (c *FileCache) Put(key types.CacheKey, entry types.CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
	c.dirty = true
}

// Reset clears all entries
func (c *FileCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[types.CacheKey]types.CacheEntry)
	c.dirty = true
}

// InvalidateCatalog drops entries selected from the given catalog key.
// Called after a forced refresh so stale winners are re-scored.
func (c *FileCache) InvalidateCatalog(service, region string, currency types.Currency) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.Service == service && key.Region == region && key.Currency == currency {
			delete(c.entries, key)
			c.dirty = true
		}
	}
}

// Size returns the number of cached entries
func (c *FileCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Warnings returns accumulated IO warnings
func (c *FileCache) Warnings() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string{}, c.warn...)
}

// Flush writes the cache back to disk in stable key order. Failures are
// downgraded to a warning; pricing never depends on a successful flush.
func (c *FileCache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.dirty {
		return
	}

	stored := make([]storedEntry, 0, len(c.entries))
	for key, entry := range c.entries {
		stored = append(stored, storedEntry{Key: key, Entry: entry})
	}
	sort.Slice(stored, func(i, j int) bool {
		return stored[i].Key.String() < stored[j].Key.String()
	})

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		c.degrade("cache flush failed", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		c.degrade("cache flush failed", err)
		return
	}
	if err := os.WriteFile(c.path, data, 0644); err != nil {
		c.degrade("cache flush failed", err)
		return
	}
	c.dirty = false
}
