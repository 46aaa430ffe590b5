package scan

import (
	"os"
	"sync"
	"time"

	"github.com/danpilch/bees-exporter/pkg/status"
)

type cacheEntry struct {
	modTime  time.Time
	size     int64
	snapshot *status.Snapshot
	issues   []status.Issue
}

// Cache keeps the last parse of each status file. An entry is reused only
// while the file's modification time and size are unchanged. Cached
// snapshots are shared and must not be modified.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Load returns the cached parse of path if info still matches it.
func (c *Cache) Load(path string, info os.FileInfo) (*status.Snapshot, []status.Issue, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[path]
	if !ok || !e.modTime.Equal(info.ModTime()) || e.size != info.Size() {
		return nil, nil, false
	}
	return e.snapshot, e.issues, true
}

// Store records the parse of path as of info.
func (c *Cache) Store(path string, info os.FileInfo, snap *status.Snapshot, issues []status.Issue) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[path] = cacheEntry{
		modTime:  info.ModTime(),
		size:     info.Size(),
		snapshot: snap,
		issues:   issues,
	}
}

// Retain drops every entry whose path is not in keep.
func (c *Cache) Retain(keep map[string]bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for path := range c.entries {
		if !keep[path] {
			delete(c.entries, path)
		}
	}
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
