package module

import (
	"sync"

	"ergc/internal/hir"
)

// Entry is one module cache slot (spec.md §4.7 "Registered(path, None) /
// Registered(path, Some(ctx))"). Ctx is nil until compilation finishes,
// successfully or not; Err records a terminal failure without losing the
// entry (a later importer still needs to see the module registered, just
// broken, rather than missing).
type Entry struct {
	Path string
	Ctx  *hir.Module
	Err  error
}

// Cache is the concurrent, lock-protected module cache shared by every
// worker spawned for one build (spec.md §4.7 "Module cache"). One
// sync.RWMutex per resource, never a coarse shared lock (spec.md §5).
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewCache returns an empty module cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Entry)}
}

// Register inserts the "compilation started" placeholder for path if one
// isn't already present, and reports whether it did the inserting (the
// caller that loses the race should await the existing entry instead of
// starting a redundant compile).
func (c *Cache) Register(path string) (started bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[path]; ok {
		return false
	}
	c.entries[path] = &Entry{Path: path}
	return true
}

// Complete fills in the result of compiling path, success or failure.
func (c *Cache) Complete(path string, ctx *hir.Module, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = &Entry{Path: path, Ctx: ctx, Err: err}
}

// Get returns a snapshot of path's entry. ok is false before Register has
// ever been called for path.
func (c *Cache) Get(path string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[path]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Ready reports whether path's compilation has finished (success or
// failure) — i.e. Ctx or Err is populated, not just Register'd.
func (c *Cache) Ready(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[path]
	return ok && (e.Ctx != nil || e.Err != nil)
}

// Remove drops path's entry, so the next Register for path reports started
// again. The build driver calls it when it re-imports a path that MarkStale
// flagged; Register itself never overwrites an existing entry.
func (c *Cache) Remove(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, path)
}
