package layout

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"lectern/content"
	"lectern/content/text"
)

// Key identifies one memoized wrap result.
type Key struct {
	Chapter string
	Width   int
}

// Cache memoizes wrap results per (chapter, width). Concurrent requests for
// the same key share a single computation. The cache belongs to the active
// reading session: construct it when a book opens, drop it when it closes.
type Cache struct {
	hyph    *text.Hyphenator
	justify bool
	log     *zap.Logger

	group   singleflight.Group
	mu      sync.RWMutex
	entries map[Key][]Line
}

// NewCache creates an empty layout cache. hyph may be nil to disable
// hyphenation for every wrap this cache performs.
func NewCache(hyph *text.Hyphenator, justify bool, log *zap.Logger) *Cache {
	return &Cache{
		hyph:    hyph,
		justify: justify,
		log:     log,
		entries: make(map[Key][]Line),
	}
}

func flightKey(k Key) string {
	return fmt.Sprintf("%s\x00%d", k.Chapter, k.Width)
}

// Lines returns the wrapped line sequence for the chapter at the given
// width, wrapping on first request. At most one wrap per key runs at a
// time; concurrent callers share the in-flight result.
func (c *Cache) Lines(chapterID string, width int, blocks []content.Block) []Line {
	key := Key{Chapter: chapterID, Width: width}

	c.mu.RLock()
	lines, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return lines
	}

	v, _, shared := c.group.Do(flightKey(key), func() (any, error) {
		wrapped := Wrap(blocks, Options{Width: width, Hyphenator: c.hyph, Justify: c.justify})
		c.mu.Lock()
		c.entries[key] = wrapped
		c.mu.Unlock()
		return wrapped, nil
	})
	if shared {
		c.log.Debug("Shared in-flight wrap result", zap.String("chapter", chapterID), zap.Int("width", width))
	}
	return v.([]Line)
}

// Cached reports whether a wrap result for the key is already stored.
func (c *Cache) Cached(chapterID string, width int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[Key{Chapter: chapterID, Width: width}]
	return ok
}

// Invalidate drops every entry of the given chapter, regardless of width.
// Used when chapter content changes or the chapter leaves memory.
func (c *Cache) Invalidate(chapterID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.Chapter == chapterID {
			delete(c.entries, k)
		}
	}
}

// EvictWidths drops entries whose width is not referenced by any active
// pane. Called on terminal resize with the widths still in use; matching
// entries survive so a dual-pane layout keeps both of its widths warm.
func (c *Cache) EvictWidths(active ...int) {
	keep := make(map[int]struct{}, len(active))
	for _, w := range active {
		keep[w] = struct{}{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if _, ok := keep[k.Width]; !ok {
			c.log.Debug("Evicting stale layout width", zap.String("chapter", k.Chapter), zap.Int("width", k.Width))
			delete(c.entries, k)
		}
	}
}

// Len reports the number of stored entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
