// Package file provides a JSON-file-backed cache for resolved forum
// links, so repeated link-fix runs do not re-resolve known URLs.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/campuskit/courseqa/internal/core/ports/driven"
)

var _ driven.LinkCache = (*LinkCache)(nil)

// DefaultFileName is the cache file name used when only a directory is
// given.
const DefaultFileName = "url_cache.json"

// LinkCache stores short-URL to expanded-URL mappings in a JSON file.
// Entries accumulate in memory and are written out on Flush.
type LinkCache struct {
	mu      sync.Mutex
	path    string
	entries map[string]string
	dirty   bool
}

// NewLinkCache opens (or initialises) the cache at path. A missing
// file starts an empty cache; a malformed file is an error so a
// corrupted cache is never silently overwritten.
func NewLinkCache(path string) (*LinkCache, error) {
	c := &LinkCache{
		path:    path,
		entries: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("read link cache: %w", err)
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		return nil, fmt.Errorf("parse link cache %s: %w", path, err)
	}
	return c, nil
}

// Get returns the cached expansion for url, if present.
func (c *LinkCache) Get(url string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[url]
	return v, ok
}

// Put records an expansion. It is not persisted until Flush.
func (c *LinkCache) Put(url, expanded string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[url] == expanded {
		return
	}
	c.entries[url] = expanded
	c.dirty = true
}

// Flush writes the cache to disk if anything changed since the last
// flush.
func (c *LinkCache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create cache directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode link cache: %w", err)
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write link cache: %w", err)
	}
	c.dirty = false
	return nil
}

// Len returns the number of cached entries.
func (c *LinkCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
