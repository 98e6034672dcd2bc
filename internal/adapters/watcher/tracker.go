package watcher

import (
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ContentTracker remembers the xxhash of every file it has seen so that
// editor saves that leave the bytes untouched do not trigger invalidation.
type ContentTracker struct {
	mu     sync.Mutex
	hashes map[string]uint64
}

// NewContentTracker creates an empty tracker.
func NewContentTracker() *ContentTracker {
	return &ContentTracker{hashes: make(map[string]uint64)}
}

// Seed records the current content of path without reporting a change.
func (c *ContentTracker) Seed(path string, content []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hashes[path] = xxhash.Sum64(content)
}

// Changed reads path and reports whether its content differs from the last
// observation. Unseen, removed and unreadable files always count as changed.
func (c *ContentTracker) Changed(path string) bool {
	content, err := os.ReadFile(path)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			delete(c.hashes, path)
		}
		return true
	}

	sum := xxhash.Sum64(content)
	prev, seen := c.hashes[path]
	c.hashes[path] = sum
	return !seen || prev != sum
}

// Len returns the number of tracked files.
func (c *ContentTracker) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.hashes)
}
