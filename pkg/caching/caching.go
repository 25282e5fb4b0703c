package caching

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// PageCache keeps fetched page bodies on disk so repeated `run --url`
// submissions of the same page skip the network. A zero ttl never expires.
type PageCache struct {
	dir string
	ttl time.Duration
	now func() time.Time
}

// NewPageCache creates dir if needed.
func NewPageCache(dir string, ttl time.Duration) (*PageCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &PageCache{dir: dir, ttl: ttl, now: time.Now}, nil
}

func (c *PageCache) path(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".html")
}

// Get returns the cached body for url and whether it was a fresh hit.
func (c *PageCache) Get(url string) ([]byte, bool) {
	p := c.path(url)

	info, err := os.Stat(p)
	if err != nil {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(info.ModTime()) > c.ttl {
		return nil, false
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put stores body for url. The write goes through a temp file so readers
// never see a partial page.
func (c *PageCache) Put(url string, body []byte) error {
	tmp, err := os.CreateTemp(c.dir, "page-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path(url)); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}
