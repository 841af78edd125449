package geocode

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"order-dispatch/internal/common"
)

// Coordinates is a resolved latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// FileCache is a durable formatted-address → coordinates store backed by a
// single JSON file shared across runs. Each write replaces the whole file
// atomically (write-to-temp then rename), so concurrent writers can lose a
// race but never corrupt the file; an unreadable or malformed file reads as
// empty rather than failing.
type FileCache struct {
	path string
	mu   sync.Mutex
	log  *slog.Logger
}

func NewFileCache(path string, logger *slog.Logger) *FileCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileCache{path: path, log: logger}
}

// Lookup returns the cached coordinates for the exact formatted-address key.
func (c *FileCache) Lookup(address string) (Coordinates, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	coords, ok := c.load()[address]
	return coords, ok
}

// Store persists coordinates under the exact formatted-address key, merging
// with whatever is on disk at write time.
func (c *FileCache) Store(address string, coords Coordinates) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.load()
	entries[address] = coords

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return common.WrapError(err, "encode geocode cache")
	}

	dir := filepath.Dir(c.path)
	tmp, err := os.CreateTemp(dir, ".geocode-cache-*")
	if err != nil {
		return common.WrapError(err, "create temp cache file")
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return common.WrapError(err, "write geocode cache")
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return common.WrapError(err, "close temp cache file")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return common.WrapError(err, "chmod temp cache file")
	}
	if err := os.Rename(tmpName, c.path); err != nil {
		_ = os.Remove(tmpName)
		return common.WrapError(err, "replace geocode cache")
	}
	return nil
}

// load reads the cache file; a missing or malformed file yields an empty map.
func (c *FileCache) load() map[string]Coordinates {
	entries := make(map[string]Coordinates)
	data, err := os.ReadFile(c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			c.log.Warn("geocode.cache.read_error", "path", c.path, "error", err)
		}
		return entries
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		c.log.Warn("geocode.cache.malformed", "path", c.path, "error", err)
		return make(map[string]Coordinates)
	}
	return entries
}
