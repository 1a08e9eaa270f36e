// Package file provides a content-addressed vision cache on the local
// filesystem. Entries live at <dir>/<hash[:2]>/<hash>.json.
package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/labelscan/internal/adapters/driven/cache"
	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
	"github.com/custodia-labs/labelscan/internal/logger"
)

// Ensure Cache implements the interface.
var _ driven.VisionCache = (*Cache)(nil)

// Cache is a file-backed vision cache. I/O errors are logged and treated
// as misses; caching never fails a decode.
type Cache struct {
	dir      string
	counters cache.Counters
}

// New creates the cache directory if needed.
func New(dir string) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	logger.Debug("Vision cache at %s", abs)
	return &Cache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key[:2], key+".json")
}

// Get returns the cached codes for the image.
func (c *Cache) Get(image []byte) ([]domain.Code, bool) {
	key := cache.Key(image)

	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Vision cache read error for %s: %v", key[:8], err)
		}
		c.counters.Miss()
		return nil, false
	}

	codes, err := cache.Unmarshal(data)
	if err != nil {
		logger.Warn("Vision cache read error for %s: %v", key[:8], err)
		c.counters.Miss()
		return nil, false
	}

	c.counters.Hit()
	logger.Debug("Vision cache HIT: %s... (%d codes)", key[:8], len(codes))
	return codes, true
}

// Put stores the codes for the image, replacing any existing entry.
// The write goes through a temp file so readers never see a partial entry.
func (c *Cache) Put(image []byte, codes []domain.Code) {
	key := cache.Key(image)
	if err := c.write(key, codes); err != nil {
		logger.Warn("Vision cache write error for %s: %v", key[:8], err)
		return
	}
	logger.Debug("Vision cache PUT: %s... (%d codes)", key[:8], len(codes))
}

func (c *Cache) write(key string, codes []domain.Code) error {
	data, err := cache.Marshal(codes)
	if err != nil {
		return err
	}

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create cache subdirectory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Stats returns counters and the number of stored entries.
func (c *Cache) Stats() domain.CacheStats {
	entries := 0
	_ = c.walk(func(string) { entries++ })
	return c.counters.Stats(entries)
}

// Clear deletes every entry and returns how many were removed.
// Counters are not reset.
func (c *Cache) Clear() (int, error) {
	removed := 0
	var errs []error
	err := c.walk(func(path string) {
		if err := os.Remove(path); err != nil {
			errs = append(errs, err)
			return
		}
		removed++
	})
	if err != nil {
		errs = append(errs, err)
	}
	logger.Info("Vision cache cleared: %d entries deleted", removed)
	return removed, errors.Join(errs...)
}

// walk calls fn for every entry file under the cache root.
func (c *Cache) walk(fn func(path string)) error {
	return filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".json") {
			fn(path)
		}
		return nil
	})
}
