package sqlite

import (
	"database/sql"
	"errors"

	"github.com/custodia-labs/labelscan/internal/adapters/driven/cache"
	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
	"github.com/custodia-labs/labelscan/internal/logger"
)

// ==================== Vision Cache ====================

// visionCache implements driven.VisionCache on the vision_cache table.
// Counters live in the wrapper, so each VisionCache() call starts at zero.
type visionCache struct {
	store    *Store
	counters cache.Counters
}

var _ driven.VisionCache = (*visionCache)(nil)

// Get returns the cached codes for the image.
func (c *visionCache) Get(image []byte) ([]domain.Code, bool) {
	key := cache.Key(image)

	var data string
	err := c.store.db.QueryRow("SELECT codes FROM vision_cache WHERE image_hash = ?", key).Scan(&data)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			logger.Warn("Vision cache read error for %s: %v", key[:8], err)
		}
		c.counters.Miss()
		return nil, false
	}

	codes, err := cache.Unmarshal([]byte(data))
	if err != nil {
		logger.Warn("Vision cache read error for %s: %v", key[:8], err)
		c.counters.Miss()
		return nil, false
	}
	c.counters.Hit()
	return codes, true
}

// Put stores the codes for the image, replacing any existing entry.
func (c *visionCache) Put(image []byte, codes []domain.Code) {
	key := cache.Key(image)
	data, err := cache.Marshal(codes)
	if err != nil {
		logger.Warn("Vision cache write error for %s: %v", key[:8], err)
		return
	}
	_, err = c.store.db.Exec(`
		INSERT INTO vision_cache (image_hash, codes, created_at) VALUES (?, ?, ?)
		ON CONFLICT(image_hash) DO UPDATE SET codes = excluded.codes, created_at = excluded.created_at
	`, key, string(data), formatTime(c.store.now()))
	if err != nil {
		logger.Warn("Vision cache write error for %s: %v", key[:8], err)
	}
}

// Stats returns counters and the number of rows.
func (c *visionCache) Stats() domain.CacheStats {
	var n int
	if err := c.store.db.QueryRow("SELECT COUNT(*) FROM vision_cache").Scan(&n); err != nil {
		logger.Warn("Vision cache count error: %v", err)
	}
	return c.counters.Stats(n)
}

// Clear deletes every row and returns how many were removed.
func (c *visionCache) Clear() (int, error) {
	result, err := c.store.db.Exec("DELETE FROM vision_cache")
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}
