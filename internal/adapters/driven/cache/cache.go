// Package cache holds the pieces shared by the vision result caches:
// content hashing, the on-disk entry format and hit/miss counters.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
)

// Key returns the SHA-256 hex digest of the image bytes.
func Key(image []byte) string {
	sum := sha256.Sum256(image)
	return hex.EncodeToString(sum[:])
}

// entry is the persisted form of one code. The field names are the
// historical cache format and must not change.
type entry struct {
	Symbology string `json:"symbology"`
	Data      string `json:"data"`
	Source    string `json:"source"`
}

// Marshal encodes codes as a JSON array of entries.
func Marshal(codes []domain.Code) ([]byte, error) {
	entries := make([]entry, len(codes))
	for i, c := range codes {
		entries[i] = entry{Symbology: c.Symbology, Data: c.Value, Source: c.Source}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal cache entry: %w", err)
	}
	return data, nil
}

// Unmarshal decodes a JSON array of entries.
func Unmarshal(data []byte) ([]domain.Code, error) {
	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse cache entry: %w", err)
	}
	codes := make([]domain.Code, len(entries))
	for i, e := range entries {
		codes[i] = domain.Code{Symbology: e.Symbology, Value: e.Data, Source: e.Source}
	}
	return codes, nil
}

// Counters tracks process-lifetime hits and misses.
type Counters struct {
	hits   atomic.Int64
	misses atomic.Int64
}

// Hit records a hit.
func (c *Counters) Hit() { c.hits.Add(1) }

// Miss records a miss.
func (c *Counters) Miss() { c.misses.Add(1) }

// Stats combines the counters with an entry count.
func (c *Counters) Stats(entries int) domain.CacheStats {
	return domain.NewCacheStats(c.hits.Load(), c.misses.Load(), entries)
}

// Ensure Nop implements the interface.
var _ driven.VisionCache = Nop{}

// Nop is a cache that stores nothing. Every lookup misses.
type Nop struct{}

// Get always misses.
func (Nop) Get([]byte) ([]domain.Code, bool) { return nil, false }

// Put discards the codes.
func (Nop) Put([]byte, []domain.Code) {}

// Stats reports an empty cache.
func (Nop) Stats() domain.CacheStats { return domain.CacheStats{} }

// Clear deletes nothing.
func (Nop) Clear() (int, error) { return 0, nil }
