package driven

import "github.com/custodia-labs/labelscan/internal/core/domain"

// VisionCache is a content-addressed store of cloud OCR results.
// Keys are the SHA-256 of the exact encoded image bytes. Entries are
// write-once and never expire.
//
// Implementations must tolerate concurrent access to different keys.
// Concurrent writes to the same key are last-write-wins.
type VisionCache interface {
	// Get returns the cached codes for the image bytes.
	// Any read or decode failure counts as a miss and returns ok=false.
	Get(image []byte) (codes []domain.Code, ok bool)

	// Put stores codes for the image bytes. Failures are swallowed:
	// the cache is a pure optimisation.
	Put(image []byte, codes []domain.Code)

	// Stats returns cumulative hit/miss counters and the entry count.
	Stats() domain.CacheStats

	// Clear deletes every entry and returns how many were removed.
	Clear() (int, error)
}
