package domain

import (
	"encoding/json"
	"time"
)

// ScanRecord describes a barcode after a scan has been recorded.
type ScanRecord struct {
	// Barcode is the code value.
	Barcode string `json:"barcode"`

	// Symbology is the code family recorded on first sight.
	Symbology string `json:"symbology"`

	// IsNew is true when this scan was the first sighting.
	IsNew bool `json:"is_new"`

	// FirstSeen is when the barcode was first recorded.
	FirstSeen time.Time `json:"first_seen"`

	// ScanCount is the number of scans including this one.
	ScanCount int `json:"scan_count"`

	// ProductName and Brand are optional enrichment data.
	ProductName string `json:"product_name,omitempty"`
	Brand       string `json:"brand,omitempty"`
}

// BarcodeInfo is the stored record for a barcode.
type BarcodeInfo struct {
	Barcode     string    `json:"barcode"`
	Symbology   string    `json:"symbology"`
	FirstSeen   time.Time `json:"first_seen"`
	LastSeen    time.Time `json:"last_seen"`
	ScanCount   int       `json:"scan_count"`
	ProductName string    `json:"product_name,omitempty"`
	Brand       string    `json:"brand,omitempty"`
	Category    string    `json:"category,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

// ScanEvent is one row of scan history.
type ScanEvent struct {
	ID          int64     `json:"id"`
	Barcode     string    `json:"barcode"`
	Timestamp   time.Time `json:"timestamp"`
	BatchID     string    `json:"batch_id,omitempty"`
	Source      string    `json:"source,omitempty"`
	ProductName string    `json:"product_name,omitempty"`
	Brand       string    `json:"brand,omitempty"`
}

// ProductInfo carries optional enrichment fields. Nil fields are left unchanged.
type ProductInfo struct {
	ProductName *string
	Brand       *string
	Category    *string
	Notes       *string
}

// IsEmpty returns true if no field is set.
func (p ProductInfo) IsEmpty() bool {
	return p.ProductName == nil && p.Brand == nil && p.Category == nil && p.Notes == nil
}

// ScanStats summarises the scan store.
type ScanStats struct {
	TotalBarcodes int `json:"total_barcodes"`
	TotalScans    int `json:"total_scans"`

	// ScannedToday counts distinct barcodes scanned since local midnight.
	ScannedToday int `json:"scanned_today"`

	// MostScanned is nil when the store is empty.
	MostScanned *BarcodeInfo `json:"most_scanned,omitempty"`
}

// ScanResult is the outcome of decoding one photo through the scan service.
type ScanResult struct {
	// ID identifies the scan.
	ID string `json:"id"`

	// Policy is the pipeline policy that produced the result.
	Policy Policy `json:"policy"`

	// Codes is the deduplicated pipeline output. Empty is a valid outcome.
	Codes []Code `json:"codes"`

	// Timeline is set for diagnostic policies.
	Timeline []TimelineEntry `json:"timeline,omitempty"`

	// Records holds the scan store response per code, in code order.
	// It is empty when no store is configured.
	Records []ScanRecord `json:"records,omitempty"`

	// Elapsed is the end-to-end pipeline duration.
	Elapsed time.Duration `json:"-"`
}

// MarshalJSON adds elapsed_ms, the pipeline duration in whole milliseconds.
func (r ScanResult) MarshalJSON() ([]byte, error) {
	type plain ScanResult
	return json.Marshal(struct {
		plain
		ElapsedMS int64 `json:"elapsed_ms"`
	}{plain(r), r.Elapsed.Milliseconds()})
}

// CacheStats reports vision cache usage. Hits and Misses are
// process-lifetime cumulative counters.
type CacheStats struct {
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRate    float64 `json:"hit_rate"`
	EntryCount int     `json:"entry_count"`
}

// NewCacheStats computes the hit rate (percentage, two decimals) from counters.
func NewCacheStats(hits, misses int64, entries int) CacheStats {
	stats := CacheStats{Hits: hits, Misses: misses, EntryCount: entries}
	if total := hits + misses; total > 0 {
		rate := float64(hits) / float64(total) * 100
		stats.HitRate = float64(int64(rate*100+0.5)) / 100
	}
	return stats
}
