package driven

import (
	"context"

	"github.com/custodia-labs/labelscan/internal/core/domain"
)

// ScanStore persists barcode scan history and frequency statistics.
// It consumes pipeline output; the pipeline never depends on it.
type ScanStore interface {
	// RecordScan records one sighting of a code and returns the barcode's state.
	RecordScan(ctx context.Context, code domain.Code, batchID string) (domain.ScanRecord, error)

	// UpdateProductInfo sets enrichment fields on a known barcode.
	// Returns domain.ErrNotFound if the barcode was never scanned.
	UpdateProductInfo(ctx context.Context, barcode string, info domain.ProductInfo) error

	// GetBarcodeInfo returns the stored record.
	// Returns domain.ErrNotFound if the barcode was never scanned.
	GetBarcodeInfo(ctx context.Context, barcode string) (*domain.BarcodeInfo, error)

	// TopBarcodes returns the most frequently scanned barcodes.
	TopBarcodes(ctx context.Context, limit int) ([]domain.BarcodeInfo, error)

	// RecentScans returns scan history, newest first.
	RecentScans(ctx context.Context, limit int) ([]domain.ScanEvent, error)

	// Stats returns store totals.
	Stats(ctx context.Context) (domain.ScanStats, error)
}
