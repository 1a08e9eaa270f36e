package driving

import (
	"context"

	"github.com/custodia-labs/labelscan/internal/core/domain"
)

// HistoryService exposes the barcode scan history.
type HistoryService interface {
	// Top returns the most frequently scanned barcodes.
	Top(ctx context.Context, limit int) ([]domain.BarcodeInfo, error)

	// Recent returns the latest scans, newest first.
	Recent(ctx context.Context, limit int) ([]domain.ScanEvent, error)

	// Get returns the stored record for one barcode.
	Get(ctx context.Context, barcode string) (*domain.BarcodeInfo, error)

	// Annotate sets product information on a barcode.
	Annotate(ctx context.Context, barcode string, info domain.ProductInfo) error

	// Stats returns store totals.
	Stats(ctx context.Context) (domain.ScanStats, error)
}
