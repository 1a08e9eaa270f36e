package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
	"github.com/custodia-labs/labelscan/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// Default list sizes.
const (
	defaultTopLimit    = 20
	defaultRecentLimit = 50
)

// HistoryService provides read and annotate access to scan history.
type HistoryService struct {
	store driven.ScanStore
}

// NewHistoryService creates a new history service.
func NewHistoryService(store driven.ScanStore) *HistoryService {
	return &HistoryService{store: store}
}

// Top returns the most frequently scanned barcodes.
func (s *HistoryService) Top(ctx context.Context, limit int) ([]domain.BarcodeInfo, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	return s.store.TopBarcodes(ctx, limit)
}

// Recent returns the latest scans, newest first.
func (s *HistoryService) Recent(ctx context.Context, limit int) ([]domain.ScanEvent, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.store.RecentScans(ctx, limit)
}

// Get returns the stored record for one barcode.
func (s *HistoryService) Get(ctx context.Context, barcode string) (*domain.BarcodeInfo, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, fmt.Errorf("%w: barcode is required", domain.ErrInvalidInput)
	}
	return s.store.GetBarcodeInfo(ctx, barcode)
}

// Annotate sets product information on a barcode.
func (s *HistoryService) Annotate(ctx context.Context, barcode string, info domain.ProductInfo) error {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return fmt.Errorf("%w: barcode is required", domain.ErrInvalidInput)
	}
	if info.IsEmpty() {
		return fmt.Errorf("%w: no product fields to update", domain.ErrInvalidInput)
	}
	return s.store.UpdateProductInfo(ctx, barcode, info)
}

// Stats returns store totals.
func (s *HistoryService) Stats(ctx context.Context) (domain.ScanStats, error) {
	return s.store.Stats(ctx)
}
