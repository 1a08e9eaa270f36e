package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
)

// Ensure ScanStore implements the interface.
var _ driven.ScanStore = (*ScanStore)(nil)

// ScanStore is an in-memory driven.ScanStore. It mirrors the SQLite
// store's ordering rules.
type ScanStore struct {
	mu       sync.RWMutex
	barcodes map[string]*domain.BarcodeInfo
	history  []domain.ScanEvent
	nextID   int64
	now      func() time.Time
}

// NewScanStore creates an empty store.
func NewScanStore() *ScanStore {
	return &ScanStore{
		barcodes: make(map[string]*domain.BarcodeInfo),
		now:      time.Now,
	}
}

// RecordScan inserts or bumps the barcode and appends a history event.
func (s *ScanStore) RecordScan(_ context.Context, code domain.Code, batchID string) (domain.ScanRecord, error) {
	if code.Value == "" {
		return domain.ScanRecord{}, fmt.Errorf("%w: empty barcode", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	info, ok := s.barcodes[code.Value]
	if !ok {
		info = &domain.BarcodeInfo{
			Barcode:   code.Value,
			Symbology: code.Symbology,
			FirstSeen: now,
		}
		s.barcodes[code.Value] = info
	}
	info.LastSeen = now
	info.ScanCount++

	s.nextID++
	s.history = append(s.history, domain.ScanEvent{
		ID:        s.nextID,
		Barcode:   code.Value,
		Timestamp: now,
		BatchID:   batchID,
		Source:    code.Source,
	})

	return domain.ScanRecord{
		Barcode:     info.Barcode,
		Symbology:   info.Symbology,
		IsNew:       !ok,
		FirstSeen:   info.FirstSeen,
		ScanCount:   info.ScanCount,
		ProductName: info.ProductName,
		Brand:       info.Brand,
	}, nil
}

// UpdateProductInfo sets the non-nil fields of info.
func (s *ScanStore) UpdateProductInfo(_ context.Context, barcode string, info domain.ProductInfo) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.barcodes[barcode]
	if !ok {
		return domain.ErrNotFound
	}
	if info.ProductName != nil {
		b.ProductName = *info.ProductName
	}
	if info.Brand != nil {
		b.Brand = *info.Brand
	}
	if info.Category != nil {
		b.Category = *info.Category
	}
	if info.Notes != nil {
		b.Notes = *info.Notes
	}
	return nil
}

// GetBarcodeInfo returns a copy of the record for one barcode.
func (s *ScanStore) GetBarcodeInfo(_ context.Context, barcode string) (*domain.BarcodeInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.barcodes[barcode]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

// TopBarcodes returns barcodes by scan count, then recency.
func (s *ScanStore) TopBarcodes(_ context.Context, limit int) ([]domain.BarcodeInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.top(limit), nil
}

func (s *ScanStore) top(limit int) []domain.BarcodeInfo {
	out := make([]domain.BarcodeInfo, 0, len(s.barcodes))
	for _, b := range s.barcodes {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ScanCount != out[j].ScanCount {
			return out[i].ScanCount > out[j].ScanCount
		}
		return out[i].LastSeen.After(out[j].LastSeen)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RecentScans returns history newest first with current product data.
func (s *ScanStore) RecentScans(_ context.Context, limit int) ([]domain.ScanEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ScanEvent, 0, len(s.history))
	for i := len(s.history) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		ev := s.history[i]
		if b, ok := s.barcodes[ev.Barcode]; ok {
			ev.ProductName = b.ProductName
			ev.Brand = b.Brand
		}
		out = append(out, ev)
	}
	return out, nil
}

// Stats summarises the store.
func (s *ScanStore) Stats(_ context.Context) (domain.ScanStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := domain.ScanStats{TotalBarcodes: len(s.barcodes)}
	for _, b := range s.barcodes {
		stats.TotalScans += b.ScanCount
	}

	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today := make(map[string]struct{})
	for _, ev := range s.history {
		if !ev.Timestamp.Before(midnight) {
			today[ev.Barcode] = struct{}{}
		}
	}
	stats.ScannedToday = len(today)

	if top := s.top(1); len(top) > 0 {
		stats.MostScanned = &top[0]
	}
	return stats, nil
}
