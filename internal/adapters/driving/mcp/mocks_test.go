package mcp

import (
	"context"

	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driving"
)

// mockScanService is a mock implementation of driving.ScanService.
type mockScanService struct {
	result   *domain.ScanResult
	err      error
	lastData []byte
	lastOpts driving.ScanOptions
}

func (m *mockScanService) Scan(_ context.Context, data []byte, opts driving.ScanOptions) (*domain.ScanResult, error) {
	m.lastData = data
	m.lastOpts = opts
	return m.result, m.err
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	info   *domain.BarcodeInfo
	events []domain.ScanEvent
	err    error
	asked  string
}

func (m *mockHistoryService) Top(_ context.Context, _ int) ([]domain.BarcodeInfo, error) {
	return nil, m.err
}

func (m *mockHistoryService) Recent(_ context.Context, _ int) ([]domain.ScanEvent, error) {
	return m.events, m.err
}

func (m *mockHistoryService) Get(_ context.Context, barcode string) (*domain.BarcodeInfo, error) {
	m.asked = barcode
	return m.info, m.err
}

func (m *mockHistoryService) Annotate(_ context.Context, _ string, _ domain.ProductInfo) error {
	return m.err
}

func (m *mockHistoryService) Stats(_ context.Context) (domain.ScanStats, error) {
	return domain.ScanStats{}, m.err
}
