package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/labelscan/internal/core/domain"
)

func TestHistoryService_Top_DefaultLimit(t *testing.T) {
	store := newMockScanStore()
	store.top = []domain.BarcodeInfo{{Barcode: "1", ScanCount: 3}}
	service := NewHistoryService(store)

	top, err := service.Top(context.Background(), 0)

	require.NoError(t, err)
	assert.Len(t, top, 1)
	assert.Equal(t, 20, store.lastLimit)
}

func TestHistoryService_Recent_ExplicitLimit(t *testing.T) {
	store := newMockScanStore()
	service := NewHistoryService(store)

	_, err := service.Recent(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, store.lastLimit)

	_, err = service.Recent(context.Background(), -1)
	require.NoError(t, err)
	assert.Equal(t, 50, store.lastLimit)
}

func TestHistoryService_Get(t *testing.T) {
	store := newMockScanStore()
	store.infos["4006381333931"] = &domain.BarcodeInfo{Barcode: "4006381333931", ScanCount: 2}
	service := NewHistoryService(store)

	info, err := service.Get(context.Background(), "  4006381333931 ")
	require.NoError(t, err)
	assert.Equal(t, 2, info.ScanCount)

	_, err = service.Get(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = service.Get(context.Background(), " ")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistoryService_Annotate(t *testing.T) {
	store := newMockScanStore()
	store.infos["96385074"] = &domain.BarcodeInfo{Barcode: "96385074"}
	service := NewHistoryService(store)
	name := "Oat milk"

	err := service.Annotate(context.Background(), "96385074", domain.ProductInfo{ProductName: &name})

	require.NoError(t, err)
	require.Contains(t, store.updated, "96385074")
	assert.Equal(t, "Oat milk", *store.updated["96385074"].ProductName)
}

func TestHistoryService_Annotate_Validation(t *testing.T) {
	service := NewHistoryService(newMockScanStore())
	name := "x"

	err := service.Annotate(context.Background(), "", domain.ProductInfo{ProductName: &name})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	err = service.Annotate(context.Background(), "123", domain.ProductInfo{})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistoryService_Stats(t *testing.T) {
	store := newMockScanStore()
	store.stats = domain.ScanStats{TotalBarcodes: 4, TotalScans: 9}

	stats, err := NewHistoryService(store).Stats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalBarcodes)
	assert.Equal(t, 9, stats.TotalScans)
}
