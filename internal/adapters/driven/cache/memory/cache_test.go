package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/labelscan/internal/core/domain"
)

func TestCache_PutGetClear(t *testing.T) {
	c := New()
	image := []byte("img")
	codes := []domain.Code{{Symbology: domain.SymbologyOCR, Value: "12345678", Source: "vision_ocr"}}

	_, ok := c.Get(image)
	assert.False(t, ok)

	c.Put(image, codes)
	got, ok := c.Get(image)
	require.True(t, ok)
	assert.Equal(t, codes, got)

	stats := c.Stats()
	assert.Equal(t, 1, stats.EntryCount)
	assert.InDelta(t, 50.0, stats.HitRate, 0.001)

	removed, err := c.Clear()
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, c.Stats().EntryCount)
}

func TestCache_ReturnsCopies(t *testing.T) {
	c := New()
	image := []byte("img")
	codes := []domain.Code{{Symbology: "OCR", Value: "1", Source: "a"}}
	c.Put(image, codes)

	codes[0].Value = "mutated"
	got, _ := c.Get(image)
	got[0].Value = "also mutated"

	again, _ := c.Get(image)
	assert.Equal(t, "1", again[0].Value)
}
