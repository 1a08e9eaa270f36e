package decoders_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync/atomic"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/services"
	"github.com/custodia-labs/labelscan/internal/decoders"
)

// scriptedDetector returns one transcript for every image and counts calls.
type scriptedDetector struct {
	transcript string
	calls      atomic.Int32
}

func (s *scriptedDetector) Available() bool { return true }

func (s *scriptedDetector) DetectText(context.Context, []byte, domain.OCRMode) (string, error) {
	s.calls.Add(1)
	return s.transcript, nil
}

func pngRequest(t *testing.T, img image.Image) *domain.DecodeRequest {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	req, err := domain.NewDecodeRequest(buf.Bytes())
	require.NoError(t, err)
	return req
}

func ean13Photo(t *testing.T, value string) *domain.DecodeRequest {
	t.Helper()
	m, err := oned.NewEAN13Writer().Encode(value, gozxing.BarcodeFormat_EAN_13, 400, 150, nil)
	require.NoError(t, err)

	img := image.NewGray(image.Rect(0, 0, m.GetWidth(), m.GetHeight()))
	for y := 0; y < m.GetHeight(); y++ {
		for x := 0; x < m.GetWidth(); x++ {
			var c color.Color = color.White
			if m.Get(x, y) {
				c = color.Black
			}
			img.Set(x, y, c)
		}
	}
	return pngRequest(t, img)
}

func blankPhoto(t *testing.T) *domain.DecodeRequest {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 200, 100))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return pngRequest(t, img)
}

func newDefaultPipeline(t *testing.T, det *scriptedDetector) *services.Pipeline {
	t.Helper()
	list, err := decoders.NewDefault(domain.DecoderSettings{}, decoders.Deps{Text: det})
	require.NoError(t, err)
	return services.NewPipeline(list)
}

func TestDefaultPipeline_SmartReadsBarcodeWithoutOCR(t *testing.T) {
	det := &scriptedDetector{transcript: "GG747"}
	p := newDefaultPipeline(t, det)

	codes, timeline := p.RunSmartParallelDebug(context.Background(), ean13Photo(t, "4006381333931"))

	require.Len(t, codes, 1)
	assert.Equal(t, domain.SymbologyEAN13, codes[0].Symbology)
	assert.Equal(t, "4006381333931", codes[0].Value)
	assert.Equal(t, int32(0), det.calls.Load())

	for _, e := range timeline {
		if e.Decoder == "vision-ocr" || e.Decoder == "gg-label" {
			assert.True(t, e.Skipped, e.Decoder)
			assert.Zero(t, e.Count, e.Decoder)
			assert.Zero(t, e.Elapsed, e.Decoder)
			assert.Empty(t, e.Error, e.Decoder)
		}
	}
}

func TestDefaultPipeline_EveryPolicyReadsBarcode(t *testing.T) {
	det := &scriptedDetector{}
	p := newDefaultPipeline(t, det)
	req := ean13Photo(t, "4006381333931")
	want := []domain.Key{{Symbology: domain.SymbologyEAN13, Value: "4006381333931"}}

	keys := func(codes []domain.Code) []domain.Key {
		out := make([]domain.Key, len(codes))
		for i, c := range codes {
			out[i] = c.Key()
		}
		return out
	}

	assert.Equal(t, want, keys(p.Run(context.Background(), req)))
	codes, _ := p.RunDebug(context.Background(), req)
	assert.Equal(t, want, keys(codes))
	codes, _ = p.RunParallelDebug(context.Background(), req)
	assert.Equal(t, want, keys(codes))
}

func TestDefaultPipeline_SmartFallsThroughToGGLabel(t *testing.T) {
	det := &scriptedDetector{transcript: "SHELF\nGG752\n"}
	p := newDefaultPipeline(t, det)

	codes, _ := p.RunSmartParallelDebug(context.Background(), blankPhoto(t))

	require.Len(t, codes, 1)
	assert.Equal(t, "GG:GG752", codes[0].String())
	assert.Positive(t, det.calls.Load())
}
