package zxing

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/labelscan/internal/core/domain"
)

func encode(t *testing.T, w gozxing.Writer, contents string, format gozxing.BarcodeFormat, width, height int) image.Image {
	t.Helper()
	m, err := w.Encode(contents, format, width, height, nil)
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
	return img
}

func TestDecoder_Metadata(t *testing.T) {
	d := New()
	assert.Equal(t, "zxing", d.Name())
	assert.Equal(t, domain.TierQuick, d.Tier())
}

func TestDecoder_EAN13(t *testing.T) {
	img := encode(t, oned.NewEAN13Writer(), "4006381333931", gozxing.BarcodeFormat_EAN_13, 400, 150)

	codes, err := New().Decode(context.Background(), &domain.DecodeRequest{Image: img})

	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, domain.Code{Symbology: domain.SymbologyEAN13, Value: "4006381333931", Source: "zxing"}, codes[0])
}

func TestDecoder_Code39QCode(t *testing.T) {
	img := encode(t, oned.NewCode39Writer(), "Q0042", gozxing.BarcodeFormat_CODE_39, 400, 150)

	codes, err := New().Decode(context.Background(), &domain.DecodeRequest{Image: img})

	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, domain.Code{Symbology: domain.SymbologyCode39, Value: "Q0042", Source: "zxing"}, codes[0])
	assert.True(t, domain.ProvisionalByRules(domain.DefaultProvisionalRules)(codes[0]))
}

func TestDecoder_Code128(t *testing.T) {
	img := encode(t, oned.NewCode128Writer(), "SKU-88213", gozxing.BarcodeFormat_CODE_128, 400, 150)

	codes, err := New().Decode(context.Background(), &domain.DecodeRequest{Image: img})

	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, domain.SymbologyCode128, codes[0].Symbology)
	assert.Equal(t, "SKU-88213", codes[0].Value)
}

func TestDecoder_QRCode(t *testing.T) {
	img := encode(t, qrcode.NewQRCodeWriter(), "Q1234-A", gozxing.BarcodeFormat_QR_CODE, 300, 300)

	codes, err := New().Decode(context.Background(), &domain.DecodeRequest{Image: img})

	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, domain.SymbologyQR, codes[0].Symbology)
	assert.Equal(t, "Q1234-A", codes[0].Value)
}

func TestDecoder_BlankImage(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 64, 64))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	codes, err := New().Decode(context.Background(), &domain.DecodeRequest{Image: img})

	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestDecoder_NilImage(t *testing.T) {
	_, err := New().Decode(context.Background(), &domain.DecodeRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidImage)
}

func TestToCode(t *testing.T) {
	tests := []struct {
		name   string
		res    *gozxing.Result
		want   domain.Code
		wantOK bool
	}{
		{
			name:   "code39",
			res:    gozxing.NewResult("Q0042", nil, nil, gozxing.BarcodeFormat_CODE_39),
			want:   domain.Code{Symbology: "CODE39", Value: "Q0042", Source: "zxing"},
			wantOK: true,
		},
		{
			name: "unsupported format",
			res:  gozxing.NewResult("x", nil, nil, gozxing.BarcodeFormat_PDF_417),
		},
		{
			name: "empty payload",
			res:  gozxing.NewResult("", nil, nil, gozxing.BarcodeFormat_EAN_13),
		},
		{
			name: "nil result",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := toCode(tt.res)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
