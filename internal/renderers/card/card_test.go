package card

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/labelscan/internal/core/domain"
)

var mixed = []domain.Code{
	{Symbology: "OCR", Value: "96385074", Source: "vision-ocr"},
	{Symbology: "CODE39", Value: "Q0042", Source: "zxing"},
	{Symbology: "EAN13", Value: "4006381333931", Source: "zxing"},
	{Symbology: "GG", Value: "GG747", Source: "gg-label"},
	{Symbology: "QRCODE", Value: "https://example.com", Source: "qr"},
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		code domain.Code
		want Kind
	}{
		{domain.Code{Symbology: "EAN13", Value: "4006381333931"}, KindBarcode},
		{domain.Code{Symbology: "CODE39", Value: "A123"}, KindBarcode},
		{domain.Code{Symbology: "CODE39", Value: "Q123"}, KindQCode},
		{domain.Code{Symbology: "GG", Value: "GG747"}, KindGGLabel},
		{domain.Code{Symbology: "OCR", Value: "96385074"}, KindOCR},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.code))
		})
	}
}

func TestGroupCodes(t *testing.T) {
	groups := GroupCodes(mixed)

	require.Len(t, groups, 4)
	assert.Equal(t, KindBarcode, groups[0].Kind)
	assert.Equal(t, []string{"4006381333931", "https://example.com"}, []string{groups[0].Codes[0].Value, groups[0].Codes[1].Value})
	assert.Equal(t, KindGGLabel, groups[1].Kind)
	assert.Equal(t, KindQCode, groups[2].Kind)
	assert.Equal(t, KindOCR, groups[3].Kind)
}

func TestRenderer_HTML(t *testing.T) {
	out, err := New(nil).HTML(mixed)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "<b>Found 5 code(s)</b>"))
	assert.Contains(t, out, "<b>Barcodes</b>")
	assert.Contains(t, out, "• <code>4006381333931</code> <i>EAN13</i>")
	assert.Contains(t, out, "<code>GG747</code>")
	assert.Less(t, strings.Index(out, "Barcodes"), strings.Index(out, "GG labels"))
	assert.Less(t, strings.Index(out, "Q-codes"), strings.Index(out, "OCR digits"))
}

func TestRenderer_HTMLEscapes(t *testing.T) {
	out, err := New(nil).HTML([]domain.Code{{Symbology: "QRCODE", Value: "<script>&", Source: "qr"}})
	require.NoError(t, err)

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;&amp;")
}

func TestRenderer_Empty(t *testing.T) {
	r := New(nil)

	out, err := r.HTML(nil)
	require.NoError(t, err)
	assert.Equal(t, "<i>no codes found</i>", out)

	assert.Contains(t, r.Terminal(nil), "no codes found")
}

func TestRenderer_Terminal(t *testing.T) {
	out := New(nil).Terminal(mixed)

	assert.Contains(t, out, "Found 5 code(s)")
	assert.Contains(t, out, "GG labels")
	assert.Contains(t, out, "4006381333931")
	assert.Contains(t, out, "EAN13 · zxing")
}
