// Package zxing provides the local multi-symbology barcode decoder.
package zxing

import (
	"context"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/oned"
	"github.com/makiuchi-d/gozxing/qrcode"

	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
	"github.com/custodia-labs/labelscan/internal/logger"
)

// Name is the decoder name.
const Name = "zxing"

// Ensure Decoder implements the interfaces.
var _ driven.TieredDecoder = (*Decoder)(nil)

// formats maps reader formats to symbology tags.
// Formats outside this table are not reported.
var formats = map[gozxing.BarcodeFormat]string{
	gozxing.BarcodeFormat_EAN_13:   domain.SymbologyEAN13,
	gozxing.BarcodeFormat_EAN_8:    domain.SymbologyEAN8,
	gozxing.BarcodeFormat_UPC_A:    domain.SymbologyUPCA,
	gozxing.BarcodeFormat_UPC_E:    domain.SymbologyUPCE,
	gozxing.BarcodeFormat_CODE_39:  domain.SymbologyCode39,
	gozxing.BarcodeFormat_CODE_93:  domain.SymbologyCode93,
	gozxing.BarcodeFormat_CODE_128: domain.SymbologyCode128,
	gozxing.BarcodeFormat_ITF:      domain.SymbologyITF,
	gozxing.BarcodeFormat_QR_CODE:  domain.SymbologyQR,
}

// Decoder reads 1D symbols and QR codes with gozxing.
// Each reader reports at most one symbol per call.
type Decoder struct {
	readers []gozxing.Reader
	hints   map[gozxing.DecodeHintType]interface{}
}

// New creates a decoder over the UPC/EAN family reader, one reader per
// remaining 1D symbology and the QR reader. CODE39 must stay in the list:
// provisional Q-codes are printed in it.
func New() *Decoder {
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	}
	return &Decoder{
		readers: []gozxing.Reader{
			oned.NewMultiFormatUPCEANReader(hints),
			oned.NewCode39Reader(),
			oned.NewCode93Reader(),
			oned.NewCode128Reader(),
			oned.NewITFReader(),
			qrcode.NewQRCodeReader(),
		},
		hints: hints,
	}
}

// Name returns the decoder name.
func (d *Decoder) Name() string { return Name }

// Tier returns the quick tier: no network I/O.
func (d *Decoder) Tier() domain.Tier { return domain.TierQuick }

// Decode runs every reader over the photo.
// A reader that finds nothing contributes no codes.
func (d *Decoder) Decode(ctx context.Context, req *domain.DecodeRequest) ([]domain.Code, error) {
	if req == nil || req.Image == nil {
		return nil, domain.ErrInvalidImage
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(req.Image)
	if err != nil {
		return nil, err
	}

	var codes []domain.Code
	for _, r := range d.readers {
		if err := ctx.Err(); err != nil {
			return codes, err
		}

		res, err := r.Decode(bmp, d.hints)
		if err != nil {
			logger.Debug("zxing: %v", err)
			continue
		}

		if c, ok := toCode(res); ok {
			codes = append(codes, c)
		}
	}
	return codes, nil
}

// toCode converts a reader result. Unknown formats and empty payloads are dropped.
func toCode(res *gozxing.Result) (domain.Code, bool) {
	if res == nil || res.GetText() == "" {
		return domain.Code{}, false
	}
	sym, ok := formats[res.GetBarcodeFormat()]
	if !ok {
		return domain.Code{}, false
	}
	return domain.Code{Symbology: sym, Value: res.GetText(), Source: Name}, true
}
