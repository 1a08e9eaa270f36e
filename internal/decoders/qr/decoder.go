// Package qr provides a QR-only decoder backed by goqr.
//
// It uses a different detection algorithm from the zxing decoder and
// serves as a cross-check for photos where one of them misses the symbol.
package qr

import (
	"context"

	"github.com/liyue201/goqr"

	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
	"github.com/custodia-labs/labelscan/internal/logger"
)

// Name is the decoder name.
const Name = "qr"

// Ensure Decoder implements the interfaces.
var _ driven.TieredDecoder = (*Decoder)(nil)

// recognize is swapped in tests.
var recognize = goqr.Recognize

// Decoder reports the first QR payload found in a photo.
type Decoder struct{}

// New creates a QR decoder.
func New() *Decoder {
	return &Decoder{}
}

// Name returns the decoder name.
func (d *Decoder) Name() string { return Name }

// Tier returns the quick tier.
func (d *Decoder) Tier() domain.Tier { return domain.TierQuick }

// Decode returns at most one code.
func (d *Decoder) Decode(_ context.Context, req *domain.DecodeRequest) ([]domain.Code, error) {
	if req == nil || req.Image == nil {
		return nil, domain.ErrInvalidImage
	}

	symbols, err := recognize(req.Image)
	if err != nil {
		// goqr reports "no symbol" as an error.
		logger.Debug("qr: %v", err)
		return nil, nil
	}

	for _, s := range symbols {
		if len(s.Payload) == 0 {
			continue
		}
		return []domain.Code{{
			Symbology: domain.SymbologyQR,
			Value:     string(s.Payload),
			Source:    Name,
		}}, nil
	}
	return nil, nil
}
