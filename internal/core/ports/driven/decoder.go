package driven

import (
	"context"

	"github.com/custodia-labs/labelscan/internal/core/domain"
)

// Decoder recognises codes in a single photo.
// Implementations include local barcode and QR scanners, cloud OCR,
// heuristic GG label readers and a vision-LLM barcode reader.
//
// Decoders are stateless between calls apart from static configuration.
// They should absorb foreseeable failures (network errors, missing
// libraries) and return no codes; the pipeline still isolates any
// error or panic that escapes.
type Decoder interface {
	// Name returns the stable decoder name used for diagnostics and tiering.
	Name() string

	// Decode returns the codes found in the photo. It never returns
	// a code with an empty value.
	Decode(ctx context.Context, req *domain.DecodeRequest) ([]domain.Code, error)
}

// TieredDecoder is implemented by decoders that declare their pipeline tier.
// Decoders that do not implement it belong to the slow tier.
type TieredDecoder interface {
	Decoder

	// Tier returns the tier the decoder runs in.
	Tier() domain.Tier
}

// TierOf returns the decoder's declared tier, defaulting to the slow tier.
func TierOf(d Decoder) domain.Tier {
	if t, ok := d.(TieredDecoder); ok {
		return t.Tier()
	}
	return domain.TierSlow
}
