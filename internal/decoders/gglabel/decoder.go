// Package gglabel reads printed GG inventory labels from cloud OCR transcripts.
//
// Two decoders are provided. Decoder runs one preprocessing and one text
// detection pass. Improved tries several preprocessings and both OCR modes
// and corrects common OCR confusions of the GG prefix.
package gglabel

import (
	"context"

	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
	"github.com/custodia-labs/labelscan/internal/logger"
)

// Decoder names.
const (
	Name         = "gg-label"
	ImprovedName = "gg-label-improved"
)

// Ensure both decoders implement the interface.
var (
	_ driven.Decoder = (*Decoder)(nil)
	_ driven.Decoder = (*Improved)(nil)
)

// Decoder is the basic GG label decoder.
type Decoder struct {
	text driven.TextDetector
}

// New creates the basic decoder.
func New(text driven.TextDetector) *Decoder {
	if text == nil || !text.Available() {
		logger.Info("%s: no vision credentials configured, decoder disabled", Name)
	}
	return &Decoder{text: text}
}

// Name returns the decoder name.
func (d *Decoder) Name() string { return Name }

// Decode upscales and contrast-boosts the photo, then extracts labels from
// the text detection transcript.
func (d *Decoder) Decode(ctx context.Context, req *domain.DecodeRequest) ([]domain.Code, error) {
	if req == nil || req.Image == nil {
		return nil, domain.ErrInvalidImage
	}
	if d.text == nil || !d.text.Available() {
		return nil, nil
	}

	data, err := standard.render(req.Image)
	if err != nil {
		logger.Debug("%s: preprocessing failed, using original bytes: %v", Name, err)
		data = req.Bytes
	}

	transcript, err := d.text.DetectText(ctx, data, domain.OCRModeText)
	if err != nil {
		return nil, err
	}
	return ExtractLabels(transcript, Name), nil
}

// Improved is the multi-variant GG label decoder.
// OCR calls carry only the caller's context; the text detector bounds each
// attempt and owns the transport fallback.
type Improved struct {
	text driven.TextDetector
}

// NewImproved creates the improved decoder.
func NewImproved(text driven.TextDetector) *Improved {
	if text == nil || !text.Available() {
		logger.Info("%s: no vision credentials configured, decoder disabled", ImprovedName)
	}
	return &Improved{text: text}
}

// Name returns the decoder name.
func (d *Improved) Name() string { return ImprovedName }

// Decode tries each preprocessing variant in turn, document mode first and
// text mode when document mode found nothing. A match on the high contrast
// variant ends the search early.
//
// An error is returned only if every OCR call failed.
func (d *Improved) Decode(ctx context.Context, req *domain.DecodeRequest) ([]domain.Code, error) {
	if req == nil || req.Image == nil {
		return nil, domain.ErrInvalidImage
	}
	if d.text == nil || !d.text.Available() {
		return nil, nil
	}

	var (
		labels    labelSet
		firstErr  error
		succeeded bool
	)

	for _, img := range d.variants(req) {
		logger.Debug("%s: trying variant %s", ImprovedName, img.name)

		for _, mode := range []domain.OCRMode{domain.OCRModeDocument, domain.OCRModeText} {
			transcript, err := d.text.DetectText(ctx, img.data, mode)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				if ctx.Err() != nil {
					return labels.codes, ctx.Err()
				}
				continue
			}
			succeeded = true

			found := ExtractLabelsCorrected(transcript, ImprovedName)
			for _, c := range found {
				labels.add(c.Value, ImprovedName)
			}
			if len(found) > 0 {
				break
			}
		}

		if len(labels.codes) > 0 && img.name == highContrast.name {
			logger.Debug("%s: found %d label(s) on %s, stopping early", ImprovedName, len(labels.codes), img.name)
			return labels.codes, nil
		}
	}

	if !succeeded && firstErr != nil {
		return nil, firstErr
	}
	return labels.codes, nil
}

type renderedVariant struct {
	name string
	data []byte
}

// variants renders every preprocessing. If any fails, the original bytes
// are used alone.
func (d *Improved) variants(req *domain.DecodeRequest) []renderedVariant {
	out := make([]renderedVariant, 0, len(improvedVariants))
	for _, v := range improvedVariants {
		data, err := v.render(req.Image)
		if err != nil {
			logger.Debug("%s: preparing variant %s failed: %v", ImprovedName, v.name, err)
			return []renderedVariant{{name: "original", data: req.Bytes}}
		}
		out = append(out, renderedVariant{name: v.name, data: data})
	}
	return out
}
