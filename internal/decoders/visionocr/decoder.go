// Package visionocr provides the cloud OCR digit decoder.
//
// The photo's original bytes go to the text detector unchanged; every run
// of 8, 12 or 13 digits in the transcript becomes an OCR code. Results are
// cached by content hash, so a repeated photo costs no network call.
package visionocr

import (
	"context"
	"regexp"

	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
	"github.com/custodia-labs/labelscan/internal/logger"
)

// Name is the decoder name.
const Name = "vision-ocr"

// Ensure Decoder implements the interface.
var _ driven.Decoder = (*Decoder)(nil)

var digitRuns = regexp.MustCompile(`\b(\d{8}|\d{12}|\d{13})\b`)

// Decoder extracts digit runs from a cloud OCR transcript.
type Decoder struct {
	text  driven.TextDetector
	cache driven.VisionCache
}

// New creates a decoder. The cache is optional.
func New(text driven.TextDetector, cache driven.VisionCache) *Decoder {
	if text == nil || !text.Available() {
		logger.Info("%s: no vision credentials configured, decoder disabled", Name)
	}
	return &Decoder{text: text, cache: cache}
}

// Name returns the decoder name.
func (d *Decoder) Name() string { return Name }

// Decode consults the cache, then the text detector.
// Without credentials it returns no codes and makes no call.
func (d *Decoder) Decode(ctx context.Context, req *domain.DecodeRequest) ([]domain.Code, error) {
	if req == nil || len(req.Bytes) == 0 {
		return nil, domain.ErrInvalidImage
	}

	if d.cache != nil {
		if codes, ok := d.cache.Get(req.Bytes); ok {
			logger.Debug("%s: cache hit (%d code(s))", Name, len(codes))
			return codes, nil
		}
	}

	if d.text == nil || !d.text.Available() {
		return nil, nil
	}

	transcript, err := d.text.DetectText(ctx, req.Bytes, domain.OCRModeText)
	if err != nil {
		return nil, err
	}

	codes := ExtractDigits(transcript)
	if d.cache != nil {
		d.cache.Put(req.Bytes, codes)
	}
	return codes, nil
}

// ExtractDigits returns the distinct 8, 12 and 13 digit runs in text,
// in order of first appearance.
func ExtractDigits(text string) []domain.Code {
	matches := digitRuns.FindAllString(text, -1)
	codes := make([]domain.Code, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		codes = append(codes, domain.Code{Symbology: domain.SymbologyOCR, Value: m, Source: Name})
	}
	return codes
}
