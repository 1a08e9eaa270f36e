package decoders

import (
	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
	"github.com/custodia-labs/labelscan/internal/decoders/gglabel"
	"github.com/custodia-labs/labelscan/internal/decoders/llmbarcode"
	"github.com/custodia-labs/labelscan/internal/decoders/qr"
	"github.com/custodia-labs/labelscan/internal/decoders/visionocr"
	"github.com/custodia-labs/labelscan/internal/decoders/zxing"
)

// RegisterDefaults registers all built-in decoders with the registry.
func RegisterDefaults(r *Registry) {
	r.Register(zxing.Name, func(Deps) (driven.Decoder, error) {
		return zxing.New(), nil
	})
	r.Register(qr.Name, func(Deps) (driven.Decoder, error) {
		return qr.New(), nil
	})
	r.Register(visionocr.Name, func(d Deps) (driven.Decoder, error) {
		return visionocr.New(d.Text, d.Cache), nil
	})
	r.Register(gglabel.Name, func(d Deps) (driven.Decoder, error) {
		return gglabel.New(d.Text), nil
	})
	r.Register(gglabel.ImprovedName, func(d Deps) (driven.Decoder, error) {
		return gglabel.NewImproved(d.Text), nil
	})
	r.Register(llmbarcode.Name, buildLLMBarcode)
}

func buildLLMBarcode(d Deps) (driven.Decoder, error) {
	dec := llmbarcode.New(d.LLM)
	if d.Prompts != nil {
		dec.SetPromptStore(d.Prompts)
	}
	return dec, nil
}

// DefaultNames returns the decoder list in priority order: the local
// scanners, cloud OCR, one GG label decoder and optionally the LLM reader.
func DefaultNames(cfg domain.DecoderSettings) []string {
	names := []string{zxing.Name, qr.Name, visionocr.Name}
	if cfg.ImprovedGG {
		names = append(names, gglabel.ImprovedName)
	} else {
		names = append(names, gglabel.Name)
	}
	if cfg.LLMBarcode {
		names = append(names, llmbarcode.Name)
	}
	return names
}

// NewDefault builds the default decoder list for the settings.
func NewDefault(cfg domain.DecoderSettings, deps Deps) ([]driven.Decoder, error) {
	r := NewRegistry()
	RegisterDefaults(r)
	return r.BuildAll(DefaultNames(cfg), deps)
}
