// Package llmbarcode asks a multimodal LLM to transcribe the digits printed
// beneath barcode stripes.
package llmbarcode

import (
	"context"
	"strings"

	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
	"github.com/custodia-labs/labelscan/internal/logger"
)

// Name is the decoder name.
const Name = "llm-barcode"

// Ensure Decoder implements the interfaces.
var (
	_ driven.Decoder          = (*Decoder)(nil)
	_ driven.PromptStoreAware = (*Decoder)(nil)
)

// defaultPrompt is used when no prompt store is configured.
const defaultPrompt = `Find and extract ALL barcodes/UPC codes visible on this image.
Return ONLY the numbers, one per line, no additional text.`

// Decoder reads barcode digits with a vision LLM.
type Decoder struct {
	llm     driven.VisionLLM
	prompts driven.PromptStore
}

// New creates a decoder. A nil llm disables it.
func New(llm driven.VisionLLM) *Decoder {
	if llm == nil {
		logger.Info("%s: no vision LLM configured, decoder disabled", Name)
	}
	return &Decoder{llm: llm}
}

// SetPromptStore sets the prompt store used to load the instruction.
func (d *Decoder) SetPromptStore(store driven.PromptStore) {
	d.prompts = store
}

// Name returns the decoder name.
func (d *Decoder) Name() string { return Name }

// Decode sends the original bytes with the instruction and parses the answer.
func (d *Decoder) Decode(ctx context.Context, req *domain.DecodeRequest) ([]domain.Code, error) {
	if req == nil || len(req.Bytes) == 0 {
		return nil, domain.ErrInvalidImage
	}
	if d.llm == nil {
		return nil, nil
	}

	answer, err := d.llm.DescribeImage(ctx, d.prompt(), req.Bytes, req.MIMEType())
	if err != nil {
		return nil, err
	}
	return ParseAnswer(answer), nil
}

func (d *Decoder) prompt() string {
	if d.prompts == nil {
		return defaultPrompt
	}
	p, err := d.prompts.Load(driven.PromptBarcodeReader)
	if err != nil || strings.TrimSpace(p) == "" {
		logger.Debug("%s: using built-in prompt: %v", Name, err)
		return defaultPrompt
	}
	return p
}

// ParseAnswer keeps the digits of each line and returns the distinct lines
// with 12 to 14 digits, tagged by length.
func ParseAnswer(answer string) []domain.Code {
	var codes []domain.Code
	seen := make(map[string]struct{})
	for _, line := range strings.Split(answer, "\n") {
		digits := strings.Map(func(r rune) rune {
			if r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, line)

		if len(digits) < 12 || len(digits) > 14 {
			continue
		}
		if _, ok := seen[digits]; ok {
			continue
		}
		seen[digits] = struct{}{}
		codes = append(codes, domain.Code{Symbology: symbologyFor(digits), Value: digits, Source: Name})
	}
	return codes
}

func symbologyFor(digits string) string {
	switch len(digits) {
	case 13:
		return domain.SymbologyEAN13
	case 12:
		return domain.SymbologyUPCA
	default:
		return domain.SymbologyCode128
	}
}
