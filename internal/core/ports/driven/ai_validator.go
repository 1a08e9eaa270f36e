package driven

import (
	"context"

	"github.com/custodia-labs/labelscan/internal/core/domain"
)

// LLMValidator checks a vision LLM configuration by contacting the provider.
type LLMValidator interface {
	// ValidateLLM returns nil if the provider answered. An unconfigured
	// provider returns domain.ErrLLMUnavailable.
	ValidateLLM(ctx context.Context, config domain.LLMSettings) error
}
