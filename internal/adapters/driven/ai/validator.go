package ai

import (
	"context"

	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.LLMValidator = (*ConfigValidator)(nil)

// ConfigValidator validates vision LLM configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateLLM validates an LLM configuration by pinging the provider.
func (v *ConfigValidator) ValidateLLM(ctx context.Context, config domain.LLMSettings) error {
	return ValidateLLMConfig(ctx, config)
}
