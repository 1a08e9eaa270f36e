// Package ai builds the vision LLM adapter selected in settings.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/labelscan/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/labelscan/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/labelscan/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// pinger is implemented by every adapter this package creates.
type pinger interface {
	Ping(ctx context.Context) error
}

// CreateVisionLLM creates the vision LLM for the configured provider.
// An unconfigured provider returns domain.ErrLLMUnavailable.
func CreateVisionLLM(settings domain.LLMSettings) (driven.VisionLLM, error) {
	if !settings.Provider.IsValid() {
		return nil, fmt.Errorf("%w: unsupported LLM provider %q", domain.ErrLLMUnavailable, settings.Provider)
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: %s API key is not set", domain.ErrLLMUnavailable, settings.Provider)
	}

	switch settings.Provider {
	case domain.LLMProviderAnthropic:
		svc, err := anthropicllm.NewVisionService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	case domain.LLMProviderOllama:
		return ollamallm.NewVisionService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	default:
		svc, err := openaillm.NewVisionService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil
	}
}

// ValidateLLMConfig creates the configured service and pings it.
func ValidateLLMConfig(ctx context.Context, settings domain.LLMSettings) error {
	svc, err := CreateVisionLLM(settings)
	if err != nil {
		return err
	}

	p, ok := svc.(pinger)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}
	return nil
}
