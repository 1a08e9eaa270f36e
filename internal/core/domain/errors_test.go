package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestErrors_Existence tests that all error variables exist and are not nil
func TestErrors_Existence(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", ErrNotFound},
		{"ErrInvalidInput", ErrInvalidInput},
		{"ErrInvalidImage", ErrInvalidImage},
		{"ErrUnknownPolicy", ErrUnknownPolicy},
		{"ErrUnknownDecoder", ErrUnknownDecoder},
		{"ErrDecoderUnavailable", ErrDecoderUnavailable},
		{"ErrRetriesExhausted", ErrRetriesExhausted},
		{"ErrMalformedResponse", ErrMalformedResponse},
		{"ErrLLMUnavailable", ErrLLMUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.err)
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestErrors_Wrapping(t *testing.T) {
	wrapped := fmt.Errorf("vision-ocr: %w", ErrRetriesExhausted)
	assert.True(t, errors.Is(wrapped, ErrRetriesExhausted))
	assert.False(t, errors.Is(wrapped, ErrDecoderUnavailable))
}
