package driven

import "context"

// VisionLLM sends an image with an instruction to a multimodal model.
// This is an optional service - when nil, the LLM barcode decoder is disabled.
type VisionLLM interface {
	// DescribeImage returns the model's text answer for the prompt and image.
	DescribeImage(ctx context.Context, prompt string, image []byte, mimeType string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string
}
