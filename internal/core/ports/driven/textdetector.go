package driven

import (
	"context"

	"github.com/custodia-labs/labelscan/internal/core/domain"
)

// TextDetector performs cloud text recognition on encoded image bytes.
type TextDetector interface {
	// DetectText returns the full-text transcript of the image.
	// An error means every transport and retry failed.
	DetectText(ctx context.Context, image []byte, mode domain.OCRMode) (string, error)

	// Available reports whether any transport is configured.
	// Decoders skip network I/O entirely when it returns false.
	Available() bool
}
