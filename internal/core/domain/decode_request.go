package domain

import (
	"bytes"
	"fmt"
	"image"

	// Register decoders for the formats photos arrive in.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// DecodeRequest carries one photo through the decoder pipeline.
// Local scanners read the decoded pixels; cloud services receive the
// original bytes verbatim to avoid re-encoding artifacts.
type DecodeRequest struct {
	// Image is the decoded pixel buffer.
	Image image.Image

	// Bytes is the original encoded image.
	Bytes []byte

	// Format is the encoding reported by image.Decode (jpeg, png, gif).
	Format string
}

// NewDecodeRequest decodes data and returns a request carrying both forms.
func NewDecodeRequest(data []byte) (*DecodeRequest, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrInvalidImage)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return &DecodeRequest{Image: img, Bytes: data, Format: format}, nil
}

// MIMEType returns the MIME type of the original bytes.
func (r *DecodeRequest) MIMEType() string {
	switch r.Format {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
