package google

import (
	"context"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/vision/v1"
)

// NewVisionService creates a Cloud Vision API service using the provided TokenSource.
// Extra options (endpoint, HTTP client) are appended after the token source.
func NewVisionService(ctx context.Context, ts oauth2.TokenSource, opts ...option.ClientOption) (*vision.Service, error) {
	return vision.NewService(ctx, append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)...)
}
