package driving

import (
	"context"

	"github.com/custodia-labs/labelscan/internal/core/domain"
)

// ScanService decodes photos and records what it found.
type ScanService interface {
	// Scan decodes one encoded photo under the given policy.
	// An empty policy uses the configured default.
	// Returns domain.ErrInvalidImage if data cannot be decoded.
	Scan(ctx context.Context, data []byte, opts ScanOptions) (*domain.ScanResult, error)
}

// ScanOptions configures a single scan.
type ScanOptions struct {
	// Policy overrides the default pipeline policy.
	Policy domain.Policy

	// BatchID groups scans that belong to one upload.
	BatchID string

	// SkipRecord disables writing to the scan store.
	SkipRecord bool
}
