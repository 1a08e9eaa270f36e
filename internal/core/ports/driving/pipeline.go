package driving

import (
	"context"

	"github.com/custodia-labs/labelscan/internal/core/domain"
)

// DecodePipeline runs a fixed set of decoders over one photo and returns
// the deduplicated codes. None of its methods fail: a decoder error or
// panic counts as zero codes, and "no codes" is a valid result.
type DecodePipeline interface {
	// Run executes every decoder sequentially.
	Run(ctx context.Context, req *domain.DecodeRequest) []domain.Code

	// RunDebug executes every decoder sequentially and records a timeline.
	RunDebug(ctx context.Context, req *domain.DecodeRequest) ([]domain.Code, []domain.TimelineEntry)

	// RunSmartParallelDebug runs the quick tier concurrently and, only if it
	// found no definitive code, the slow tier concurrently as well.
	RunSmartParallelDebug(ctx context.Context, req *domain.DecodeRequest) ([]domain.Code, []domain.TimelineEntry)

	// RunParallelDebug runs every decoder concurrently.
	RunParallelDebug(ctx context.Context, req *domain.DecodeRequest) ([]domain.Code, []domain.TimelineEntry)

	// DecoderNames returns the decoder names in list order.
	DecoderNames() []string
}
