package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
	"github.com/custodia-labs/labelscan/internal/core/ports/driving"
	"github.com/custodia-labs/labelscan/internal/logger"
)

// Ensure ScanService implements the interface.
var _ driving.ScanService = (*ScanService)(nil)

// ScanService decodes photos through the pipeline and records the codes.
type ScanService struct {
	pipeline      driving.DecodePipeline
	store         driven.ScanStore
	defaultPolicy domain.Policy
}

// NewScanService creates a new scan service.
// The store parameter is optional (can be nil).
func NewScanService(pipeline driving.DecodePipeline, store driven.ScanStore, defaultPolicy domain.Policy) *ScanService {
	if !defaultPolicy.IsValid() {
		defaultPolicy = domain.PolicySmart
	}
	return &ScanService{
		pipeline:      pipeline,
		store:         store,
		defaultPolicy: defaultPolicy,
	}
}

// Scan decodes one photo and records every resulting code.
// Recording failures are logged and never fail the scan.
func (s *ScanService) Scan(ctx context.Context, data []byte, opts driving.ScanOptions) (*domain.ScanResult, error) {
	policy := opts.Policy
	if policy == "" {
		policy = s.defaultPolicy
	}
	if !policy.IsValid() {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownPolicy, policy)
	}

	req, err := domain.NewDecodeRequest(data)
	if err != nil {
		return nil, err
	}

	result := &domain.ScanResult{
		ID:     uuid.NewString(),
		Policy: policy,
	}

	start := time.Now()
	result.Codes, result.Timeline = execute(ctx, s.pipeline, policy, req)
	result.Elapsed = time.Since(start)
	logger.Info("Scan %s: %d code(s) in %s (%s)", result.ID, len(result.Codes), result.Elapsed, policy)

	if s.store == nil || opts.SkipRecord {
		return result, nil
	}

	batchID := opts.BatchID
	if batchID == "" {
		batchID = result.ID
	}
	for _, c := range result.Codes {
		rec, err := s.store.RecordScan(ctx, c, batchID)
		if err != nil {
			logger.Warn("Recording scan of %s failed: %v", c, err)
			continue
		}
		result.Records = append(result.Records, rec)
	}

	return result, nil
}

// execute runs the pipeline under the policy.
func execute(
	ctx context.Context,
	pipeline driving.DecodePipeline,
	policy domain.Policy,
	req *domain.DecodeRequest,
) ([]domain.Code, []domain.TimelineEntry) {
	switch policy {
	case domain.PolicySequential:
		return pipeline.Run(ctx, req), nil
	case domain.PolicyDebug:
		return pipeline.RunDebug(ctx, req)
	case domain.PolicyParallel:
		return pipeline.RunParallelDebug(ctx, req)
	default:
		return pipeline.RunSmartParallelDebug(ctx, req)
	}
}
