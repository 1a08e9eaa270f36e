package vision

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/vision/v1"

	"github.com/custodia-labs/labelscan/internal/connectors/google"
	"github.com/custodia-labs/labelscan/internal/core/domain"
	"github.com/custodia-labs/labelscan/internal/core/ports/driven"
	"github.com/custodia-labs/labelscan/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.TextDetector = (*Client)(nil)

// Client detects text through Cloud Vision. The REST transport is tried
// first; the SDK transport is the fallback. Each transport gets its own
// bounded number of attempts with doubling delays.
type Client struct {
	transports []transport
	limiter    *google.RateLimiter
	cfg        Config
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewClient builds a client from the configuration. Transports that cannot
// be configured are skipped; a client with none reports Available() false.
func NewClient(ctx context.Context, cfg Config) *Client {
	cfg = cfg.withDefaults()

	var transports []transport
	if cfg.APIKey != "" {
		transports = append(transports, &restTransport{
			apiKey:     cfg.APIKey,
			endpoint:   cfg.Endpoint,
			timeout:    cfg.RESTTimeout,
			httpClient: cfg.HTTPClient,
		})
	}
	if !cfg.DisableSDK {
		if sdk, err := newSDKTransport(ctx, cfg); err != nil {
			logger.Debug("Vision SDK transport unavailable: %v", err)
		} else {
			transports = append(transports, sdk)
		}
	}

	return newClient(cfg, transports...)
}

func newSDKTransport(ctx context.Context, cfg Config) (*sdkTransport, error) {
	ts, err := google.NewTokenSource(ctx, cfg.CredentialsFile)
	if err != nil {
		return nil, err
	}
	svc, err := google.NewVisionService(ctx, ts, option.WithScopes(vision.CloudPlatformScope))
	if err != nil {
		return nil, fmt.Errorf("create vision service: %w", err)
	}
	return &sdkTransport{svc: svc, timeout: cfg.SDKTimeout}, nil
}

func newClient(cfg Config, transports ...transport) *Client {
	cfg = cfg.withDefaults()
	return &Client{
		transports: transports,
		limiter: google.NewRateLimiterWithConfig(google.RateLimitConfig{
			RequestsPerSecond: cfg.RequestsPerSecond,
			BurstSize:         google.DefaultRateLimits[google.ServiceVision].BurstSize,
		}),
		cfg:   cfg,
		sleep: sleepContext,
	}
}

// Available returns true if at least one transport is configured.
func (c *Client) Available() bool {
	return len(c.transports) > 0
}

// Transports returns the configured transport names in call order.
func (c *Client) Transports() []string {
	names := make([]string, len(c.transports))
	for i, t := range c.transports {
		names[i] = t.Name()
	}
	return names
}

// DetectText returns the full text annotation of the image, or "" when
// the service found no text. It fails with domain.ErrRetriesExhausted when
// every transport has failed.
func (c *Client) DetectText(ctx context.Context, image []byte, mode domain.OCRMode) (string, error) {
	if !c.Available() {
		return "", fmt.Errorf("%w: no vision credentials configured", domain.ErrDecoderUnavailable)
	}
	if mode == "" {
		mode = domain.OCRModeText
	}

	req := &vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{{
			Image:        &vision.Image{Content: base64.StdEncoding.EncodeToString(image)},
			Features:     []*vision.Feature{{Type: string(mode)}},
			ImageContext: &vision.ImageContext{LanguageHints: c.cfg.LanguageHints},
		}},
	}

	var lastErr error
	for _, t := range c.transports {
		start := time.Now()
		text, err := c.withRetry(ctx, t, req)
		logger.Timing(fmt.Sprintf("vision %s %s", t.Name(), mode), start)
		if err == nil {
			return text, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		logger.Warn("Vision %s transport failed: %v", t.Name(), err)
		lastErr = err
	}

	return "", fmt.Errorf("%w: %w", domain.ErrRetriesExhausted, lastErr)
}

// withRetry runs up to MaxAttempts calls, sleeping BaseDelay * 2^n between them.
func (c *Client) withRetry(ctx context.Context, t transport, req *vision.BatchAnnotateImagesRequest) (string, error) {
	var err error
	for attempt := 0; attempt < c.cfg.MaxAttempts; attempt++ {
		if attempt > 0 {
			delay := c.cfg.BaseDelay * time.Duration(1<<(attempt-1))
			logger.Debug("Vision %s retry %d after %s", t.Name(), attempt, delay)
			if sleepErr := c.sleep(ctx, delay); sleepErr != nil {
				return "", sleepErr
			}
		}

		var text string
		text, err = c.attempt(ctx, t, req)
		if err == nil {
			return text, nil
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if google.IsRateLimited(err) {
			c.limiter.RecordRateLimitError(google.RetryAfter(err))
		}
		if !google.IsRetryable(err) {
			return "", google.WrapError(err)
		}
	}
	return "", google.WrapError(err)
}

// attempt performs one bounded call and extracts the text.
func (c *Client) attempt(ctx context.Context, t transport, req *vision.BatchAnnotateImagesRequest) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	attemptCtx, cancel := context.WithTimeout(ctx, t.Timeout())
	defer cancel()

	resp, err := t.Annotate(attemptCtx, req)
	if err != nil {
		if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return "", fmt.Errorf("%s attempt timed out after %s: %w", t.Name(), t.Timeout(), err)
		}
		return "", err
	}
	return extractText(resp)
}

// extractText returns the first response's full text. A per-image error
// status is surfaced as a googleapi.Error so the retry policy applies to it.
func extractText(resp *vision.BatchAnnotateImagesResponse) (string, error) {
	if resp == nil || len(resp.Responses) == 0 {
		return "", fmt.Errorf("%w: no responses", domain.ErrMalformedResponse)
	}
	r := resp.Responses[0]
	if r == nil {
		return "", fmt.Errorf("%w: nil response", domain.ErrMalformedResponse)
	}
	if r.Error != nil && r.Error.Code != 0 {
		return "", &googleapi.Error{Code: statusToHTTP(r.Error.Code), Message: r.Error.Message}
	}
	if r.FullTextAnnotation != nil {
		return r.FullTextAnnotation.Text, nil
	}
	if len(r.TextAnnotations) > 0 && r.TextAnnotations[0] != nil {
		return r.TextAnnotations[0].Description, nil
	}
	return "", nil
}

// statusToHTTP maps google.rpc.Code values onto HTTP statuses.
func statusToHTTP(code int64) int {
	switch code {
	case 3: // INVALID_ARGUMENT
		return 400
	case 16: // UNAUTHENTICATED
		return 401
	case 7: // PERMISSION_DENIED
		return 403
	case 5: // NOT_FOUND
		return 404
	case 8: // RESOURCE_EXHAUSTED
		return 429
	case 4: // DEADLINE_EXCEEDED
		return 504
	case 14: // UNAVAILABLE
		return 503
	default:
		return 500
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
