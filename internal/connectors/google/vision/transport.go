package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/vision/v1"
)

// maxErrorBody bounds how much of an error response is kept.
const maxErrorBody = 4 << 10

// transport performs one annotate call.
type transport interface {
	Name() string
	Timeout() time.Duration
	Annotate(ctx context.Context, req *vision.BatchAnnotateImagesRequest) (*vision.BatchAnnotateImagesResponse, error)
}

// restTransport posts JSON to the annotate endpoint with an API key.
type restTransport struct {
	apiKey     string
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
}

func (t *restTransport) Name() string           { return "rest" }
func (t *restTransport) Timeout() time.Duration { return t.timeout }

func (t *restTransport) Annotate(
	ctx context.Context,
	req *vision.BatchAnnotateImagesRequest,
) (*vision.BatchAnnotateImagesResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	u, err := url.Parse(t.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("key", t.apiKey)
	u.RawQuery = q.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &googleapi.Error{
			Code:    resp.StatusCode,
			Message: strings.TrimSpace(string(msg)),
			Header:  resp.Header,
		}
	}

	var out vision.BatchAnnotateImagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// sdkTransport calls the generated API client with OAuth credentials.
type sdkTransport struct {
	svc     *vision.Service
	timeout time.Duration
}

func (t *sdkTransport) Name() string           { return "sdk" }
func (t *sdkTransport) Timeout() time.Duration { return t.timeout }

func (t *sdkTransport) Annotate(
	ctx context.Context,
	req *vision.BatchAnnotateImagesRequest,
) (*vision.BatchAnnotateImagesResponse, error) {
	return t.svc.Images.Annotate(req).Context(ctx).Do()
}
