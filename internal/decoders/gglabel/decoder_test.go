package gglabel

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/labelscan/internal/core/domain"
)

// call records one DetectText invocation.
type call struct {
	mode        domain.OCRMode
	width       int
	hasDeadline bool
}

// mockDetector answers DetectText from a per-mode script.
type mockDetector struct {
	mu        sync.Mutex
	available bool
	byMode    map[domain.OCRMode]string
	err       error
	calls     []call
}

func (m *mockDetector) Available() bool { return m.available }

func (m *mockDetector) DetectText(ctx context.Context, data []byte, mode domain.OCRMode) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	width := 0
	if cfg, err := png.DecodeConfig(bytes.NewReader(data)); err == nil {
		width = cfg.Width
	}
	_, hasDeadline := ctx.Deadline()
	m.calls = append(m.calls, call{mode: mode, width: width, hasDeadline: hasDeadline})
	if m.err != nil {
		return "", m.err
	}
	return m.byMode[mode], nil
}

func request() *domain.DecodeRequest {
	return &domain.DecodeRequest{
		Image: image.NewGray(image.Rect(0, 0, 40, 10)),
		Bytes: []byte("original"),
	}
}

func TestDecoder_Basic(t *testing.T) {
	det := &mockDetector{
		available: true,
		byMode:    map[domain.OCRMode]string{domain.OCRModeText: "BOX\nGG747\nG2548"},
	}

	codes, err := New(det).Decode(context.Background(), request())

	require.NoError(t, err)
	assert.Equal(t, []string{"GG747", "G2548"}, values(codes))
	require.Len(t, det.calls, 1)
	assert.Equal(t, domain.OCRModeText, det.calls[0].mode)
	assert.Equal(t, 1600, det.calls[0].width)
}

func TestDecoder_BasicUnavailable(t *testing.T) {
	det := &mockDetector{}

	codes, err := New(det).Decode(context.Background(), request())

	require.NoError(t, err)
	assert.Empty(t, codes)
	assert.Empty(t, det.calls)
}

func TestDecoder_BasicError(t *testing.T) {
	det := &mockDetector{available: true, err: domain.ErrRetriesExhausted}

	_, err := New(det).Decode(context.Background(), request())

	assert.ErrorIs(t, err, domain.ErrRetriesExhausted)
}

func TestImproved_StopsOnHighContrastMatch(t *testing.T) {
	det := &mockDetector{
		available: true,
		byMode:    map[domain.OCRMode]string{domain.OCRModeDocument: "OO747"},
	}

	codes, err := NewImproved(det).Decode(context.Background(), request())

	require.NoError(t, err)
	assert.Equal(t, []string{"GG747"}, values(codes))
	require.Len(t, det.calls, 1)
	assert.Equal(t, call{mode: domain.OCRModeDocument, width: 2000}, det.calls[0])
}

func TestImproved_FallsBackToTextMode(t *testing.T) {
	det := &mockDetector{
		available: true,
		byMode:    map[domain.OCRMode]string{domain.OCRModeText: "66752"},
	}

	codes, err := NewImproved(det).Decode(context.Background(), request())

	require.NoError(t, err)
	assert.Equal(t, []string{"GG752"}, values(codes))
	assert.Equal(t, []call{
		{mode: domain.OCRModeDocument, width: 2000},
		{mode: domain.OCRModeText, width: 2000},
	}, det.calls)
}

func TestImproved_TriesEveryVariant(t *testing.T) {
	det := &mockDetector{available: true, byMode: map[domain.OCRMode]string{}}

	codes, err := NewImproved(det).Decode(context.Background(), request())

	require.NoError(t, err)
	assert.Empty(t, codes)

	var widths []int
	for _, c := range det.calls {
		widths = append(widths, c.width)
	}
	assert.Equal(t, []int{2000, 2000, 2400, 2400, 1600, 1600}, widths)
}

// slowDetector mimics a client whose first transport hangs until its own
// attempt timeout before the fallback transport answers.
type slowDetector struct {
	delay      time.Duration
	transcript string
	calls      int
}

func (s *slowDetector) Available() bool { return true }

func (s *slowDetector) DetectText(ctx context.Context, _ []byte, _ domain.OCRMode) (string, error) {
	s.calls++
	select {
	case <-time.After(s.delay):
		return s.transcript, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestImproved_LeavesOCRBudgetToDetector(t *testing.T) {
	det := &mockDetector{
		available: true,
		byMode:    map[domain.OCRMode]string{domain.OCRModeDocument: "GG747"},
	}

	_, err := NewImproved(det).Decode(context.Background(), request())

	require.NoError(t, err)
	require.NotEmpty(t, det.calls)
	for _, c := range det.calls {
		assert.False(t, c.hasDeadline, "OCR call must not get a deadline of its own")
	}
}

func TestImproved_SlowFallbackStillAnswers(t *testing.T) {
	det := &slowDetector{delay: 30 * time.Millisecond, transcript: "shelf OO752"}

	codes, err := NewImproved(det).Decode(context.Background(), request())

	require.NoError(t, err)
	require.Len(t, codes, 1)
	assert.Equal(t, "GG752", codes[0].Value)
	assert.Equal(t, "GG", codes[0].Symbology)
}

func TestImproved_CallerCancellationStops(t *testing.T) {
	det := &slowDetector{delay: time.Second, transcript: "GG747"}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewImproved(det).Decode(ctx, request())

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, det.calls)
}

func TestImproved_AllCallsFail(t *testing.T) {
	det := &mockDetector{available: true, err: errors.New("quota")}

	_, err := NewImproved(det).Decode(context.Background(), request())

	require.Error(t, err)
	assert.Len(t, det.calls, 6)
}

func TestImproved_Unavailable(t *testing.T) {
	codes, err := NewImproved(nil).Decode(context.Background(), request())

	require.NoError(t, err)
	assert.Empty(t, codes)
}

func TestVariant_KeepsWideImages(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 2500, 20))

	data, err := standard.render(img)
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 2500, cfg.Width)
}
