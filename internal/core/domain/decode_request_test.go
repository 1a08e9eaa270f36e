package domain

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.Black)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNewDecodeRequest(t *testing.T) {
	data := encodePNG(t, 12, 8)

	req, err := NewDecodeRequest(data)
	require.NoError(t, err)

	assert.Equal(t, "png", req.Format)
	assert.Equal(t, "image/png", req.MIMEType())
	assert.Equal(t, data, req.Bytes)
	assert.Equal(t, 12, req.Image.Bounds().Dx())
}

func TestNewDecodeRequest_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"nil bytes", nil},
		{"not an image", []byte("definitely not an image")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewDecodeRequest(tt.data)
			assert.Nil(t, req)
			assert.True(t, errors.Is(err, ErrInvalidImage))
		})
	}
}

func TestDecodeRequest_MIMEType_DefaultsToJPEG(t *testing.T) {
	req := &DecodeRequest{Format: "jpeg"}
	assert.Equal(t, "image/jpeg", req.MIMEType())
}
