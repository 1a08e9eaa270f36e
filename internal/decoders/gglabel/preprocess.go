package gglabel

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
)

// variant describes one preprocessing of the photo for OCR.
type variant struct {
	name string

	// minWidth upscales narrower photos to this width, keeping aspect ratio.
	minWidth int

	// contrast is a multiplier; 1 leaves the photo unchanged.
	contrast float64

	// sharpen is the Gaussian sigma; 0 disables sharpening.
	sharpen float64

	filter imaging.ResampleFilter
}

// standard is the single preprocessing of the basic decoder.
var standard = variant{name: "standard", minWidth: 1600, contrast: 1.3, filter: imaging.CatmullRom}

// highContrast is tried first by the improved decoder; a match here ends the search.
var highContrast = variant{name: "high_contrast", minWidth: 2000, contrast: 2.0, sharpen: 1.5, filter: imaging.Lanczos}

// improvedVariants are tried in order by the improved decoder.
var improvedVariants = []variant{
	highContrast,
	{name: "high_res", minWidth: 2400, contrast: 1.5, filter: imaging.Lanczos},
	standard,
}

// render applies the variant and encodes the result as PNG.
func (v variant) render(img image.Image) ([]byte, error) {
	out := img
	if img.Bounds().Dx() < v.minWidth {
		out = imaging.Resize(img, v.minWidth, 0, v.filter)
	}
	if v.contrast != 1 {
		out = imaging.AdjustContrast(out, (v.contrast-1)*100)
	}
	if v.sharpen > 0 {
		out = imaging.Sharpen(out, v.sharpen)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
