package ocr

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

const (
	// maxWidth/maxHeight bound the image fed to tesseract; receipt photos
	// off modern phones are far larger than recognition needs.
	maxWidth  = 1200
	maxHeight = 1600

	jpegQuality = 80
)

// Preprocess prepares a receipt photo for recognition: grayscale, a mild
// contrast boost, and a bounded downscale that preserves aspect ratio.
// Returns JPEG bytes ready for Engine.Recognize.
func Preprocess(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, 10)

	if b := out.Bounds(); b.Dx() > maxWidth || b.Dy() > maxHeight {
		out = imaging.Fit(out, maxWidth, maxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, out, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}
