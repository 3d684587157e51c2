// Package ocr wraps text recognition for receipt photos.
//
// The Engine interface keeps the tesseract dependency out of everything
// else (and out of the tests, which run without a tesseract install).
package ocr

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

// Engine recognizes text in an image.
type Engine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// receiptWhitelist restricts recognition to characters that actually occur
// on retail receipts, which noticeably reduces OCR noise.
const receiptWhitelist = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789.,$%:/ -"

// Tesseract is a gosseract-backed Engine.
type Tesseract struct{}

// NewTesseract creates a tesseract-backed OCR engine.
func NewTesseract() *Tesseract {
	return &Tesseract{}
}

// Recognize runs tesseract over the (already preprocessed) image bytes.
// A fresh client per call keeps the engine safe for concurrent use.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage("eng"); err != nil {
		return "", fmt.Errorf("failed to set OCR language: %w", err)
	}
	if err := client.SetWhitelist(receiptWhitelist); err != nil {
		return "", fmt.Errorf("failed to set OCR whitelist: %w", err)
	}
	if err := client.SetVariable("preserve_interword_spaces", "1"); err != nil {
		return "", fmt.Errorf("failed to set OCR variable: %w", err)
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("failed to set OCR image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR recognition failed: %w", err)
	}
	return text, nil
}
