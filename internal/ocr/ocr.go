// Package ocr turns payment screenshots into text for the extraction engine.
package ocr

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// Reader extracts text from an image file on disk.
type Reader interface {
	Text(ctx context.Context, path string) (string, error)
}

// minHeight is the pixel height below which screenshots get upscaled.
// Tesseract accuracy drops sharply on small thumbnails.
const minHeight = 800

// resizeHeight is the target height for upscaled images.
const resizeHeight = 1200

// TesseractReader runs Tesseract over a lightly preprocessed copy of the
// screenshot. Preprocessing is grayscale, a mild contrast and sharpen bump,
// and an upscale for small images; anything heavier tends to hurt on the
// clean solid-background UI screenshots UPI apps produce.
type TesseractReader struct {
	language string
}

// NewTesseractReader creates a reader for the given Tesseract language,
// defaulting to English.
func NewTesseractReader(language string) *TesseractReader {
	if language == "" {
		language = "eng"
	}
	return &TesseractReader{language: language}
}

// Text preprocesses the image and runs one OCR pass over it.
func (r *TesseractReader) Text(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("ocr.Text: %w", err)
	}

	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("ocr.Text: open image: %w", err)
	}

	gray := imaging.Grayscale(img)
	gray = imaging.AdjustContrast(gray, 20)
	gray = imaging.Sharpen(gray, 1.0)
	if gray.Bounds().Dy() < minHeight {
		gray = imaging.Resize(gray, 0, resizeHeight, imaging.Lanczos)
	}

	tmpFile, err := os.CreateTemp("", "upitrack-ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("ocr.Text: temp file: %w", err)
	}
	tmp := tmpFile.Name()
	_ = tmpFile.Close()
	defer os.Remove(tmp)
	if err := imaging.Save(gray, tmp); err != nil {
		return "", fmt.Errorf("ocr.Text: save preprocessed image: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(r.language); err != nil {
		return "", fmt.Errorf("ocr.Text: set language: %w", err)
	}
	if err := client.SetImage(tmp); err != nil {
		return "", fmt.Errorf("ocr.Text: set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("ocr.Text: tesseract: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("ocr.Text: no text recognized in %s", path)
	}
	return text, nil
}
