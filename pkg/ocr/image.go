package ocr

import (
	"bytes"
	"context"
	"image"
	"os"

	"github.com/disintegration/imaging"
)

// imageText decodes a still image and OCRs it. Decoding is resilient: if the
// in-memory decode fails, the bytes are retried through a temp-file round
// trip before giving up. Undecodable input yields an empty page list, nil
// error.
func (e *Extractor) imageText(ctx context.Context, data []byte) ([]string, error) {
	img, ok := decodeResilient(data)
	if !ok {
		return nil, nil
	}

	// Grayscale normalizes exotic color modes for Tesseract; small scans are
	// upsampled so thin glyphs survive binarization.
	gray := imaging.Grayscale(img)
	if gray.Bounds().Dy() < 800 {
		gray = imaging.Resize(gray, 0, 1200, imaging.Lanczos)
	}

	tmp, err := os.CreateTemp("", "invoice-ocr-*.png")
	if err != nil {
		return nil, err
	}
	_ = tmp.Close()
	defer os.Remove(tmp.Name())
	if err := imaging.Save(gray, tmp.Name()); err != nil {
		return nil, err
	}

	text, err := e.ocrFile(ctx, tmp.Name())
	if err != nil {
		return nil, err
	}
	return keepPage(nil, text), nil
}

func decodeResilient(data []byte) (image.Image, bool) {
	if img, err := imaging.Decode(bytes.NewReader(data)); err == nil {
		return img, true
	}
	tmp, err := os.CreateTemp("", "invoice-raw-*.img")
	if err != nil {
		return nil, false
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return nil, false
	}
	_ = tmp.Close()
	img, err := imaging.Open(tmp.Name())
	if err != nil {
		return nil, false
	}
	return img, true
}
