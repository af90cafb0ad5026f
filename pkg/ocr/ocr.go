// Package ocr turns raw document bytes (PDF or image) into per-page text via
// Tesseract. PDFs are rasterized page by page with pdftoppm before OCR.
package ocr

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/otiai10/gosseract/v2"
)

// ErrNoContent is returned by callers (not this package) when acquisition
// yields zero non-empty pages; exported here so the pipeline and handlers
// agree on the sentinel.
var ErrNoContent = errors.New("ocr produced no content")

type Config struct {
	Pdftoppm string        // binary name or absolute path; empty -> "pdftoppm"
	DPI      int           // rasterization DPI for PDFs, default 300
	Language string        // tesseract language, default "eng"
	Timeout  time.Duration // bound for the whole acquisition, default 2m
}

type Extractor struct {
	cfg Config
}

func New(cfg Config) *Extractor {
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &Extractor{cfg: cfg}
}

// ExtractTexts dispatches on the filename extension: .pdf is rasterized and
// OCRed page by page (order preserved), everything else is treated as a
// single still image. Pages whose OCR output is blank are dropped. Input that
// cannot be decoded at all yields an empty slice and no error; the caller
// decides whether "no content" is fatal.
func (e *Extractor) ExtractTexts(ctx context.Context, data []byte, filename string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		return e.pdfTexts(ctx, data)
	}
	return e.imageText(ctx, data)
}

// ocrFile runs Tesseract on a single image file. gosseract has no context
// support, so the call is raced against the deadline in a goroutine.
func (e *Extractor) ocrFile(ctx context.Context, path string) (string, error) {
	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		client := gosseract.NewClient()
		defer client.Close()
		_ = client.SetLanguage(e.cfg.Language)
		client.SetImage(path)
		text, err := client.Text()
		ch <- result{text: text, err: err}
	}()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case r := <-ch:
		return r.text, r.err
	}
}

func keepPage(pages []string, text string) []string {
	if strings.TrimSpace(text) == "" {
		return pages
	}
	return append(pages, text)
}
