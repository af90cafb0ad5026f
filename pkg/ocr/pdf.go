package ocr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/BekirBz/invoice-ai-mvp/pkg/logging"
)

// pdfTexts rasterizes each PDF page at the configured DPI and OCRs the pages
// in order. A page that fails OCR is logged and skipped so one bad page does
// not sink a multi-page document.
func (e *Extractor) pdfTexts(ctx context.Context, data []byte) ([]string, error) {
	tmpDir, err := os.MkdirTemp("", "invoice-pdf-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	pdfPath := filepath.Join(tmpDir, "in.pdf")
	if err := os.WriteFile(pdfPath, data, 0o600); err != nil {
		return nil, err
	}

	// pdftoppm -r <dpi> -png in.pdf <tmp>/page  ->  page-1.png, page-2.png, ...
	prefix := filepath.Join(tmpDir, "page")
	cmd := exec.CommandContext(ctx, e.cfg.Pdftoppm, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", pdfPath, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("pdftoppm: %w: %s", err, out)
	}

	pages, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(pages)

	var texts []string
	for _, page := range pages {
		text, err := e.ocrFile(ctx, page)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logging.L().WithError(err).WithField("page", filepath.Base(page)).Warn("page ocr failed")
			continue
		}
		texts = keepPage(texts, text)
	}
	return texts, nil
}
