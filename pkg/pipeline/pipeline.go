// Package pipeline assembles uploaded document bytes into a stored invoice
// record: acquisition, field extraction, identity, persistence.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/BekirBz/invoice-ai-mvp/models"
	"github.com/BekirBz/invoice-ai-mvp/pkg/extract"
	"github.com/BekirBz/invoice-ai-mvp/pkg/ocr"
	"github.com/BekirBz/invoice-ai-mvp/pkg/store"
)

// TextExtractor is the acquisition collaborator; satisfied by *ocr.Extractor
// and by fakes in tests.
type TextExtractor interface {
	ExtractTexts(ctx context.Context, data []byte, filename string) ([]string, error)
}

type Pipeline struct {
	ocr   TextExtractor
	store store.Store
}

func New(t TextExtractor, s store.Store) *Pipeline {
	return &Pipeline{ocr: t, store: s}
}

// Process runs the full upload pipeline and persists the resulting record.
// Zero extracted pages is a hard failure (ocr.ErrNoContent): a record without
// text has no reconstructible provenance, so nothing is stored.
func (p *Pipeline) Process(ctx context.Context, data []byte, filename, userID string) (*models.Invoice, error) {
	texts, err := p.ocr.ExtractTexts(ctx, data, filename)
	if err != nil {
		return nil, fmt.Errorf("ocr: %w", err)
	}
	var pages []string
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			pages = append(pages, t)
		}
	}
	if len(pages) == 0 {
		return nil, ocr.ErrNoContent
	}
	texts = pages

	merged := strings.Join(texts, "\n")
	fields := extract.Run(merged)

	if userID == "" {
		userID = store.AnonymousUser
	}
	if filename == "" {
		filename = "upload"
	}
	inv := &models.Invoice{
		ID:         store.NewID(),
		UserID:     userID,
		Filename:   filename,
		OCRText:    models.StringList(texts),
		Vendor:     fields.Vendor,
		Date:       fields.Date,
		Amount:     fields.Amount,
		Currency:   fields.Currency,
		VAT:        fields.VAT,
		FraudScore: &fields.FraudScore,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
		Language:   fields.Language,
		DocType:    &fields.DocType,
	}

	if _, err := p.store.SaveInvoice(ctx, inv); err != nil {
		return nil, fmt.Errorf("persist invoice: %w", err)
	}
	return inv, nil
}
