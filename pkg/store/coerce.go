package store

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BekirBz/invoice-ai-mvp/models"
)

// AnonymousUser is the owner assigned when no userId was supplied.
const AnonymousUser = "anonymous"

func isoNow() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// NewID returns a fresh opaque invoice id (uuid4 without dashes, matching the
// ids already present in historical documents).
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Coerce normalizes a typed record in place: fills the identity fields that
// must always be present and leaves extracted fields alone (nil = unknown).
// Idempotent; applied by both backends on every save and read.
func Coerce(inv *models.Invoice) *models.Invoice {
	if inv.ID == "" {
		inv.ID = NewID()
	}
	if inv.UserID == "" {
		inv.UserID = AnonymousUser
	}
	if inv.Filename == "" {
		inv.Filename = "upload"
	}
	if inv.OCRText == nil {
		inv.OCRText = models.StringList{}
	}
	if inv.CreatedAt == "" {
		inv.CreatedAt = isoNow()
	}
	return inv
}

// CoerceDocument normalizes a loosely-shaped legacy document (map form) to the
// canonical schema: alternate historic field names are reshaped
// (rawText -> ocr_text, sourceName -> filename), numeric createdAt values
// become ISO strings, and missing optional fields are made explicit nulls.
// Idempotent: coercing an already-coerced document is a no-op.
func CoerceDocument(doc map[string]any) map[string]any {
	d := make(map[string]any, len(doc)+8)
	for k, v := range doc {
		d[k] = v
	}

	if s, _ := d["id"].(string); s == "" {
		d["id"] = NewID()
	}
	if s, _ := d["userId"].(string); s == "" {
		d["userId"] = AnonymousUser
	}

	if _, ok := d["ocr_text"]; !ok {
		switch rt := d["rawText"].(type) {
		case string:
			d["ocr_text"] = []any{rt}
		case []any:
			d["ocr_text"] = rt
		case []string:
			pages := make([]any, len(rt))
			for i, p := range rt {
				pages[i] = p
			}
			d["ocr_text"] = pages
		default:
			d["ocr_text"] = []any{}
		}
	}

	if s, _ := d["filename"].(string); s == "" {
		if src, _ := d["sourceName"].(string); src != "" {
			d["filename"] = src
		} else {
			d["filename"] = "upload"
		}
	}

	switch created := d["createdAt"].(type) {
	case time.Time:
		d["createdAt"] = created.UTC().Format(time.RFC3339)
	case float64:
		d["createdAt"] = time.Unix(int64(created), 0).UTC().Format(time.RFC3339)
	case int64:
		d["createdAt"] = time.Unix(created, 0).UTC().Format(time.RFC3339)
	case int:
		d["createdAt"] = time.Unix(int64(created), 0).UTC().Format(time.RFC3339)
	}
	if s, _ := d["createdAt"].(string); s == "" {
		d["createdAt"] = isoNow()
	}

	for _, k := range []string{"vendor", "date", "amount", "currency", "vat", "fraud_score", "language", "docType"} {
		if _, ok := d[k]; !ok {
			d[k] = nil
		}
	}
	return d
}

// DecodeDocument converts a coerced legacy document into a typed record.
func DecodeDocument(doc map[string]any) *models.Invoice {
	d := CoerceDocument(doc)
	inv := &models.Invoice{
		ID:        d["id"].(string),
		UserID:    d["userId"].(string),
		Filename:  d["filename"].(string),
		CreatedAt: d["createdAt"].(string),
	}
	switch pages := d["ocr_text"].(type) {
	case []any:
		for _, p := range pages {
			if s, ok := p.(string); ok {
				inv.OCRText = append(inv.OCRText, s)
			}
		}
	case []string:
		inv.OCRText = append(inv.OCRText, pages...)
	}
	if inv.OCRText == nil {
		inv.OCRText = models.StringList{}
	}
	inv.Vendor = docString(d, "vendor")
	inv.Date = docString(d, "date")
	inv.Currency = docString(d, "currency")
	inv.Language = docString(d, "language")
	inv.DocType = docString(d, "docType")
	inv.Amount = docFloat(d, "amount")
	inv.VAT = docFloat(d, "vat")
	inv.FraudScore = docFloat(d, "fraud_score")
	return inv
}

func docString(d map[string]any, key string) *string {
	if s, ok := d[key].(string); ok && s != "" {
		return &s
	}
	return nil
}

func docFloat(d map[string]any, key string) *float64 {
	switch v := d[key].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	case int64:
		f := float64(v)
		return &f
	}
	return nil
}
