package store

import (
	"reflect"
	"testing"

	"github.com/BekirBz/invoice-ai-mvp/models"
)

func TestCoerceFillsIdentity(t *testing.T) {
	inv := &models.Invoice{}
	Coerce(inv)
	if inv.ID == "" || inv.UserID != AnonymousUser || inv.Filename != "upload" {
		t.Fatalf("identity not filled: %+v", inv)
	}
	if inv.OCRText == nil || inv.CreatedAt == "" {
		t.Fatalf("defaults not filled: %+v", inv)
	}
}

func TestCoerceIdempotent(t *testing.T) {
	inv := &models.Invoice{}
	Coerce(inv)
	before := *inv
	Coerce(inv)
	if !reflect.DeepEqual(before, *inv) {
		t.Fatalf("coerce mutated an already-coerced record:\nbefore %+v\nafter  %+v", before, *inv)
	}
}

func TestCoerceDocumentLegacyReshape(t *testing.T) {
	doc := map[string]any{
		"rawText":    "scanned text",
		"sourceName": "legacy.jpg",
		"createdAt":  float64(1700000000),
	}
	d := CoerceDocument(doc)

	pages, ok := d["ocr_text"].([]any)
	if !ok || len(pages) != 1 || pages[0] != "scanned text" {
		t.Fatalf("rawText not reshaped: %v", d["ocr_text"])
	}
	if d["filename"] != "legacy.jpg" {
		t.Fatalf("sourceName not reshaped: %v", d["filename"])
	}
	if d["createdAt"] != "2023-11-14T22:13:20Z" {
		t.Fatalf("epoch createdAt not converted: %v", d["createdAt"])
	}
	if d["userId"] != AnonymousUser {
		t.Fatalf("userId default missing: %v", d["userId"])
	}
	if _, present := d["vendor"]; !present {
		t.Fatalf("optional fields must exist as explicit nulls")
	}
}

func TestCoerceDocumentIdempotent(t *testing.T) {
	doc := map[string]any{
		"rawText":   "page",
		"createdAt": int64(1700000000),
		"amount":    float64(12.5),
	}
	once := CoerceDocument(doc)
	twice := CoerceDocument(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("document coercion not idempotent:\nonce  %+v\ntwice %+v", once, twice)
	}
}

func TestDecodeDocumentTyped(t *testing.T) {
	inv := DecodeDocument(map[string]any{
		"id":          "abc",
		"userId":      "u1",
		"ocr_text":    []any{"p1", "p2"},
		"filename":    "x.pdf",
		"amount":      float64(99.9),
		"fraud_score": float64(0.8),
		"currency":    "EUR",
		"createdAt":   "2025-01-02T03:04:05Z",
	})
	if inv.ID != "abc" || inv.UserID != "u1" || len(inv.OCRText) != 2 {
		t.Fatalf("decode mismatch: %+v", inv)
	}
	if inv.Amount == nil || *inv.Amount != 99.9 || !inv.Risky() {
		t.Fatalf("numeric decode mismatch: %+v", inv)
	}
	if inv.Currency == nil || *inv.Currency != "EUR" {
		t.Fatalf("currency decode mismatch: %+v", inv)
	}
}
