// Package extract derives structured invoice fields from merged OCR text.
// Every function is a pure function of its inputs; a field that cannot be
// derived is reported as absent, never as an error.
package extract

import "math"

// Fields is the full set of heuristically extracted values for one document.
type Fields struct {
	Vendor     *string
	Date       *string
	Amount     *float64
	Currency   *string
	VAT        *float64
	FraudScore float64
	Language   *string
	DocType    string
}

// Run applies all extractors to the merged text (pages joined with newlines).
func Run(merged string) Fields {
	var f Fields

	if cur := DetectCurrency(merged); cur != "" {
		f.Currency = &cur
	}
	if amt, ok := ParseAmount(merged); ok {
		f.Amount = &amt
	}
	if vendor := PickVendor(merged); vendor != "" {
		f.Vendor = &vendor
	}
	if date := FindDate(merged); date != "" {
		f.Date = &date
	}
	if lang := DetectLanguage(merged); lang != "" {
		f.Language = &lang
	}
	f.DocType = ClassifyDocType(merged)
	f.FraudScore = FraudScore(merged, f.Amount)
	f.VAT = VATGuess(curOrEmpty(f.Currency), merged, f.Amount)
	return f
}

func curOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
