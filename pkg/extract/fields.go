package extract

import (
	"regexp"
	"strings"
)

// currencySigns maps symbols to ISO codes, checked before literal codes.
var currencySigns = []struct {
	sign string
	code string
}{
	{"€", "EUR"},
	{"£", "GBP"},
	{"$", "USD"},
}

// currencyCodes is the literal-code fallback, in fixed preference order.
var currencyCodes = []string{"EUR", "USD", "GBP", "TRY"}

// DetectCurrency returns the ISO code for the first currency signal found
// anywhere in the text, or "" when there is none. No amount proximity is
// required; a mention anywhere in the document counts.
func DetectCurrency(text string) string {
	for _, s := range currencySigns {
		if strings.Contains(text, s.sign) {
			return s.code
		}
	}
	for _, code := range currencyCodes {
		if strings.Contains(text, code) {
			return code
		}
	}
	return ""
}

// vendorKeywords are company-suffix hints, matched case-insensitively.
var vendorKeywords = []string{"ltd", "limited", "inc", "gmbh", "company", "co."}

// PickVendor returns the first line containing a company-suffix keyword, or
// the first non-blank line as a fallback. "" when the document has no text.
func PickVendor(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		low := strings.ToLower(line)
		for _, kw := range vendorKeywords {
			if strings.Contains(low, kw) {
				return line
			}
		}
	}
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

var dateRE = regexp.MustCompile(`\b\d{1,2}[./-]\d{1,2}[./-]\d{2,4}\b|\b\d{4}[./-]\d{1,2}[./-]\d{1,2}\b`)

// FindDate returns the first date-shaped substring verbatim (dd.mm.yyyy,
// dd/mm/yy, ISO-like). The literal is stored unmodified; normalization is
// deferred to query time.
func FindDate(text string) string {
	return dateRE.FindString(text)
}

var docTypeKeywords = []struct {
	docType  string
	keywords []string
}{
	{"recurring", []string{"subscription", "monthly", "recurring"}},
	{"service", []string{"consulting", "service", "maintenance"}},
	{"product", []string{"item", "product", "goods", "pcs", "sku", "unit price"}},
}

// ClassifyDocType buckets the document by keyword, first category wins.
func ClassifyDocType(text string) string {
	low := strings.ToLower(text)
	for _, c := range docTypeKeywords {
		for _, kw := range c.keywords {
			if strings.Contains(low, kw) {
				return c.docType
			}
		}
	}
	return "other"
}
