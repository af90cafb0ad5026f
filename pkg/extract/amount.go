package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// amountRE matches a monetary-shaped number with an optional currency prefix:
// 1-3 leading digits, optional thousands groups, optional 2-digit fraction.
// Applied to space-stripped text so grouped amounts survive OCR spacing.
var amountRE = regexp.MustCompile(`(?:USD|EUR|GBP|\$|€|£)?\s*([0-9]{1,3}(?:[.,][0-9]{3})*(?:[.,][0-9]{2})?)`)

// ParseAmount finds every amount-shaped number in the text and returns the
// largest parsed value: on an invoice the biggest number is usually the total.
// Returns ok=false when nothing parses.
func ParseAmount(text string) (float64, bool) {
	compact := strings.ReplaceAll(text, " ", "")
	var best float64
	found := false
	for _, m := range amountRE.FindAllStringSubmatchIndex(compact, -1) {
		// Reject matches glued to a preceding word character; those are
		// fragments of ids, postcodes and similar, not standalone numbers.
		if start := m[0]; start > 0 && isWordByte(compact[start-1]) {
			continue
		}
		raw := compact[m[2]:m[3]]
		v, err := strconv.ParseFloat(normalizeSeparators(raw), 64)
		if err != nil {
			continue
		}
		if !found || v > best {
			best = v
			found = true
		}
	}
	return best, found
}

// normalizeSeparators disambiguates "1.234,56" vs "1,234.56": whichever of
// ',' and '.' occurs later is the decimal point, the other is a thousands
// separator. A lone comma is treated as the decimal point ("45,90" -> 45.90).
func normalizeSeparators(raw string) string {
	hasComma := strings.Contains(raw, ",")
	hasDot := strings.Contains(raw, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(raw, ",") > strings.LastIndex(raw, ".") {
			raw = strings.ReplaceAll(raw, ".", "")
			raw = strings.ReplaceAll(raw, ",", ".")
		} else {
			raw = strings.ReplaceAll(raw, ",", "")
		}
	case hasComma:
		raw = strings.ReplaceAll(raw, ",", ".")
	}
	return raw
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}
