package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// redFlags are phrases commonly seen in payment-scam invoices. Each hit adds
// 0.2 to the score.
var redFlags = []string{"pay by gift card", "urgent", "wire immediately", "overdue fee 50%"}

const largeAmountThreshold = 10000

// FraudScore computes the deterministic rule-sum risk score: 0.2 per red-flag
// phrase present, plus 0.3 when the amount exceeds 10,000 (currency-unaware),
// clamped to [0,1] and rounded to 2 decimals.
func FraudScore(text string, amount *float64) float64 {
	low := strings.ToLower(text)
	score := 0.0
	for _, flag := range redFlags {
		if strings.Contains(low, flag) {
			score += 0.2
		}
	}
	if amount != nil && *amount > largeAmountThreshold {
		score += 0.3
	}
	if score > 1.0 {
		score = 1.0
	}
	return round2(score)
}

var vatRateRE = regexp.MustCompile(`(\d{1,2}(?:\.\d)?)\s*%`)

// defaultVATRate applies when the document mentions VAT/tax (or is EUR) but
// states no explicit percentage.
const defaultVATRate = 0.20

// VATGuess estimates the VAT amount (not the rate). It only fires when the
// text mentions vat/tax or the currency is EUR; the rate is the first
// percentage found in the text, else 20%. Nil when the amount is unknown or
// nothing triggered the guess.
func VATGuess(currency, text string, amount *float64) *float64 {
	low := strings.ToLower(text)
	if !strings.Contains(low, "vat") && !strings.Contains(low, "tax") && currency != "EUR" {
		return nil
	}
	rate := defaultVATRate
	if m := vatRateRE.FindStringSubmatch(low); len(m) >= 2 {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			rate = v / 100.0
		}
	}
	if amount == nil {
		return nil
	}
	vat := round2(*amount * rate)
	return &vat
}
