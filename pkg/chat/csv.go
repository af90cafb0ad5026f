package chat

import (
	"strconv"
	"strings"

	"github.com/BekirBz/invoice-ai-mvp/models"
)

// BuildTaxCSV renders the export rows. Deliberately lightweight: no quoting,
// only the vendor field has its commas replaced so columns cannot shift.
func BuildTaxCSV(invs []models.Invoice) string {
	var b strings.Builder
	b.WriteString("date,vendor,currency,amount,vat,filename\n")
	for _, inv := range invs {
		vendor := ""
		if inv.Vendor != nil {
			vendor = strings.ReplaceAll(*inv.Vendor, ",", " ")
		}
		b.WriteString(strOrEmpty(inv.Date))
		b.WriteByte(',')
		b.WriteString(vendor)
		b.WriteByte(',')
		b.WriteString(strOrEmpty(inv.Currency))
		b.WriteByte(',')
		b.WriteString(numOrEmpty(inv.Amount))
		b.WriteByte(',')
		b.WriteString(numOrEmpty(inv.VAT))
		b.WriteByte(',')
		b.WriteString(inv.Filename)
		b.WriteByte('\n')
	}
	return b.String()
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// numOrEmpty renders whole values without a decimal tail (100, not 100.00)
// to match the historical export format. Zero renders as empty, same as
// missing.
func numOrEmpty(v *float64) string {
	if v == nil || *v == 0 {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
