// Package export renders a user's invoice records as an Excel workbook for
// download from the dashboard.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/BekirBz/invoice-ai-mvp/models"
)

const sheet = "Sheet1"

var headers = []string{"Date", "Vendor", "Currency", "Amount", "VAT", "FraudScore", "DocType", "Filename", "CreatedAt"}

// Workbook builds the spreadsheet in memory and returns the xlsx bytes.
func Workbook(invs []models.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, inv := range invs {
		values := []any{
			deref(inv.Date, ""),
			deref(inv.Vendor, ""),
			deref(inv.Currency, ""),
			derefFloat(inv.Amount),
			derefFloat(inv.VAT),
			derefFloat(inv.FraudScore),
			deref(inv.DocType, ""),
			inv.Filename,
			inv.CreatedAt,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func deref(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// derefFloat keeps unknown numbers as empty cells rather than zeros.
func derefFloat(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
