package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList stores the per-page OCR texts as a JSON array column.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		s = StringList{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringList) Scan(src any) error {
	if src == nil {
		*s = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported StringList source %T", src)
	}
}

// Invoice is the canonical structured record produced by the extraction
// pipeline. All extracted fields are best-effort; nil means "unknown".
// CreatedAt is kept as an ISO-8601 UTC string (trailing Z) because that is
// the wire format the frontend and legacy documents use.
type Invoice struct {
	ID         string     `gorm:"primaryKey;size:64" json:"id"`
	UserID     string     `gorm:"index;size:128;not null" json:"userId"`
	Filename   string     `gorm:"size:255" json:"filename"`
	OCRText    StringList `gorm:"type:jsonb" json:"ocr_text"`
	Vendor     *string    `gorm:"size:512" json:"vendor"`
	Date       *string    `gorm:"size:64" json:"date"` // matched literal, not normalized
	Amount     *float64   `json:"amount"`
	Currency   *string    `gorm:"size:8" json:"currency"`
	VAT        *float64   `json:"vat"`
	FraudScore *float64   `json:"fraud_score"`
	CreatedAt  string     `gorm:"size:40;index" json:"createdAt"`
	Language   *string    `gorm:"size:8" json:"language"`
	DocType    *string    `gorm:"size:16" json:"docType"`
}

// Risky reports whether the invoice crosses the risk threshold.
func (inv *Invoice) Risky() bool {
	return inv.FraudScore != nil && *inv.FraudScore >= 0.7
}
