package models

// UserProfile mirrors the frontend's user sync payload (upsert by UserID).
type UserProfile struct {
	UserID      string `gorm:"primaryKey;size:128" json:"userId"`
	Email       string `gorm:"size:255" json:"email"`
	DisplayName string `gorm:"size:255" json:"displayName"`
	UpdatedAt   string `gorm:"size:40" json:"updatedAt"`
}

// LoginEvent is an append-only login/logout audit row.
type LoginEvent struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	UserID    string `gorm:"index;size:128;not null" json:"userId"`
	TS        string `gorm:"column:ts;size:40" json:"ts"`
	UserAgent string `gorm:"size:512" json:"userAgent"`
	Type      string `gorm:"size:32" json:"type"`
	CreatedAt string `gorm:"size:40" json:"createdAt"`
}
