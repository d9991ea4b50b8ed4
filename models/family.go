package models

import "time"

// Family is the tenant every ledger record is scoped to. Membership is
// managed elsewhere; this row only carries tenant-wide settings.
type Family struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"size:100;not null"`
	Currency   string    `json:"currency" gorm:"size:8;default:CNY"`
	AlertEmail string    `json:"alert_email" gorm:"size:100"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Family) TableName() string {
	return "families"
}
