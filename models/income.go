package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income is an earning record. Incomes are aggregated by Source; CategoryID is optional.
type Income struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	FamilyID       uint            `json:"family_id" gorm:"not null;index:idx_incomes_family_date,priority:1"`
	UserID         uint            `json:"user_id" gorm:"not null;index"`
	CategoryID     *uint           `json:"category_id" gorm:"index"`
	Source         string          `json:"source" gorm:"size:50;not null"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Description    string          `json:"description" gorm:"size:255"`
	Date           time.Time       `json:"date" gorm:"not null;index:idx_incomes_family_date,priority:2"`
	Active         bool            `json:"active" gorm:"not null;index"`
	Recurring      bool            `json:"recurring" gorm:"not null"`
	Frequency      Frequency       `json:"frequency,omitempty" gorm:"size:16"`
	NextOccurrence *time.Time      `json:"next_occurrence,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Category       *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (Income) TableName() string {
	return "incomes"
}

// CategoryName returns the preloaded category name, or "" when not loaded.
func (i *Income) CategoryName() string {
	if i.Category == nil {
		return ""
	}
	return i.Category.Name
}
