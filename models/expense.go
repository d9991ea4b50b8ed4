package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a spending record. Its (FamilyID, CategoryID, Date) place it in
// exactly one budget bucket.
type Expense struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	FamilyID    uint            `json:"family_id" gorm:"not null;index:idx_expenses_bucket,priority:1"`
	UserID      uint            `json:"user_id" gorm:"not null;index"`
	CategoryID  uint            `json:"category_id" gorm:"not null;index:idx_expenses_bucket,priority:2"`
	Amount      decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Description string          `json:"description" gorm:"size:255"`
	Date        time.Time       `json:"date" gorm:"not null;index:idx_expenses_bucket,priority:3"`
	Active      bool            `json:"active" gorm:"not null;index"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Category    *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

// TableName sets the table name.
func (Expense) TableName() string {
	return "expenses"
}

// CategoryName returns the preloaded category name, or "" when not loaded.
func (e *Expense) CategoryName() string {
	if e.Category == nil {
		return ""
	}
	return e.Category.Name
}
