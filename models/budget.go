package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetStatus is derived from PercentageUsed; it is never authored directly.
type BudgetStatus string

const (
	BudgetStatusSafe     BudgetStatus = "safe"
	BudgetStatusNormal   BudgetStatus = "normal"
	BudgetStatusWarning  BudgetStatus = "warning"
	BudgetStatusExceeded BudgetStatus = "exceeded"
)

// Rank orders the status ladder: safe < normal < warning < exceeded.
func (s BudgetStatus) Rank() int {
	switch s {
	case BudgetStatusNormal:
		return 1
	case BudgetStatusWarning:
		return 2
	case BudgetStatusExceeded:
		return 3
	default:
		return 0
	}
}

// DefaultAlertThreshold applies when a budget is created without a threshold.
const DefaultAlertThreshold = 80

// Budget is the spending ceiling for one (family, category, year, month) bucket.
// Spent, Remaining, PercentageUsed and Status are caches over the bucket's
// active expenses and are only written by reconciliation.
type Budget struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	FamilyID       uint            `json:"family_id" gorm:"not null;uniqueIndex:idx_budgets_key,priority:1"`
	CategoryID     uint            `json:"category_id" gorm:"not null;uniqueIndex:idx_budgets_key,priority:2"`
	Year           int             `json:"year" gorm:"not null;uniqueIndex:idx_budgets_key,priority:3"`
	Month          int             `json:"month" gorm:"not null;uniqueIndex:idx_budgets_key,priority:4"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:decimal(12,2);not null"`
	Spent          decimal.Decimal `json:"spent" gorm:"type:decimal(12,2);not null"`
	Remaining      decimal.Decimal `json:"remaining" gorm:"type:decimal(12,2);not null"`
	PercentageUsed float64         `json:"percentage_used" gorm:"not null"`
	Status         BudgetStatus    `json:"status" gorm:"size:16;not null;default:safe"`
	AlertThreshold int             `json:"alert_threshold" gorm:"not null"`
	AutoRenew      bool            `json:"auto_renew" gorm:"not null"`
	History        BudgetHistory   `json:"history" gorm:"type:text;serializer:json"`
	Active         bool            `json:"active" gorm:"not null;index"`
	Version        int64           `json:"version" gorm:"not null"`
	CreatedBy      uint            `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Category       *Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
}

func (Budget) TableName() string {
	return "budgets"
}

// Bucket returns the budget's key.
func (b *Budget) Bucket() Bucket {
	return Bucket{FamilyID: b.FamilyID, CategoryID: b.CategoryID, Year: b.Year, Month: b.Month}
}

// Threshold returns the warning threshold as a percentage. Zero warns on any
// spend at all.
func (b *Budget) Threshold() int {
	return b.AlertThreshold
}

// BudgetHistoryEntry records one manual change of a budget's amount.
type BudgetHistoryEntry struct {
	Amount         decimal.Decimal `json:"amount"`
	PreviousAmount decimal.Decimal `json:"previous_amount"`
	ChangedBy      uint            `json:"changed_by"`
	ChangedAt      time.Time       `json:"changed_at"`
	Reason         string          `json:"reason"`
}

// BudgetHistory is stored as a JSON column.
type BudgetHistory []BudgetHistoryEntry

// Append adds e and keeps at most limit entries, dropping the oldest.
func (h BudgetHistory) Append(e BudgetHistoryEntry, limit int) BudgetHistory {
	out := append(h, e)
	if limit > 0 && len(out) > limit {
		out = append(BudgetHistory(nil), out[len(out)-limit:]...)
	}
	return out
}

// BudgetAlert is emitted when reconciliation moves a budget up into
// warning or exceeded.
type BudgetAlert struct {
	FamilyID       uint            `json:"family_id"`
	BudgetID       uint            `json:"budget_id"`
	CategoryID     uint            `json:"category_id"`
	CategoryName   string          `json:"category_name"`
	Year           int             `json:"year"`
	Month          int             `json:"month"`
	Amount         decimal.Decimal `json:"amount"`
	Spent          decimal.Decimal `json:"spent"`
	PercentageUsed float64         `json:"percentage_used"`
	Status         BudgetStatus    `json:"status"`
	PreviousStatus BudgetStatus    `json:"previous_status"`
	At             time.Time       `json:"at"`
}
