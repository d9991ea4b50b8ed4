package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category is a spending category. FamilyID is nil for the global defaults
// every family can use.
//
// TotalExpenses and LastUsed are not columns: they are projected from the
// reading family's CategoryUsage row.
type Category struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	FamilyID      *uint           `json:"family_id" gorm:"index;uniqueIndex:idx_categories_family_name,priority:1"`
	Name          string          `json:"name" gorm:"size:50;not null;uniqueIndex:idx_categories_family_name,priority:2"`
	IsDefault     bool            `json:"is_default" gorm:"not null;index"`
	Sort          int             `json:"sort" gorm:"default:0;index"`
	Color         string          `json:"color" gorm:"size:20;default:#64748b"`
	Active        bool            `json:"active" gorm:"not null;index"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	TotalExpenses decimal.Decimal `json:"total_expenses" gorm:"-"`
	LastUsed      *time.Time      `json:"last_used" gorm:"-"`
}

func (Category) TableName() string {
	return "categories"
}

// OwnedBy reports whether the category belongs to familyID (defaults belong to nobody).
func (c *Category) OwnedBy(familyID uint) bool {
	return c.FamilyID != nil && *c.FamilyID == familyID
}

// CategoryUsage is the per-family cache of a category's active expense total
// and most recent expense date.
type CategoryUsage struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	FamilyID      uint            `json:"family_id" gorm:"not null;uniqueIndex:idx_category_usage_key,priority:1"`
	CategoryID    uint            `json:"category_id" gorm:"not null;uniqueIndex:idx_category_usage_key,priority:2"`
	TotalExpenses decimal.Decimal `json:"total_expenses" gorm:"type:decimal(14,2);not null"`
	LastUsed      *time.Time      `json:"last_used"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (CategoryUsage) TableName() string {
	return "category_usages"
}

// DefaultCategory is a seed entry for the global category list.
type DefaultCategory struct {
	Name  string
	Color string
}

// DefaultCategories lists the global categories seeded into an empty database.
func DefaultCategories() []DefaultCategory {
	return []DefaultCategory{
		{"Food", "#ef4444"},
		{"Transport", "#3b82f6"},
		{"Shopping", "#a855f7"},
		{"Entertainment", "#ec4899"},
		{"Health", "#10b981"},
		{"Education", "#f59e0b"},
		{"Housing", "#14b8a6"},
		{"Utilities", "#0ea5e9"},
		{"Other", "#64748b"},
	}
}
