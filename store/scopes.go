// Package store holds the gorm queries behind the ledger, category registry
// and budget ledger. Every read of expenses or incomes goes through Query so
// the active flag and family scoping are applied in one place.
package store

import (
	"time"

	"familyledger/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Active restricts a query to rows whose soft-delete flag is still set.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("active = ?", true)
}

// Query selects active transactions of one family. Zero-valued bounds and nil
// filters are ignored; End is inclusive.
type Query struct {
	FamilyID   uint
	Start      time.Time
	End        time.Time
	UserID     *uint
	CategoryID *uint
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
}

// Scope applies q to db. It is meant for db.Scopes.
func (q Query) Scope(db *gorm.DB) *gorm.DB {
	db = Active(db).Where("family_id = ?", q.FamilyID)
	if !q.Start.IsZero() {
		db = db.Where("date >= ?", q.Start)
	}
	if !q.End.IsZero() {
		db = db.Where("date <= ?", q.End)
	}
	if q.UserID != nil {
		db = db.Where("user_id = ?", *q.UserID)
	}
	if q.CategoryID != nil {
		db = db.Where("category_id = ?", *q.CategoryID)
	}
	if q.MinAmount != nil {
		db = db.Where("amount >= ?", *q.MinAmount)
	}
	if q.MaxAmount != nil {
		db = db.Where("amount <= ?", *q.MaxAmount)
	}
	return db
}

// Expenses starts a query over the expenses selected by q.
func Expenses(db *gorm.DB, q Query) *gorm.DB {
	return db.Model(&models.Expense{}).Scopes(q.Scope)
}

// Incomes starts a query over the incomes selected by q.
func Incomes(db *gorm.DB, q Query) *gorm.DB {
	return db.Model(&models.Income{}).Scopes(q.Scope)
}

// VisibleCategories restricts a category query to familyID's own categories
// plus the global defaults.
func VisibleCategories(familyID uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return Active(db).Where("family_id = ? OR family_id IS NULL", familyID)
	}
}
