package store

import (
	"time"

	"familyledger/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Totals is a sum and a row count.
type Totals struct {
	Total decimal.Decimal
	Count int64
}

// CategoryTotal is one row of a GROUP BY category_id.
type CategoryTotal struct {
	CategoryID uint
	Total      decimal.Decimal
	Count      int64
}

// SourceTotal is one row of a GROUP BY source.
type SourceTotal struct {
	Source string
	Total  decimal.Decimal
	Count  int64
}

// Sum totals the amount column of tx, which must already be scoped with
// Expenses or Incomes. Sums are rounded to cents.
func Sum(tx *gorm.DB) (Totals, error) {
	var row Totals
	err := tx.Select("COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").Scan(&row).Error
	row.Total = row.Total.Round(2)
	return row, err
}

// SumByCategory groups tx by category.
func SumByCategory(tx *gorm.DB) ([]CategoryTotal, error) {
	var rows []CategoryTotal
	err := tx.Select("category_id, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("category_id IS NOT NULL").
		Group("category_id").
		Scan(&rows).Error
	for i := range rows {
		rows[i].Total = rows[i].Total.Round(2)
	}
	return rows, err
}

// SumBySource groups tx by income source.
func SumBySource(tx *gorm.DB) ([]SourceTotal, error) {
	var rows []SourceTotal
	err := tx.Select("source, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Group("source").
		Scan(&rows).Error
	for i := range rows {
		rows[i].Total = rows[i].Total.Round(2)
	}
	return rows, err
}

// SumBucket is the point query behind budget reconciliation: the active
// expense total of one category in one calendar month window.
func SumBucket(db *gorm.DB, b models.Bucket, start, end time.Time) (decimal.Decimal, error) {
	catID := b.CategoryID
	t, err := Sum(Expenses(db, Query{FamilyID: b.FamilyID, CategoryID: &catID, Start: start, End: end}))
	return t.Total, err
}

// ListExpenses returns the matching expenses newest first, with categories preloaded.
func ListExpenses(db *gorm.DB, q Query, offset, limit int) ([]models.Expense, error) {
	var list []models.Expense
	tx := Expenses(db, q).Preload("Category").Order("date DESC, id DESC")
	if limit > 0 {
		tx = tx.Offset(offset).Limit(limit)
	}
	err := tx.Find(&list).Error
	return list, err
}

// ListIncomes returns the matching incomes newest first, with categories preloaded.
func ListIncomes(db *gorm.DB, q Query, offset, limit int) ([]models.Income, error) {
	var list []models.Income
	tx := Incomes(db, q).Preload("Category").Order("date DESC, id DESC")
	if limit > 0 {
		tx = tx.Offset(offset).Limit(limit)
	}
	err := tx.Find(&list).Error
	return list, err
}

// CountExpenses counts the expenses selected by q.
func CountExpenses(db *gorm.DB, q Query) (int64, error) {
	var n int64
	err := Expenses(db, q).Count(&n).Error
	return n, err
}

// CountIncomes counts the incomes selected by q.
func CountIncomes(db *gorm.DB, q Query) (int64, error) {
	var n int64
	err := Incomes(db, q).Count(&n).Error
	return n, err
}

// EarliestTransactionDate returns the oldest active expense or income date
// of the family, or false when it has none.
func EarliestTransactionDate(db *gorm.DB, familyID uint) (time.Time, bool, error) {
	var earliest time.Time
	found := false
	for _, tx := range []*gorm.DB{
		Expenses(db, Query{FamilyID: familyID}),
		Incomes(db, Query{FamilyID: familyID}),
	} {
		var row struct{ Date time.Time }
		res := tx.Select("date").Order("date ASC").Limit(1).Scan(&row)
		if res.Error != nil {
			return time.Time{}, false, res.Error
		}
		if res.RowsAffected == 0 {
			continue
		}
		if !found || row.Date.Before(earliest) {
			earliest = row.Date
			found = true
		}
	}
	return earliest, found, nil
}

// LatestExpenseDate returns the most recent active expense date of one
// category within a family.
func LatestExpenseDate(db *gorm.DB, familyID, categoryID uint) (*time.Time, error) {
	var row struct{ Date time.Time }
	res := Expenses(db, Query{FamilyID: familyID, CategoryID: &categoryID}).
		Select("date").Order("date DESC").Limit(1).Scan(&row)
	if res.Error != nil || res.RowsAffected == 0 {
		return nil, res.Error
	}
	return &row.Date, nil
}

// FindExpense loads an active expense of the family.
func FindExpense(db *gorm.DB, familyID, id uint) (*models.Expense, error) {
	var e models.Expense
	if err := Active(db).Preload("Category").Where("id = ? AND family_id = ?", id, familyID).First(&e).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// FindIncome loads an active income of the family.
func FindIncome(db *gorm.DB, familyID, id uint) (*models.Income, error) {
	var i models.Income
	if err := Active(db).Preload("Category").Where("id = ? AND family_id = ?", id, familyID).First(&i).Error; err != nil {
		return nil, err
	}
	return &i, nil
}
