package store

import (
	"time"

	"familyledger/models"

	"gorm.io/gorm"
)

// FindBudgetByKey loads the active budget for a bucket.
func FindBudgetByKey(db *gorm.DB, b models.Bucket) (*models.Budget, error) {
	var budget models.Budget
	err := Active(db).Preload("Category").
		Where("family_id = ? AND category_id = ? AND year = ? AND month = ?", b.FamilyID, b.CategoryID, b.Year, b.Month).
		First(&budget).Error
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// FindAnyBudgetByKey loads the budget row for a bucket whether or not it is active.
func FindAnyBudgetByKey(db *gorm.DB, b models.Bucket) (*models.Budget, error) {
	var budget models.Budget
	err := db.Where("family_id = ? AND category_id = ? AND year = ? AND month = ?", b.FamilyID, b.CategoryID, b.Year, b.Month).
		First(&budget).Error
	if err != nil {
		return nil, err
	}
	return &budget, nil
}

// FindBudget loads an active budget of the family by ID.
func FindBudget(db *gorm.DB, familyID, id uint) (*models.Budget, error) {
	var budget models.Budget
	if err := Active(db).Preload("Category").Where("id = ? AND family_id = ?", id, familyID).First(&budget).Error; err != nil {
		return nil, err
	}
	return &budget, nil
}

// ListActiveBudgets lists the family's active budgets. A zero year lists every
// period; a nil month lists the whole year.
func ListActiveBudgets(db *gorm.DB, familyID uint, year int, month *int) ([]models.Budget, error) {
	tx := Active(db).Preload("Category").Where("family_id = ?", familyID)
	if year > 0 {
		tx = tx.Where("year = ?", year)
	}
	if month != nil {
		tx = tx.Where("month = ?", *month)
	}
	var list []models.Budget
	err := tx.Order("year DESC, month DESC, category_id ASC").Find(&list).Error
	return list, err
}

// FamiliesWithAutoRenew lists families owning an active auto-renew budget in (year, month).
func FamiliesWithAutoRenew(db *gorm.DB, year, month int) ([]uint, error) {
	var ids []uint
	err := Active(db).Model(&models.Budget{}).
		Where("year = ? AND month = ? AND auto_renew = ?", year, month, true).
		Distinct().Pluck("family_id", &ids).Error
	return ids, err
}

// UpsertBudget inserts a new budget or saves every column of an existing one.
func UpsertBudget(db *gorm.DB, b *models.Budget) error {
	if b.ID == 0 {
		return db.Omit("Category").Create(b).Error
	}
	return db.Omit("Category").Save(b).Error
}

// SaveBudgetDerived writes the reconciled fields if nobody else wrote the row
// since it was read (b.Version). It reports false when the version moved.
func SaveBudgetDerived(db *gorm.DB, b *models.Budget) (bool, error) {
	res := db.Model(&models.Budget{}).
		Where("id = ? AND version = ?", b.ID, b.Version).
		Updates(map[string]interface{}{
			"spent":           b.Spent,
			"remaining":       b.Remaining,
			"percentage_used": b.PercentageUsed,
			"status":          b.Status,
			"version":         b.Version + 1,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	b.Version++
	return true, nil
}
