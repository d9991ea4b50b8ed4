package store

import (
	"time"

	"familyledger/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FindVisibleCategory loads an active category the family may use.
func FindVisibleCategory(db *gorm.DB, familyID, id uint) (*models.Category, error) {
	var c models.Category
	if err := db.Scopes(VisibleCategories(familyID)).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// ListVisibleCategories returns the family's categories plus the defaults,
// in display order.
func ListVisibleCategories(db *gorm.DB, familyID uint) ([]models.Category, error) {
	var list []models.Category
	err := db.Scopes(VisibleCategories(familyID)).Order("sort ASC, id ASC").Find(&list).Error
	return list, err
}

// CategoryNameTaken reports whether name is already used by the family or a
// default category, ignoring excludeID.
func CategoryNameTaken(db *gorm.DB, familyID uint, name string, excludeID uint) (bool, error) {
	var n int64
	err := db.Model(&models.Category{}).Scopes(VisibleCategories(familyID)).
		Where("name = ? AND id <> ?", name, excludeID).
		Count(&n).Error
	return n > 0, err
}

// CategoryNames maps category IDs to names.
func CategoryNames(db *gorm.DB, ids []uint) (map[uint]string, error) {
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var rows []struct {
		ID   uint
		Name string
	}
	if err := db.Model(&models.Category{}).Select("id, name").Where("id IN ?", ids).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		names[r.ID] = r.Name
	}
	return names, nil
}

// UsageByCategory returns the family's cached usage rows keyed by category.
func UsageByCategory(db *gorm.DB, familyID uint) (map[uint]models.CategoryUsage, error) {
	var rows []models.CategoryUsage
	if err := db.Where("family_id = ?", familyID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]models.CategoryUsage, len(rows))
	for _, r := range rows {
		out[r.CategoryID] = r
	}
	return out, nil
}

// FindCategoryUsage loads one usage row; gorm.ErrRecordNotFound when never computed.
func FindCategoryUsage(db *gorm.DB, familyID, categoryID uint) (*models.CategoryUsage, error) {
	var u models.CategoryUsage
	if err := db.Where("family_id = ? AND category_id = ?", familyID, categoryID).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// UpsertCategoryUsage writes the usage cache for (familyID, categoryID).
func UpsertCategoryUsage(db *gorm.DB, familyID, categoryID uint, total decimal.Decimal, lastUsed *time.Time) error {
	u := models.CategoryUsage{
		FamilyID:      familyID,
		CategoryID:    categoryID,
		TotalExpenses: total,
		LastUsed:      lastUsed,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "family_id"}, {Name: "category_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_expenses", "last_used", "updated_at"}),
	}).Create(&u).Error
}

// UsedCategoryIDs lists every category the family has ever recorded an expense against.
func UsedCategoryIDs(db *gorm.DB, familyID uint) ([]uint, error) {
	var ids []uint
	err := db.Model(&models.Expense{}).Where("family_id = ?", familyID).Distinct().Pluck("category_id", &ids).Error
	return ids, err
}
