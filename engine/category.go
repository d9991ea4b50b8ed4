package engine

import (
	"context"
	"fmt"

	"familyledger/models"
	"familyledger/store"

	"gorm.io/gorm"
)

// UpdateCategoryStats recomputes the family's total and last-used cache for
// a category from its active expenses.
func (e *Engine) UpdateCategoryStats(ctx context.Context, familyID, categoryID uint) error {
	db := e.conn(ctx)
	id := categoryID
	t, err := store.Sum(store.Expenses(db, store.Query{FamilyID: familyID, CategoryID: &id}))
	if err != nil {
		return fmt.Errorf("%w: category %d total: %w", ErrReconciliation, categoryID, err)
	}
	last, err := store.LatestExpenseDate(db, familyID, categoryID)
	if err != nil {
		return fmt.Errorf("%w: category %d last used: %w", ErrReconciliation, categoryID, err)
	}
	if err := store.UpsertCategoryUsage(db, familyID, categoryID, t.Total, last); err != nil {
		return fmt.Errorf("%w: category %d save: %w", ErrReconciliation, categoryID, err)
	}
	return nil
}

// Categories lists the categories visible to the family with the family's
// usage cache projected onto them.
func (e *Engine) Categories(ctx context.Context, familyID uint) ([]models.Category, error) {
	db := e.conn(ctx)
	cats, err := store.ListVisibleCategories(db, familyID)
	if err != nil {
		return nil, err
	}
	if err := e.projectUsage(db, familyID, cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (e *Engine) projectUsage(db *gorm.DB, familyID uint, cats []models.Category) error {
	usage, err := store.UsageByCategory(db, familyID)
	if err != nil {
		return fmt.Errorf("category usage: %w", err)
	}
	for i := range cats {
		if u, ok := usage[cats[i].ID]; ok {
			cats[i].TotalExpenses = u.TotalExpenses
			cats[i].LastUsed = u.LastUsed
		}
	}
	return nil
}
