package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"familyledger/logger"
	"familyledger/models"
	"familyledger/store"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CreateFromPreviousMonth copies the family's auto-renew budgets of the
// month before (year, month) into (year, month). A key that already has a
// budget row, active or not, is skipped and left untouched, so running it
// again creates nothing. The new budgets are reconciled immediately.
func (e *Engine) CreateFromPreviousMonth(ctx context.Context, familyID uint, year, month int) ([]models.Budget, error) {
	if _, err := MonthWindow(year, month, e.loc); err != nil {
		return nil, err
	}
	prev := YearMonth{Year: year, Month: time.Month(month)}.Prev()
	prevMonth := int(prev.Month)

	db := e.conn(ctx)
	sources, err := store.ListActiveBudgets(db, familyID, prev.Year, &prevMonth)
	if err != nil {
		return nil, fmt.Errorf("list %s budgets: %w", prev.Label(), err)
	}

	created := []models.Budget{}
	for _, src := range sources {
		if !src.AutoRenew {
			continue
		}
		key := models.Bucket{FamilyID: familyID, CategoryID: src.CategoryID, Year: year, Month: month}
		_, err := store.FindAnyBudgetByKey(db, key)
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return created, err
		}

		b := &models.Budget{
			FamilyID:       familyID,
			CategoryID:     src.CategoryID,
			Year:           year,
			Month:          month,
			Amount:         src.Amount,
			AlertThreshold: src.AlertThreshold,
			AutoRenew:      true,
			Active:         true,
			CreatedBy:      src.CreatedBy,
		}
		Derive(b, decimal.Zero)
		if err := store.UpsertBudget(db, b); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				continue
			}
			return created, fmt.Errorf("renew %s: %w", key, err)
		}
		created = append(created, *e.reconcileAfterWrite(ctx, b))
	}

	if len(created) > 0 {
		e.logFor(ctx).InfoContext(ctx, "budgets renewed",
			logger.FieldFamilyID, familyID,
			logger.FieldYear, year,
			logger.FieldMonth, month,
			"count", len(created))
	}
	return created, nil
}

// AutoRenewAll runs CreateFromPreviousMonth for every family with an
// auto-renew budget in the month before (year, month). It keeps going past
// a failing family and returns the joined errors.
func (e *Engine) AutoRenewAll(ctx context.Context, year, month int) (int, error) {
	if _, err := MonthWindow(year, month, e.loc); err != nil {
		return 0, err
	}
	prev := YearMonth{Year: year, Month: time.Month(month)}.Prev()
	families, err := store.FamiliesWithAutoRenew(e.conn(ctx), prev.Year, int(prev.Month))
	if err != nil {
		return 0, err
	}

	total := 0
	var errs []error
	for _, id := range families {
		created, err := e.CreateFromPreviousMonth(ctx, id, year, month)
		total += len(created)
		if err != nil {
			errs = append(errs, fmt.Errorf("family %d: %w", id, err))
		}
	}
	return total, errors.Join(errs...)
}
