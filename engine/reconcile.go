package engine

import (
	"context"
	"errors"
	"fmt"

	"familyledger/logger"
	"familyledger/models"
	"familyledger/store"

	"gorm.io/gorm"
)

// ReconcileBucket recomputes the cached spend of the active budget keyed by
// (familyID, categoryID, year, month) from the bucket's active expenses.
// A bucket without a budget is a no-op and returns nil, nil.
//
// The write is guarded by the budget version; when another writer got there
// first the row is re-read and recomputed.
func (e *Engine) ReconcileBucket(ctx context.Context, familyID, categoryID uint, year, month int) (*models.Budget, error) {
	bucket := models.Bucket{FamilyID: familyID, CategoryID: categoryID, Year: year, Month: month}
	w, err := MonthWindow(year, month, e.loc)
	if err != nil {
		return nil, err
	}
	db := e.conn(ctx)

	for attempt := 0; attempt < maxReconcileAttempts; attempt++ {
		budget, err := store.FindBudgetByKey(db, bucket)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: load budget %s: %w", ErrReconciliation, bucket, err)
		}

		spent, err := store.SumBucket(db, bucket, w.Start, w.End)
		if err != nil {
			return nil, fmt.Errorf("%w: sum %s: %w", ErrReconciliation, bucket, err)
		}

		prev := budget.Status
		if !Derive(budget, spent) {
			return budget, nil
		}
		saved, err := store.SaveBudgetDerived(db, budget)
		if err != nil {
			return nil, fmt.Errorf("%w: save budget %d: %w", ErrReconciliation, budget.ID, err)
		}
		if saved {
			e.alertIfEscalated(ctx, budget, prev)
			return budget, nil
		}
		e.logFor(ctx).DebugContext(ctx, "budget version moved, retrying",
			logger.FieldBudgetID, budget.ID, "attempt", attempt+1)
	}
	return nil, fmt.Errorf("%w: %s: concurrent updates", ErrReconciliation, bucket)
}

func (e *Engine) reconcile(ctx context.Context, b models.Bucket) (*models.Budget, error) {
	return e.ReconcileBucket(ctx, b.FamilyID, b.CategoryID, b.Year, b.Month)
}

// alertIfEscalated tells the notifier when b climbed into warning or exceeded.
// Delivery failures are logged only.
func (e *Engine) alertIfEscalated(ctx context.Context, b *models.Budget, prev models.BudgetStatus) {
	if e.notifier == nil || !escalated(prev, b.Status) {
		return
	}
	alert := models.BudgetAlert{
		FamilyID:       b.FamilyID,
		BudgetID:       b.ID,
		CategoryID:     b.CategoryID,
		Year:           b.Year,
		Month:          b.Month,
		Amount:         b.Amount,
		Spent:          b.Spent,
		PercentageUsed: b.PercentageUsed,
		Status:         b.Status,
		PreviousStatus: prev,
		At:             e.Now(),
	}
	if b.Category != nil {
		alert.CategoryName = b.Category.Name
	}
	if err := e.notifier.NotifyBudgetAlert(ctx, alert); err != nil {
		e.logFor(ctx).WarnContext(ctx, "budget alert not delivered",
			logger.FieldBudgetID, b.ID,
			logger.FieldStatus, string(b.Status),
			logger.FieldError, err)
	}
}

// RefreshResult counts what an explicit refresh recomputed.
type RefreshResult struct {
	Budgets    int `json:"budgets"`
	Categories int `json:"categories"`
}

// RefreshStats re-reconciles every active budget of (year, month) and every
// category cache of the family. Unlike the post-mutation hook, failures are
// returned.
func (e *Engine) RefreshStats(ctx context.Context, familyID uint, year, month int) (*RefreshResult, error) {
	if _, err := MonthWindow(year, month, e.loc); err != nil {
		return nil, err
	}
	db := e.conn(ctx)
	m := month

	budgets, err := store.ListActiveBudgets(db, familyID, year, &m)
	if err != nil {
		return nil, fmt.Errorf("%w: list budgets: %w", ErrReconciliation, err)
	}
	res := &RefreshResult{}
	var errs []error
	for i := range budgets {
		if _, err := e.reconcile(ctx, budgets[i].Bucket()); err != nil {
			errs = append(errs, err)
			continue
		}
		res.Budgets++
	}

	ids, err := store.UsedCategoryIDs(db, familyID)
	if err != nil {
		return nil, fmt.Errorf("%w: list categories: %w", ErrReconciliation, err)
	}
	for _, id := range ids {
		if err := e.UpdateCategoryStats(ctx, familyID, id); err != nil {
			errs = append(errs, err)
			continue
		}
		res.Categories++
	}
	return res, errors.Join(errs...)
}
