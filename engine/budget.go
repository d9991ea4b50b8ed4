package engine

import (
	"context"
	"errors"
	"fmt"

	"familyledger/logger"
	"familyledger/models"
	"familyledger/store"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BudgetInput is what an admin authors when creating a budget.
type BudgetInput struct {
	CategoryID     uint
	Year           int
	Month          int
	Amount         decimal.Decimal
	AlertThreshold *int // nil takes the engine default; 0 warns on any spend
	AutoRenew      bool
	CreatedBy      uint
}

// BudgetSettings changes the non-amount fields of a budget. Nil fields are kept.
type BudgetSettings struct {
	AlertThreshold *int
	AutoRenew      *bool
}

func validateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: negative amount %s", ErrInvalidBudget, amount)
	}
	return nil
}

func validateThreshold(t int) error {
	if t < 0 || t > 100 {
		return fmt.Errorf("%w: alert threshold %d outside 0..100", ErrInvalidBudget, t)
	}
	return nil
}

// CreateBudget creates the budget for a bucket and reconciles it at once.
// An active budget for the key is a conflict; a soft-deleted one is revived
// with the new settings.
func (e *Engine) CreateBudget(ctx context.Context, familyID uint, in BudgetInput) (*models.Budget, error) {
	if _, err := MonthWindow(in.Year, in.Month, e.loc); err != nil {
		return nil, err
	}
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	threshold := e.threshold
	if in.AlertThreshold != nil {
		if err := validateThreshold(*in.AlertThreshold); err != nil {
			return nil, err
		}
		threshold = *in.AlertThreshold
	}

	db := e.conn(ctx)
	if _, err := store.FindVisibleCategory(db, familyID, in.CategoryID); err != nil {
		return nil, notFound(fmt.Sprintf("category %d", in.CategoryID), err)
	}

	key := models.Bucket{FamilyID: familyID, CategoryID: in.CategoryID, Year: in.Year, Month: in.Month}
	b, err := store.FindAnyBudgetByKey(db, key)
	switch {
	case err == nil && b.Active:
		return nil, fmt.Errorf("%w: %s", ErrDuplicateBudget, key)
	case err == nil:
		b.History = b.History.Append(models.BudgetHistoryEntry{
			Amount:         in.Amount,
			PreviousAmount: b.Amount,
			ChangedBy:      in.CreatedBy,
			ChangedAt:      e.Now(),
			Reason:         "reactivated",
		}, e.historyLimit)
		b.Amount = in.Amount
		b.AlertThreshold = threshold
		b.AutoRenew = in.AutoRenew
		b.Active = true
		b.Version++
	case errors.Is(err, gorm.ErrRecordNotFound):
		b = &models.Budget{
			FamilyID:       familyID,
			CategoryID:     in.CategoryID,
			Year:           in.Year,
			Month:          in.Month,
			Amount:         in.Amount,
			AlertThreshold: threshold,
			AutoRenew:      in.AutoRenew,
			Active:         true,
			CreatedBy:      in.CreatedBy,
		}
	default:
		return nil, err
	}
	Derive(b, decimal.Zero)

	if err := store.UpsertBudget(db, b); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateBudget, key)
		}
		return nil, err
	}
	return e.reconcileAfterWrite(ctx, b), nil
}

// reconcileAfterWrite brings a freshly written budget up to date. A failure
// leaves the stored row as written and is only logged.
func (e *Engine) reconcileAfterWrite(ctx context.Context, b *models.Budget) *models.Budget {
	fresh, err := e.reconcile(ctx, b.Bucket())
	if err != nil || fresh == nil {
		if err != nil {
			e.logFor(ctx).ErrorContext(ctx, "budget reconciliation failed",
				logger.FieldBudgetID, b.ID, logger.FieldError, err)
		}
		return b
	}
	return fresh
}

// GetBudget fetches one active budget of the family.
func (e *Engine) GetBudget(ctx context.Context, familyID, budgetID uint) (*models.Budget, error) {
	b, err := store.FindBudget(e.conn(ctx), familyID, budgetID)
	if err != nil {
		return nil, notFound(fmt.Sprintf("budget %d", budgetID), err)
	}
	return b, nil
}

// ListBudgets lists the family's active budgets of a year, or of one month
// when month is set.
func (e *Engine) ListBudgets(ctx context.Context, familyID uint, year int, month *int) ([]models.Budget, error) {
	if month != nil {
		if _, err := MonthWindow(year, *month, e.loc); err != nil {
			return nil, err
		}
	}
	return store.ListActiveBudgets(e.conn(ctx), familyID, year, month)
}

// UpdateBudgetAmount sets a new target, records it in the bounded history
// and recomputes the derived fields against the bucket's current spend.
func (e *Engine) UpdateBudgetAmount(ctx context.Context, familyID, budgetID uint, amount decimal.Decimal, changedBy uint, reason string) (*models.Budget, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	b, err := e.GetBudget(ctx, familyID, budgetID)
	if err != nil {
		return nil, err
	}

	b.History = b.History.Append(models.BudgetHistoryEntry{
		Amount:         amount,
		PreviousAmount: b.Amount,
		ChangedBy:      changedBy,
		ChangedAt:      e.Now(),
		Reason:         reason,
	}, e.historyLimit)
	b.Amount = amount
	return e.saveWithFreshSpend(ctx, b)
}

// UpdateBudgetSettings changes the alert threshold or auto-renew flag.
func (e *Engine) UpdateBudgetSettings(ctx context.Context, familyID, budgetID uint, s BudgetSettings) (*models.Budget, error) {
	if s.AlertThreshold != nil {
		if err := validateThreshold(*s.AlertThreshold); err != nil {
			return nil, err
		}
	}
	b, err := e.GetBudget(ctx, familyID, budgetID)
	if err != nil {
		return nil, err
	}
	if s.AlertThreshold != nil {
		b.AlertThreshold = *s.AlertThreshold
	}
	if s.AutoRenew != nil {
		b.AutoRenew = *s.AutoRenew
	}
	return e.saveWithFreshSpend(ctx, b)
}

func (e *Engine) saveWithFreshSpend(ctx context.Context, b *models.Budget) (*models.Budget, error) {
	db := e.conn(ctx)
	w, err := MonthWindow(b.Year, b.Month, e.loc)
	if err != nil {
		return nil, err
	}
	spent, err := store.SumBucket(db, b.Bucket(), w.Start, w.End)
	if err != nil {
		return nil, err
	}
	prev := b.Status
	Derive(b, spent)
	b.Version++
	if err := store.UpsertBudget(db, b); err != nil {
		return nil, err
	}
	e.alertIfEscalated(ctx, b, prev)
	return b, nil
}

// DeactivateBudget soft-deletes a budget.
func (e *Engine) DeactivateBudget(ctx context.Context, familyID, budgetID uint) error {
	b, err := e.GetBudget(ctx, familyID, budgetID)
	if err != nil {
		return err
	}
	return e.conn(ctx).Model(&models.Budget{}).Where("id = ?", b.ID).
		Updates(map[string]interface{}{"active": false, "version": b.Version + 1}).Error
}
