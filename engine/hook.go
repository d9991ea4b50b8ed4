package engine

import (
	"context"
	"errors"
	"time"

	"familyledger/logger"
	"familyledger/models"

	"github.com/shopspring/decimal"
)

// MutationKind tags what happened to a transaction.
type MutationKind string

const (
	MutationCreated MutationKind = "created"
	MutationUpdated MutationKind = "updated"
	MutationDeleted MutationKind = "deleted"
)

// TransactionSnapshot is the part of an expense that decides its bucket and
// its contribution to it.
type TransactionSnapshot struct {
	FamilyID   uint
	CategoryID uint
	Date       time.Time
	Amount     decimal.Decimal
	Active     bool
}

// SnapshotOfExpense captures e, or returns nil for a nil expense.
func SnapshotOfExpense(e *models.Expense) *TransactionSnapshot {
	if e == nil {
		return nil
	}
	return &TransactionSnapshot{
		FamilyID:   e.FamilyID,
		CategoryID: e.CategoryID,
		Date:       e.Date,
		Amount:     e.Amount,
		Active:     e.Active,
	}
}

// Mutation is a before/after pair of one transaction write.
type Mutation struct {
	Kind MutationKind
	Old  *TransactionSnapshot
	New  *TransactionSnapshot
}

// NewMutation classifies a write. A missing or inactive after-image is a deletion.
func NewMutation(before, after *TransactionSnapshot) Mutation {
	m := Mutation{Old: before, New: after}
	switch {
	case after == nil || !after.Active:
		m.Kind = MutationDeleted
		m.New = nil
	case before == nil:
		m.Kind = MutationCreated
	default:
		m.Kind = MutationUpdated
	}
	return m
}

// Buckets lists every bucket the write touched: the old one and, unless the
// transaction went away, the new one. Duplicates are removed.
func (m Mutation) Buckets(loc *time.Location) []models.Bucket {
	var out []models.Bucket
	add := func(s *TransactionSnapshot) {
		if s == nil {
			return
		}
		b := models.BucketOf(s.FamilyID, s.CategoryID, s.Date, loc)
		for _, seen := range out {
			if seen == b {
				return
			}
		}
		out = append(out, b)
	}
	add(m.Old)
	add(m.New)
	return out
}

type categoryKey struct {
	familyID   uint
	categoryID uint
}

func (m Mutation) categories() []categoryKey {
	var out []categoryKey
	for _, s := range []*TransactionSnapshot{m.Old, m.New} {
		if s == nil {
			continue
		}
		k := categoryKey{s.FamilyID, s.CategoryID}
		if len(out) == 1 && out[0] == k {
			continue
		}
		out = append(out, k)
	}
	return out
}

// Reconciler refreshes one derived cache after a transaction write.
type Reconciler interface {
	Name() string
	Reconcile(ctx context.Context, m Mutation) error
}

type budgetReconciler struct{ e *Engine }

func (r budgetReconciler) Name() string { return "budget" }

func (r budgetReconciler) Reconcile(ctx context.Context, m Mutation) error {
	var errs []error
	for _, b := range m.Buckets(r.e.loc) {
		if _, err := r.e.reconcile(ctx, b); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type categoryReconciler struct{ e *Engine }

func (r categoryReconciler) Name() string { return "category" }

func (r categoryReconciler) Reconcile(ctx context.Context, m Mutation) error {
	var errs []error
	for _, k := range m.categories() {
		if err := r.e.UpdateCategoryStats(ctx, k.familyID, k.categoryID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// OnTransactionMutated must be called after every committed expense write.
// It reconciles every touched bucket and category cache before returning.
// Failures are logged and swallowed: the expense write stands and a later
// RefreshStats repairs the stale cache.
func (e *Engine) OnTransactionMutated(ctx context.Context, before, after *TransactionSnapshot) {
	m := NewMutation(before, after)
	if m.Old == nil && m.New == nil {
		return
	}
	log := e.logFor(ctx).With(logger.FieldMutation, string(m.Kind))

	for _, r := range e.reconcilers {
		if err := r.Reconcile(ctx, m); err != nil {
			for _, b := range m.Buckets(e.loc) {
				log.ErrorContext(ctx, "post-mutation reconciliation failed",
					logger.FieldOperation, r.Name(),
					logger.FieldFamilyID, b.FamilyID,
					logger.FieldCategoryID, b.CategoryID,
					logger.FieldYear, b.Year,
					logger.FieldMonth, b.Month,
					logger.FieldError, err)
			}
		}
	}
}
