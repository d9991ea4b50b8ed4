package engine

import (
	"context"
	"fmt"
	"sort"

	"familyledger/store"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Kind selects the ledger an aggregate reads.
type Kind string

const (
	KindExpense Kind = "expense"
	KindIncome  Kind = "income"
)

// Filters narrow an aggregate. Nil fields match everything.
type Filters struct {
	UserID     *uint
	CategoryID *uint
}

// Group is one row of a breakdown: a category for expenses, a source for incomes.
type Group struct {
	Key        string          `json:"key"`
	CategoryID *uint           `json:"category_id,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Count      int64           `json:"count"`
	Percentage float64         `json:"percentage"`
}

// AggregateResult is the outcome of Aggregate.
type AggregateResult struct {
	Kind   Kind            `json:"kind"`
	Window Window          `json:"window"`
	Total  decimal.Decimal `json:"total"`
	Count  int64           `json:"count"`
	Groups []Group         `json:"groups"`
}

func (k Kind) valid() bool {
	return k == KindExpense || k == KindIncome
}

func (f Filters) query(familyID uint, w Window) store.Query {
	return store.Query{
		FamilyID:   familyID,
		Start:      w.Start,
		End:        w.End,
		UserID:     f.UserID,
		CategoryID: f.CategoryID,
	}
}

func (e *Engine) scoped(db *gorm.DB, kind Kind, q store.Query) *gorm.DB {
	if kind == KindIncome {
		return store.Incomes(db, q)
	}
	return store.Expenses(db, q)
}

// total is the ungrouped sum every aggregate and trend point is built on.
func (e *Engine) total(ctx context.Context, kind Kind, familyID uint, w Window, f Filters) (store.Totals, error) {
	t, err := store.Sum(e.scoped(e.conn(ctx), kind, f.query(familyID, w)))
	if err != nil {
		return store.Totals{}, fmt.Errorf("sum %s: %w", kind, err)
	}
	return t, nil
}

// Aggregate sums the family's active transactions of kind inside w, grouped
// by category (expenses) or source (incomes), largest group first.
func (e *Engine) Aggregate(ctx context.Context, kind Kind, familyID uint, w Window, f Filters) (*AggregateResult, error) {
	if !kind.valid() {
		return nil, fmt.Errorf("unknown aggregate kind %q", kind)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}

	t, err := e.total(ctx, kind, familyID, w, f)
	if err != nil {
		return nil, err
	}
	res := &AggregateResult{Kind: kind, Window: w, Total: t.Total, Count: t.Count, Groups: []Group{}}
	if t.Count == 0 {
		return res, nil
	}

	if kind == KindExpense {
		res.Groups, err = e.groupByCategory(ctx, familyID, w, f)
	} else {
		res.Groups, err = e.groupBySource(ctx, familyID, w, f)
	}
	if err != nil {
		return nil, err
	}

	for i := range res.Groups {
		res.Groups[i].Percentage = share(res.Groups[i].Total, res.Total)
	}
	sortGroups(res.Groups)
	return res, nil
}

func (e *Engine) groupByCategory(ctx context.Context, familyID uint, w Window, f Filters) ([]Group, error) {
	db := e.conn(ctx)
	rows, err := store.SumByCategory(store.Expenses(db, f.query(familyID, w)))
	if err != nil {
		return nil, fmt.Errorf("group expenses: %w", err)
	}
	ids := make([]uint, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.CategoryID)
	}
	names, err := store.CategoryNames(db, ids)
	if err != nil {
		return nil, fmt.Errorf("category names: %w", err)
	}

	groups := make([]Group, 0, len(rows))
	for _, r := range rows {
		id := r.CategoryID
		name, ok := names[id]
		if !ok {
			name = fmt.Sprintf("category #%d", id)
		}
		groups = append(groups, Group{Key: name, CategoryID: &id, Total: r.Total, Count: r.Count})
	}
	return groups, nil
}

func (e *Engine) groupBySource(ctx context.Context, familyID uint, w Window, f Filters) ([]Group, error) {
	rows, err := store.SumBySource(store.Incomes(e.conn(ctx), f.query(familyID, w)))
	if err != nil {
		return nil, fmt.Errorf("group incomes: %w", err)
	}
	groups := make([]Group, 0, len(rows))
	for _, r := range rows {
		groups = append(groups, Group{Key: r.Source, Total: r.Total, Count: r.Count})
	}
	return groups, nil
}

// share is part/whole*100, or 0 for an empty whole.
func share(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return part.Mul(hundred).Div(whole).InexactFloat64()
}

func sortGroups(groups []Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		if c := groups[i].Total.Cmp(groups[j].Total); c != 0 {
			return c > 0
		}
		return groups[i].Key < groups[j].Key
	})
}
