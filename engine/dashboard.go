package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"familyledger/models"
	"familyledger/store"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// DashboardFilters narrow a dashboard. Without dates it shows the current month.
type DashboardFilters struct {
	UserID    *uint
	StartDate *time.Time
	EndDate   *time.Time
}

func (f DashboardFilters) ranged() bool {
	return f.StartDate != nil || f.EndDate != nil
}

// DashboardStats are the headline numbers of a dashboard window.
type DashboardStats struct {
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	Balance       decimal.Decimal `json:"balance"`
	Savings       decimal.Decimal `json:"savings"`
}

// TransactionItem is an expense or income in the recent list.
type TransactionItem struct {
	ID           uint            `json:"id"`
	Type         Kind            `json:"type"`
	UserID       uint            `json:"user_id"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	Date         time.Time       `json:"date"`
	CategoryID   *uint           `json:"category_id,omitempty"`
	CategoryName string          `json:"category_name,omitempty"`
	Source       string          `json:"source,omitempty"`
}

// BudgetOverlay is a budget evaluated against the dashboard window's spend.
// It is computed for display and never stored.
type BudgetOverlay struct {
	BudgetID       uint                `json:"budget_id"`
	CategoryID     uint                `json:"category_id"`
	CategoryName   string              `json:"category_name"`
	Year           int                 `json:"year"`
	Month          int                 `json:"month"`
	Amount         decimal.Decimal     `json:"amount"`
	Spent          decimal.Decimal     `json:"spent"`
	Remaining      decimal.Decimal     `json:"remaining"`
	PercentageUsed float64             `json:"percentage_used"`
	Status         models.BudgetStatus `json:"status"`
}

// Dashboard is the composed payload.
type Dashboard struct {
	Window             Window            `json:"window"`
	Currency           string            `json:"currency"`
	Stats              DashboardStats    `json:"stats"`
	ExpensesByCategory []Group           `json:"expenses_by_category"`
	IncomesBySource    []Group           `json:"incomes_by_source"`
	MonthlyTrend       TrendSeries       `json:"monthly_trend"`
	RecentTransactions []TransactionItem `json:"recent_transactions"`
	BudgetAlerts       []BudgetOverlay   `json:"budget_alerts"`
}

// dashboardPlan resolves the window and trend months for f.
func (e *Engine) dashboardPlan(ctx context.Context, familyID uint, f DashboardFilters) (Window, []YearMonth, error) {
	now := e.Now()
	if !f.ranged() {
		w := YearMonthOf(now, e.loc).Window(e.loc)
		return w, trailingMonths(now, e.trendMonths, e.loc), nil
	}

	start := time.Unix(0, 0).In(e.loc)
	if f.StartDate != nil {
		start = *f.StartDate
	}
	end := now
	if f.EndDate != nil {
		end = *f.EndDate
	}
	w, err := RangeWindow(start, end, e.loc)
	if err != nil {
		return Window{}, nil, err
	}

	// An open start would otherwise trend from 1970.
	trendStart := w.Start
	if f.StartDate == nil {
		earliest, ok, err := store.EarliestTransactionDate(e.conn(ctx), familyID)
		if err != nil {
			return Window{}, nil, err
		}
		trendStart = w.End
		if ok && earliest.Before(w.End) {
			trendStart = earliest
		}
	}
	trend := Window{Start: trendStart, End: w.End}
	if trend.MonthSpan(e.loc) > maxTrendMonths {
		trend.Start = YearMonthOf(w.End, e.loc).AddMonths(1 - maxTrendMonths).Window(e.loc).Start
	}
	return w, trend.Months(e.loc), nil
}

// ComposeDashboard builds the dashboard of the family for f. The budget
// overlay joins every active budget with the window's category spend,
// whatever month the budget belongs to.
func (e *Engine) ComposeDashboard(ctx context.Context, familyID uint, f DashboardFilters) (*Dashboard, error) {
	w, months, err := e.dashboardPlan(ctx, familyID, f)
	if err != nil {
		return nil, err
	}
	filters := Filters{UserID: f.UserID}

	var (
		expenses *AggregateResult
		incomes  *AggregateResult
		trend    TrendSeries
		recent   []TransactionItem
		budgets  []models.Budget
		currency string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		expenses, err = e.Aggregate(gctx, KindExpense, familyID, w, filters)
		return err
	})
	g.Go(func() (err error) {
		incomes, err = e.Aggregate(gctx, KindIncome, familyID, w, filters)
		return err
	})
	g.Go(func() (err error) {
		trend, err = e.trendFor(gctx, familyID, filters, months)
		return err
	})
	g.Go(func() (err error) {
		recent, err = e.recentTransactions(gctx, filters.query(familyID, w))
		return err
	})
	g.Go(func() (err error) {
		budgets, err = store.ListActiveBudgets(e.conn(gctx), familyID, 0, nil)
		return err
	})
	g.Go(func() (err error) {
		currency, err = e.familyCurrency(gctx, familyID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	balance := incomes.Total.Sub(expenses.Total)
	savings := balance
	if savings.IsNegative() {
		savings = decimal.Zero
	}

	return &Dashboard{
		Window:   w,
		Currency: currency,
		Stats: DashboardStats{
			TotalExpenses: expenses.Total,
			TotalIncome:   incomes.Total,
			Balance:       balance,
			Savings:       savings,
		},
		ExpensesByCategory: expenses.Groups,
		IncomesBySource:    incomes.Groups,
		MonthlyTrend:       trend,
		RecentTransactions: recent,
		BudgetAlerts:       overlayBudgets(budgets, expenses.Groups),
	}, nil
}

// overlayBudgets evaluates each budget's amount against the windowed spend of
// its category, most used first.
func overlayBudgets(budgets []models.Budget, byCategory []Group) []BudgetOverlay {
	spent := make(map[uint]decimal.Decimal, len(byCategory))
	for _, g := range byCategory {
		if g.CategoryID != nil {
			spent[*g.CategoryID] = g.Total
		}
	}

	out := make([]BudgetOverlay, 0, len(budgets))
	for i := range budgets {
		b := &budgets[i]
		s := spent[b.CategoryID]
		pct := PercentageUsed(s, b.Amount)
		o := BudgetOverlay{
			BudgetID:       b.ID,
			CategoryID:     b.CategoryID,
			Year:           b.Year,
			Month:          b.Month,
			Amount:         b.Amount,
			Spent:          s,
			Remaining:      b.Amount.Sub(s),
			PercentageUsed: pct,
			Status:         StatusFor(pct, b.Threshold()),
		}
		if b.Category != nil {
			o.CategoryName = b.Category.Name
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PercentageUsed != out[j].PercentageUsed {
			return out[i].PercentageUsed > out[j].PercentageUsed
		}
		return out[i].CategoryName < out[j].CategoryName
	})
	return out
}

// recentTransactions merges every matching expense and income, newest first.
func (e *Engine) recentTransactions(ctx context.Context, q store.Query) ([]TransactionItem, error) {
	db := e.conn(ctx)
	expenses, err := store.ListExpenses(db, q, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	incomes, err := store.ListIncomes(db, q, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list incomes: %w", err)
	}

	items := make([]TransactionItem, 0, len(expenses)+len(incomes))
	for i := range expenses {
		x := &expenses[i]
		catID := x.CategoryID
		items = append(items, TransactionItem{
			ID:           x.ID,
			Type:         KindExpense,
			UserID:       x.UserID,
			Amount:       x.Amount,
			Description:  x.Description,
			Date:         x.Date,
			CategoryID:   &catID,
			CategoryName: x.CategoryName(),
		})
	}
	for i := range incomes {
		x := &incomes[i]
		items = append(items, TransactionItem{
			ID:           x.ID,
			Type:         KindIncome,
			UserID:       x.UserID,
			Amount:       x.Amount,
			Description:  x.Description,
			Date:         x.Date,
			CategoryID:   x.CategoryID,
			CategoryName: x.CategoryName(),
			Source:       x.Source,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
	return items, nil
}

func (e *Engine) familyCurrency(ctx context.Context, familyID uint) (string, error) {
	var fam models.Family
	err := e.conn(ctx).Select("currency").Where("id = ?", familyID).First(&fam).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return e.currency, nil
	case err != nil:
		return "", err
	case fam.Currency == "":
		return e.currency, nil
	}
	return fam.Currency, nil
}
