package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"familyledger/models"
	"familyledger/store"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// TrendSpec picks the months of a trend: an explicit range when Range is
// set, otherwise the trailing MonthCount months ending this month.
type TrendSpec struct {
	MonthCount int
	Range      *Window
}

// TrendPoint holds one calendar month's totals.
type TrendPoint struct {
	Label         string          `json:"label"`
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	TotalIncomes  decimal.Decimal `json:"total_incomes"`
}

// TrendSeries is ordered oldest month first.
type TrendSeries []TrendPoint

// MonthlyTrend computes expense and income totals for every month of spec.
// Range mode uses whole calendar months, including partial ones at both ends,
// and rejects ranges spanning more than maxTrendMonths months.
func (e *Engine) MonthlyTrend(ctx context.Context, familyID uint, f Filters, spec TrendSpec) (TrendSeries, error) {
	var months []YearMonth
	if spec.Range != nil {
		if err := checkTrendRange(*spec.Range, e.loc); err != nil {
			return nil, err
		}
		months = spec.Range.Months(e.loc)
	} else {
		n := spec.MonthCount
		if n <= 0 {
			n = e.trendMonths
		}
		if n > maxTrendMonths {
			n = maxTrendMonths
		}
		months = trailingMonths(e.Now(), n, e.loc)
	}
	return e.trendFor(ctx, familyID, f, months)
}

func checkTrendRange(w Window, loc *time.Location) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if n := w.MonthSpan(loc); n > maxTrendMonths {
		return fmt.Errorf("%w: range spans %d months, at most %d allowed", ErrInvalidWindow, n, maxTrendMonths)
	}
	return nil
}

func (e *Engine) trendFor(ctx context.Context, familyID uint, f Filters, months []YearMonth) (TrendSeries, error) {
	series := make(TrendSeries, len(months))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, ym := range months {
		i, ym := i, ym
		g.Go(func() error {
			w := ym.Window(e.loc)
			exp, err := e.total(gctx, KindExpense, familyID, w, f)
			if err != nil {
				return fmt.Errorf("trend %s: %w", ym.Label(), err)
			}
			inc, err := e.total(gctx, KindIncome, familyID, w, f)
			if err != nil {
				return fmt.Errorf("trend %s: %w", ym.Label(), err)
			}
			series[i] = TrendPoint{
				Label:         ym.Label(),
				Year:          ym.Year,
				Month:         int(ym.Month),
				TotalExpenses: exp.Total,
				TotalIncomes:  inc.Total,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return series, nil
}

// YearReport is the twelve-month view of one year.
type YearReport struct {
	Year          int             `json:"year"`
	Months        TrendSeries     `json:"months"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	TotalIncomes  decimal.Decimal `json:"total_incomes"`
	Balance       decimal.Decimal `json:"balance"`
	ByCategory    []Group         `json:"by_category"`
	BySource      []Group         `json:"by_source"`
}

// YearSummary reports every month of year plus the yearly breakdowns.
func (e *Engine) YearSummary(ctx context.Context, familyID uint, year int, f Filters) (*YearReport, error) {
	w, err := YearWindow(year, e.loc)
	if err != nil {
		return nil, err
	}
	months, err := e.MonthlyTrend(ctx, familyID, f, TrendSpec{Range: &w})
	if err != nil {
		return nil, err
	}
	exp, err := e.Aggregate(ctx, KindExpense, familyID, w, f)
	if err != nil {
		return nil, err
	}
	inc, err := e.Aggregate(ctx, KindIncome, familyID, w, f)
	if err != nil {
		return nil, err
	}

	r := &YearReport{
		Year:          year,
		Months:        months,
		TotalExpenses: exp.Total,
		TotalIncomes:  inc.Total,
		Balance:       inc.Total.Sub(exp.Total),
		ByCategory:    exp.Groups,
		BySource:      inc.Groups,
	}
	return r, nil
}

// CategoryReport describes one category's spend in a window.
type CategoryReport struct {
	Category     models.Category `json:"category"`
	Window       Window          `json:"window"`
	Total        decimal.Decimal `json:"total"`
	Count        int64           `json:"count"`
	Average      decimal.Decimal `json:"average"`
	Share        float64         `json:"share"`
	Budget       *models.Budget  `json:"budget,omitempty"`
	MonthlyTrend TrendSeries     `json:"monthly_trend"`
}

// CategoryStats reports a category's spend in w and its share of the
// family's spend. When w is a single calendar month the month's budget is
// attached.
func (e *Engine) CategoryStats(ctx context.Context, familyID, categoryID uint, w Window) (*CategoryReport, error) {
	if err := checkTrendRange(w, e.loc); err != nil {
		return nil, err
	}
	db := e.conn(ctx)
	cat, err := store.FindVisibleCategory(db, familyID, categoryID)
	if err != nil {
		return nil, notFound(fmt.Sprintf("category %d", categoryID), err)
	}
	projected := []models.Category{*cat}
	if err := e.projectUsage(db, familyID, projected); err != nil {
		return nil, err
	}

	only := Filters{CategoryID: &categoryID}
	mine, err := e.total(ctx, KindExpense, familyID, w, only)
	if err != nil {
		return nil, err
	}
	all, err := e.total(ctx, KindExpense, familyID, w, Filters{})
	if err != nil {
		return nil, err
	}
	trend, err := e.MonthlyTrend(ctx, familyID, only, TrendSpec{Range: &w})
	if err != nil {
		return nil, err
	}

	r := &CategoryReport{
		Category:     projected[0],
		Window:       w,
		Total:        mine.Total,
		Count:        mine.Count,
		Average:      decimal.Zero,
		Share:        share(mine.Total, all.Total),
		MonthlyTrend: trend,
	}
	if mine.Count > 0 {
		r.Average = mine.Total.Div(decimal.NewFromInt(mine.Count)).Round(2)
	}

	if w.MonthSpan(e.loc) == 1 {
		ym := YearMonthOf(w.Start, e.loc)
		b, err := store.FindBudgetByKey(db, models.Bucket{FamilyID: familyID, CategoryID: categoryID, Year: ym.Year, Month: int(ym.Month)})
		switch {
		case err == nil:
			r.Budget = b
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}
	return r, nil
}
