package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyTrend_ExplicitRangeUsesWholeMonths(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")

	f.rawExpense(food, "5", day(2024, 1, 2)) // before the range start day
	f.rawExpense(food, "7", day(2024, 1, 20))
	f.rawExpense(food, "11", day(2024, 2, 14))
	f.rawExpense(food, "13", day(2024, 3, 28)) // after the range end day
	f.rawExpense(food, "99", day(2024, 4, 1))
	f.income("salary", "1000", day(2024, 2, 1))

	w, err := RangeWindow(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), time.UTC)
	require.NoError(t, err)
	series, err := f.e.MonthlyTrend(f.ctx, f.family, Filters{}, TrendSpec{Range: &w})
	require.NoError(t, err)

	require.Len(t, series, 3)
	assert.Equal(t, "Jan 2024", series[0].Label)
	assert.Equal(t, "Feb 2024", series[1].Label)
	assert.Equal(t, "Mar 2024", series[2].Label)

	for _, p := range series {
		mw, err := MonthWindow(p.Year, p.Month, time.UTC)
		require.NoError(t, err)
		exp, err := f.e.Aggregate(f.ctx, KindExpense, f.family, mw, Filters{})
		require.NoError(t, err)
		inc, err := f.e.Aggregate(f.ctx, KindIncome, f.family, mw, Filters{})
		require.NoError(t, err)
		assert.Truef(t, exp.Total.Equal(p.TotalExpenses), "%s expenses", p.Label)
		assert.Truef(t, inc.Total.Equal(p.TotalIncomes), "%s incomes", p.Label)
	}
	assertDec(t, "12", series[0].TotalExpenses)
	assertDec(t, "13", series[2].TotalExpenses)
	assertDec(t, "1000", series[1].TotalIncomes)
}

func TestMonthlyTrend_TrailingDefault(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")
	f.rawExpense(food, "3", day(2023, 12, 31))
	f.rawExpense(food, "4", day(2024, 5, 1))

	series, err := f.e.MonthlyTrend(f.ctx, f.family, Filters{}, TrendSpec{})
	require.NoError(t, err)

	require.Len(t, series, 6)
	assert.Equal(t, "Dec 2023", series[0].Label)
	assert.Equal(t, "May 2024", series[5].Label)
	assertDec(t, "3", series[0].TotalExpenses)
	assertDec(t, "4", series[5].TotalExpenses)
	assert.True(t, series[2].TotalExpenses.IsZero())
}

func TestMonthlyTrend_MonthCount(t *testing.T) {
	f := newFixture(t)
	series, err := f.e.MonthlyTrend(f.ctx, f.family, Filters{}, TrendSpec{MonthCount: 12})
	require.NoError(t, err)
	require.Len(t, series, 12)
	assert.Equal(t, "Jun 2023", series[0].Label)
}

func TestYearSummary(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")
	rent := f.category("Rent")
	f.rawExpense(food, "10", day(2023, 1, 5))
	f.rawExpense(rent, "500", day(2023, 6, 1))
	f.rawExpense(rent, "500", day(2024, 1, 1))
	f.income("salary", "2000", day(2023, 6, 1))

	r, err := f.e.YearSummary(f.ctx, f.family, 2023, Filters{})
	require.NoError(t, err)

	require.Len(t, r.Months, 12)
	assertDec(t, "510", r.TotalExpenses)
	assertDec(t, "2000", r.TotalIncomes)
	assertDec(t, "1490", r.Balance)
	require.Len(t, r.ByCategory, 2)
	assert.Equal(t, "Rent", r.ByCategory[0].Key)
	assertDec(t, "500", r.Months[5].TotalExpenses)
}

func TestCategoryStats(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")
	rent := f.category("Rent")
	f.budget(food, 2024, 3, "100")
	f.expense(food, "30", day(2024, 3, 1))
	f.expense(food, "20", day(2024, 3, 2))
	f.expense(rent, "150", day(2024, 3, 2))

	w, _ := MonthWindow(2024, 3, time.UTC)
	r, err := f.e.CategoryStats(f.ctx, f.family, food, w)
	require.NoError(t, err)

	assertDec(t, "50", r.Total)
	assert.Equal(t, int64(2), r.Count)
	assertDec(t, "25", r.Average)
	assert.InDelta(t, 25.0, r.Share, 1e-9)
	require.NotNil(t, r.Budget)
	assertDec(t, "50", r.Budget.Spent)
	assertDec(t, "50", r.Category.TotalExpenses)
	require.Len(t, r.MonthlyTrend, 1)
}

func TestCategoryStats_OtherFamilyCategory(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")
	require.NoError(t, f.db.Table("categories").Where("id = ?", food).Update("family_id", f.family+1).Error)

	w, _ := MonthWindow(2024, 3, time.UTC)
	_, err := f.e.CategoryStats(f.ctx, f.family, food, w)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMonthlyTrend_RangeIsBounded(t *testing.T) {
	f := newFixture(t)

	w, err := RangeWindow(day(2014, 6, 1), day(2024, 5, 31), time.UTC)
	require.NoError(t, err)
	series, err := f.e.MonthlyTrend(f.ctx, f.family, Filters{}, TrendSpec{Range: &w})
	require.NoError(t, err)
	assert.Len(t, series, maxTrendMonths)

	w, err = RangeWindow(day(1900, 1, 1), day(2024, 1, 1), time.UTC)
	require.NoError(t, err)
	_, err = f.e.MonthlyTrend(f.ctx, f.family, Filters{}, TrendSpec{Range: &w})
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestCategoryStats_RejectsUnboundedWindow(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")

	w, err := RangeWindow(day(1, 1, 1), day(9999, 12, 31), time.UTC)
	require.NoError(t, err)
	_, err = f.e.CategoryStats(f.ctx, f.family, food, w)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}
