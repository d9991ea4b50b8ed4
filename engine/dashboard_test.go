package engine

import (
	"testing"
	"time"

	"familyledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeDashboard_CurrentMonth(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")
	rent := f.category("Rent")

	f.expense(food, "120", day(2024, 5, 2))
	f.expense(rent, "800", day(2024, 5, 1))
	f.expense(food, "60", day(2024, 4, 20))
	f.income("salary", "2000", day(2024, 5, 1))

	d, err := f.e.ComposeDashboard(f.ctx, f.family, DashboardFilters{})
	require.NoError(t, err)

	assert.Equal(t, "EUR", d.Currency)
	assert.True(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).Equal(d.Window.Start))
	assertDec(t, "920", d.Stats.TotalExpenses)
	assertDec(t, "2000", d.Stats.TotalIncome)
	assertDec(t, "1080", d.Stats.Balance)
	assertDec(t, "1080", d.Stats.Savings)

	require.Len(t, d.ExpensesByCategory, 2)
	assert.Equal(t, "Rent", d.ExpensesByCategory[0].Key)

	require.Len(t, d.MonthlyTrend, 6)
	assert.Equal(t, "May 2024", d.MonthlyTrend[5].Label)
	assertDec(t, "60", d.MonthlyTrend[4].TotalExpenses)

	require.Len(t, d.RecentTransactions, 3)
	assert.True(t, day(2024, 5, 2).Equal(d.RecentTransactions[0].Date))
	assert.Equal(t, "Food", d.RecentTransactions[0].CategoryName)
}

func TestComposeDashboard_NegativeBalanceHasNoSavings(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")
	f.expense(food, "300", day(2024, 5, 2))
	f.income("salary", "100", day(2024, 5, 1))

	d, err := f.e.ComposeDashboard(f.ctx, f.family, DashboardFilters{})
	require.NoError(t, err)
	assertDec(t, "-200", d.Stats.Balance)
	assertDec(t, "0", d.Stats.Savings)
}

func TestComposeDashboard_OverlayIsDisplayOnly(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")
	march := f.budget(food, 2024, 3, "100")
	f.expense(food, "40", day(2024, 3, 10))
	f.expense(food, "70", day(2024, 4, 10))

	stored := f.reload(march.ID)
	assertDec(t, "40", stored.Spent)

	start := day(2024, 3, 1)
	end := day(2024, 4, 30)
	d, err := f.e.ComposeDashboard(f.ctx, f.family, DashboardFilters{StartDate: &start, EndDate: &end})
	require.NoError(t, err)

	// the two-month spend is measured against the single March amount
	require.Len(t, d.BudgetAlerts, 1)
	o := d.BudgetAlerts[0]
	assertDec(t, "110", o.Spent)
	assertDec(t, "-10", o.Remaining)
	assert.InDelta(t, 110.0, o.PercentageUsed, 1e-9)
	assert.Equal(t, models.BudgetStatusExceeded, o.Status)

	after := f.reload(march.ID)
	assert.Equal(t, stored.Version, after.Version)
	assertDec(t, "40", after.Spent)
	assert.Equal(t, models.BudgetStatusSafe, after.Status)

	require.Len(t, d.MonthlyTrend, 2)
}

func TestComposeDashboard_OverlayOrdersByUsage(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")
	rent := f.category("Rent")
	fun := f.category("Fun")
	f.budget(food, 2024, 5, "100")
	f.budget(rent, 2024, 5, "100")
	f.budget(fun, 2024, 5, "100")
	f.expense(rent, "90", day(2024, 5, 1))
	f.expense(food, "10", day(2024, 5, 1))

	d, err := f.e.ComposeDashboard(f.ctx, f.family, DashboardFilters{})
	require.NoError(t, err)
	require.Len(t, d.BudgetAlerts, 3)
	assert.Equal(t, "Rent", d.BudgetAlerts[0].CategoryName)
	assert.Equal(t, "Food", d.BudgetAlerts[1].CategoryName)
	assert.Equal(t, "Fun", d.BudgetAlerts[2].CategoryName)
	assert.Equal(t, models.BudgetStatusSafe, d.BudgetAlerts[2].Status)
}

func TestComposeDashboard_OpenStartTrendsFromFirstTransaction(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")
	f.rawExpense(food, "5", day(2024, 2, 14))
	f.rawExpense(food, "6", day(2024, 4, 1))

	end := day(2024, 4, 30)
	d, err := f.e.ComposeDashboard(f.ctx, f.family, DashboardFilters{EndDate: &end})
	require.NoError(t, err)

	assertDec(t, "11", d.Stats.TotalExpenses)
	require.Len(t, d.MonthlyTrend, 3)
	assert.Equal(t, "Feb 2024", d.MonthlyTrend[0].Label)
	assert.Equal(t, "Apr 2024", d.MonthlyTrend[2].Label)
}

func TestComposeDashboard_UserFilter(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")
	f.rawExpense(food, "5", day(2024, 5, 2))
	other := f.rawExpense(food, "50", day(2024, 5, 3))
	require.NoError(t, f.db.Model(other).Update("user_id", 99).Error)

	user := uint(99)
	d, err := f.e.ComposeDashboard(f.ctx, f.family, DashboardFilters{UserID: &user})
	require.NoError(t, err)
	assertDec(t, "50", d.Stats.TotalExpenses)
	require.Len(t, d.RecentTransactions, 1)
	assert.Equal(t, uint(99), d.RecentTransactions[0].UserID)
}

func TestComposeDashboard_InvertedRange(t *testing.T) {
	f := newFixture(t)
	start := day(2024, 5, 2)
	end := day(2024, 5, 1)
	_, err := f.e.ComposeDashboard(f.ctx, f.family, DashboardFilters{StartDate: &start, EndDate: &end})
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestComposeDashboard_UnknownFamilyUsesDefaultCurrency(t *testing.T) {
	f := newFixture(t)
	d, err := f.e.ComposeDashboard(f.ctx, f.family+50, DashboardFilters{})
	require.NoError(t, err)
	assert.Equal(t, "CNY", d.Currency)
	assert.Empty(t, d.BudgetAlerts)
}

func TestComposeDashboard_WideRangeClampsTrend(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")
	f.rawExpense(food, "8", day(1990, 3, 1))
	f.rawExpense(food, "2", day(2024, 5, 2))

	start := day(1900, 1, 1)
	end := day(2024, 5, 31)
	d, err := f.e.ComposeDashboard(f.ctx, f.family, DashboardFilters{StartDate: &start, EndDate: &end})
	require.NoError(t, err)

	assertDec(t, "10", d.Stats.TotalExpenses)
	require.Len(t, d.MonthlyTrend, maxTrendMonths)
	assert.Equal(t, "Jun 2014", d.MonthlyTrend[0].Label)
	assert.Equal(t, "May 2024", d.MonthlyTrend[maxTrendMonths-1].Label)
}
