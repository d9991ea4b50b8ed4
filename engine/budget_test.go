package engine

import (
	"fmt"
	"testing"

	"familyledger/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBudget_Duplicate(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")
	f.budget(food, 2024, 3, "100")

	_, err := f.e.CreateBudget(f.ctx, f.family, BudgetInput{CategoryID: food, Year: 2024, Month: 3, Amount: dec("50")})
	assert.ErrorIs(t, err, ErrDuplicateBudget)
}

func TestCreateBudget_ReconcilesExistingSpend(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")
	f.expense(food, "45", day(2024, 3, 3))

	b := f.budget(food, 2024, 3, "90")
	assertDec(t, "45", b.Spent)
	assertDec(t, "45", b.Remaining)
	assert.Equal(t, float64(50), b.PercentageUsed)
	assert.Equal(t, models.BudgetStatusNormal, b.Status)
	assert.Equal(t, 80, b.AlertThreshold)
}

func TestCreateBudget_ReactivatesDeletedRow(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")
	old := f.budget(food, 2024, 3, "100")
	require.NoError(t, f.e.DeactivateBudget(f.ctx, f.family, old.ID))

	b := f.budget(food, 2024, 3, "250")
	assert.Equal(t, old.ID, b.ID)
	assert.True(t, b.Active)
	assertDec(t, "250", b.Amount)
	require.Len(t, b.History, 1)
	assertDec(t, "100", b.History[0].PreviousAmount)
}

func TestCreateBudget_Validation(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")

	_, err := f.e.CreateBudget(f.ctx, f.family, BudgetInput{CategoryID: food, Year: 2024, Month: 3, Amount: dec("-1")})
	assert.ErrorIs(t, err, ErrInvalidBudget)

	tooHigh := 101
	_, err = f.e.CreateBudget(f.ctx, f.family, BudgetInput{CategoryID: food, Year: 2024, Month: 3, Amount: dec("1"), AlertThreshold: &tooHigh})
	assert.ErrorIs(t, err, ErrInvalidBudget)

	_, err = f.e.CreateBudget(f.ctx, f.family, BudgetInput{CategoryID: food, Year: 2024, Month: 13, Amount: dec("1")})
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = f.e.CreateBudget(f.ctx, f.family, BudgetInput{CategoryID: food + 1000, Year: 2024, Month: 3, Amount: dec("1")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateBudget_DefaultCategoryIsShared(t *testing.T) {
	f := newFixture(t)
	global := models.Category{Name: "Other", IsDefault: true, Active: true}
	require.NoError(t, f.db.Create(&global).Error)

	b := f.budget(global.ID, 2024, 3, "10")
	assert.Equal(t, global.ID, b.CategoryID)
}

func TestUpdateBudgetAmount_RecomputesAndRecordsHistory(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")
	b := f.budget(food, 2024, 3, "100")
	f.expense(food, "90", day(2024, 3, 1))
	assert.Equal(t, models.BudgetStatusWarning, f.reload(b.ID).Status)

	got, err := f.e.UpdateBudgetAmount(f.ctx, f.family, b.ID, dec("300"), 42, "raise")
	require.NoError(t, err)
	assertDec(t, "300", got.Amount)
	assertDec(t, "210", got.Remaining)
	assert.Equal(t, float64(30), got.PercentageUsed)
	assert.Equal(t, models.BudgetStatusSafe, got.Status)

	stored := f.reload(b.ID)
	require.Len(t, stored.History, 1)
	assert.Equal(t, uint(42), stored.History[0].ChangedBy)
	assert.Equal(t, "raise", stored.History[0].Reason)
	assertDec(t, "300", stored.History[0].Amount)
	assertDec(t, "100", stored.History[0].PreviousAmount)
}

func TestUpdateBudgetAmount_HistoryIsBounded(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")
	b := f.budget(food, 2024, 3, "100")

	for i := 1; i <= 12; i++ {
		_, err := f.e.UpdateBudgetAmount(f.ctx, f.family, b.ID, dec(fmt.Sprintf("%d", 100+i)), 1, fmt.Sprintf("change %d", i))
		require.NoError(t, err)
	}

	stored := f.reload(b.ID)
	require.Len(t, stored.History, 10)
	assert.Equal(t, "change 3", stored.History[0].Reason)
	assert.Equal(t, "change 12", stored.History[9].Reason)
}

func TestUpdateBudgetSettings_ThresholdMovesStatus(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")
	b := f.budget(food, 2024, 3, "100")
	f.expense(food, "70", day(2024, 3, 1))
	assert.Equal(t, models.BudgetStatusNormal, f.reload(b.ID).Status)

	threshold := 60
	renew := true
	got, err := f.e.UpdateBudgetSettings(f.ctx, f.family, b.ID, BudgetSettings{AlertThreshold: &threshold, AutoRenew: &renew})
	require.NoError(t, err)
	assert.Equal(t, models.BudgetStatusWarning, got.Status)
	assert.True(t, f.reload(b.ID).AutoRenew)

	bad := 120
	_, err = f.e.UpdateBudgetSettings(f.ctx, f.family, b.ID, BudgetSettings{AlertThreshold: &bad})
	assert.ErrorIs(t, err, ErrInvalidBudget)
}

func TestZeroThreshold_WarnsOnAnySpend(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")
	zero := 0
	b, err := f.e.CreateBudget(f.ctx, f.family, BudgetInput{CategoryID: food, Year: 2024, Month: 3, Amount: dec("100"), AlertThreshold: &zero})
	require.NoError(t, err)
	assert.Equal(t, models.BudgetStatusSafe, b.Status)
	assert.Equal(t, 0, f.reload(b.ID).AlertThreshold)

	f.expense(food, "1", day(2024, 3, 2))
	assert.Equal(t, models.BudgetStatusWarning, f.reload(b.ID).Status)

	rent := f.category("Rent")
	other := f.budget(rent, 2024, 3, "1000")
	f.expense(rent, "10", day(2024, 3, 2))
	assert.Equal(t, models.DefaultAlertThreshold, other.AlertThreshold)
	assert.Equal(t, models.BudgetStatusSafe, f.reload(other.ID).Status)

	got, err := f.e.UpdateBudgetSettings(f.ctx, f.family, other.ID, BudgetSettings{AlertThreshold: &zero})
	require.NoError(t, err)
	assert.Equal(t, models.BudgetStatusWarning, got.Status)
	stored := f.reload(other.ID)
	assert.Equal(t, 0, stored.AlertThreshold)
	assert.Equal(t, 0, stored.Threshold())
}

func TestGetBudget_NotFound(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")
	b := f.budget(food, 2024, 3, "100")

	_, err := f.e.GetBudget(f.ctx, f.family, b.ID+1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.e.GetBudget(f.ctx, f.family+1, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.e.DeactivateBudget(f.ctx, f.family, b.ID))
	_, err = f.e.GetBudget(f.ctx, f.family, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListBudgets(t *testing.T) {
	f := newFixture(t)
	food := f.category("Food")
	rent := f.category("Rent")
	f.budget(food, 2024, 3, "100")
	f.budget(rent, 2024, 3, "100")
	f.budget(food, 2024, 4, "100")

	m := 3
	list, err := f.e.ListBudgets(f.ctx, f.family, 2024, &m)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	list, err = f.e.ListBudgets(f.ctx, f.family, 2024, nil)
	require.NoError(t, err)
	assert.Len(t, list, 3)
	assert.NotNil(t, list[0].Category)
}
