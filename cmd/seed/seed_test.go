package main

import (
	"context"
	"testing"
	"time"

	"familyledger/database"
	"familyledger/engine"
	"familyledger/models"
	"familyledger/store"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeeder_RunKeepsBudgetsReconciled(t *testing.T) {
	db, err := database.OpenSQLite(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.SeedDefaultCategories(db))

	now := time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)
	eng := engine.New(db, engine.Options{Location: time.UTC, Now: func() time.Time { return now }})
	s := &Seeder{DB: db, Engine: eng, Faker: gofakeit.New(42)}

	res, err := s.Run(context.Background(), Options{Families: 2, Months: 3, ExpensesPerMonth: 8})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Families)
	assert.Equal(t, 2*3*budgetedCategories, res.Budgets)
	assert.Equal(t, 2*3*8, res.Expenses)
	assert.GreaterOrEqual(t, res.Incomes, 2*3)

	var budgets []models.Budget
	require.NoError(t, db.Where("active = ?", true).Find(&budgets).Error)
	require.Len(t, budgets, res.Budgets)
	for _, b := range budgets {
		assert.True(t, b.Year == 2024 && b.Month >= 3 && b.Month <= 5, "budget %04d-%02d", b.Year, b.Month)

		w, err := engine.MonthWindow(b.Year, b.Month, time.UTC)
		require.NoError(t, err)
		spent, err := store.SumBucket(db, b.Bucket(), w.Start, w.End)
		require.NoError(t, err)
		assert.True(t, spent.Equal(b.Spent), "budget %d: cached %s, ledger %s", b.ID, b.Spent, spent)
	}

	var salaries int64
	require.NoError(t, db.Model(&models.Income{}).Where("source = ? AND recurring = ?", "salary", true).Count(&salaries).Error)
	assert.Equal(t, int64(2*3), salaries)
}
