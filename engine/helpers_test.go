package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"familyledger/database"
	"familyledger/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2024, time.May, 15, 12, 0, 0, 0, time.UTC)

type fixture struct {
	t      *testing.T
	ctx    context.Context
	db     *gorm.DB
	e      *Engine
	family uint
	user   uint
}

func newFixture(t *testing.T, opts ...func(*Options)) *fixture {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	o := Options{Location: time.UTC, Now: func() time.Time { return testNow }}
	for _, fn := range opts {
		fn(&o)
	}

	fam := models.Family{Name: "Rossi", Currency: "EUR"}
	require.NoError(t, db.Create(&fam).Error)

	return &fixture{t: t, ctx: context.Background(), db: db, e: New(db, o), family: fam.ID, user: 7}
}

func (f *fixture) category(name string) uint {
	f.t.Helper()
	fam := f.family
	c := models.Category{FamilyID: &fam, Name: name, Active: true}
	require.NoError(f.t, f.db.Create(&c).Error)
	return c.ID
}

// expense records an expense through the mutation hook, the way the API does.
func (f *fixture) expense(categoryID uint, amount string, date time.Time) *models.Expense {
	f.t.Helper()
	x := f.rawExpense(categoryID, amount, date)
	f.e.OnTransactionMutated(f.ctx, nil, SnapshotOfExpense(x))
	return x
}

// rawExpense inserts an expense without reconciling anything.
func (f *fixture) rawExpense(categoryID uint, amount string, date time.Time) *models.Expense {
	f.t.Helper()
	x := &models.Expense{
		FamilyID:   f.family,
		UserID:     f.user,
		CategoryID: categoryID,
		Amount:     dec(amount),
		Date:       date,
		Active:     true,
	}
	require.NoError(f.t, f.db.Create(x).Error)
	return x
}

func (f *fixture) income(source, amount string, date time.Time) *models.Income {
	f.t.Helper()
	x := &models.Income{
		FamilyID: f.family,
		UserID:   f.user,
		Source:   source,
		Amount:   dec(amount),
		Date:     date,
		Active:   true,
	}
	require.NoError(f.t, f.db.Create(x).Error)
	return x
}

func (f *fixture) budget(categoryID uint, year, month int, amount string) *models.Budget {
	f.t.Helper()
	b, err := f.e.CreateBudget(f.ctx, f.family, BudgetInput{
		CategoryID: categoryID,
		Year:       year,
		Month:      month,
		Amount:     dec(amount),
		CreatedBy:  f.user,
	})
	require.NoError(f.t, err)
	return b
}

// reload reads a budget row straight from the table.
func (f *fixture) reload(id uint) models.Budget {
	f.t.Helper()
	var b models.Budget
	require.NoError(f.t, f.db.First(&b, id).Error)
	return b
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.Truef(t, dec(want).Equal(got), "want %s, got %s", want, got.String())
}

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []models.BudgetAlert
	err    error
}

func (n *recordingNotifier) NotifyBudgetAlert(_ context.Context, a models.BudgetAlert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, a)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.alerts)
}
