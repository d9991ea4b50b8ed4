package api

import (
	"fmt"
	"net/http"
	"testing"

	"familyledger/engine"
	"familyledger/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func budgetRouter(t *testing.T) (*gin.Engine, *gorm.DB, uint, uint) {
	t.Helper()
	db := setupTestDB(t)
	eng := testEngine(db)
	fam := createFamily(t, db, "Rossi")
	cat := createCategory(t, db, fam, "Groceries")

	r := newRouter(fam)
	h := NewBudgetHandler(eng)
	r.POST("/budgets", h.Create)
	r.GET("/budgets", h.List)
	r.POST("/budgets/refresh", h.Refresh)
	r.POST("/budgets/auto-renew", h.AutoRenew)
	r.GET("/budgets/:id", h.Get)
	r.PUT("/budgets/:id", h.UpdateAmount)
	r.PATCH("/budgets/:id/settings", h.UpdateSettings)
	r.DELETE("/budgets/:id", h.Delete)
	r.POST("/budgets/:id/reconcile", h.Reconcile)
	r.POST("/expenses", NewExpenseHandler(eng).Create)
	return r, db, fam, cat
}

func createBudget(t *testing.T, r http.Handler, body map[string]interface{}) models.Budget {
	t.Helper()
	w := perform(r, "POST", "/budgets", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var b models.Budget
	decode(t, w, &b)
	return b
}

func TestBudgetHandler_CreateErrors(t *testing.T) {
	r, _, _, cat := budgetRouter(t)

	createBudget(t, r, map[string]interface{}{"category_id": cat, "year": 2024, "month": 3, "amount": "100"})

	tests := []struct {
		name string
		body map[string]interface{}
		code int
	}{
		{"duplicate key", map[string]interface{}{"category_id": cat, "year": 2024, "month": 3, "amount": "50"}, http.StatusConflict},
		{"negative amount", map[string]interface{}{"category_id": cat, "year": 2024, "month": 4, "amount": "-1"}, http.StatusBadRequest},
		{"month out of range", map[string]interface{}{"category_id": cat, "year": 2024, "month": 13, "amount": "1"}, http.StatusBadRequest},
		{"threshold out of range", map[string]interface{}{"category_id": cat, "year": 2024, "month": 4, "amount": "1", "alert_threshold": 120}, http.StatusBadRequest},
		{"unknown category", map[string]interface{}{"category_id": 9999, "year": 2024, "month": 4, "amount": "1"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(r, "POST", "/budgets", tt.body)
			assert.Equal(t, tt.code, w.Code, w.Body.String())
		})
	}
}

func TestBudgetHandler_CreateReconcilesExistingSpend(t *testing.T) {
	r, _, _, cat := budgetRouter(t)

	for _, amount := range []string{"40", "45"} {
		w := perform(r, "POST", "/expenses", map[string]interface{}{"category_id": cat, "amount": amount, "date": "2024-03-03"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	b := createBudget(t, r, map[string]interface{}{"category_id": cat, "year": 2024, "month": 3, "amount": "100"})
	assertDecimal(t, "85", b.Spent)
	assertDecimal(t, "15", b.Remaining)
	assert.InDelta(t, 85.0, b.PercentageUsed, 0.001)
	assert.Equal(t, models.BudgetStatusWarning, b.Status)
	assert.Equal(t, models.DefaultAlertThreshold, b.AlertThreshold)
}

func TestBudgetHandler_UpdateAmountAndSettings(t *testing.T) {
	r, db, _, cat := budgetRouter(t)
	w := perform(r, "POST", "/expenses", map[string]interface{}{"category_id": cat, "amount": "60", "date": "2024-03-03"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	b := createBudget(t, r, map[string]interface{}{"category_id": cat, "year": 2024, "month": 3, "amount": "100"})
	assert.Equal(t, models.BudgetStatusNormal, b.Status)

	w = perform(r, "PUT", fmt.Sprintf("/budgets/%d", b.ID), map[string]interface{}{"amount": "50", "reason": "tighter month"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated models.Budget
	decode(t, w, &updated)
	assert.Equal(t, models.BudgetStatusExceeded, updated.Status)
	assertDecimal(t, "-10", updated.Remaining)

	stored := loadBudget(t, db, b.ID)
	require.Len(t, stored.History, 1)
	assertDecimal(t, "100", stored.History[0].PreviousAmount)
	assertDecimal(t, "50", stored.History[0].Amount)
	assert.Equal(t, "tighter month", stored.History[0].Reason)
	assert.Equal(t, uint(7), stored.History[0].ChangedBy)

	w = perform(r, "PATCH", fmt.Sprintf("/budgets/%d/settings", b.ID), map[string]interface{}{"auto_renew": true, "alert_threshold": 95})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stored = loadBudget(t, db, b.ID)
	assert.True(t, stored.AutoRenew)
	assert.Equal(t, 95, stored.AlertThreshold)

	w = perform(r, "PUT", "/budgets/9999", map[string]interface{}{"amount": "1"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBudgetHandler_ZeroThreshold(t *testing.T) {
	r, db, _, cat := budgetRouter(t)
	w := perform(r, "POST", "/expenses", map[string]interface{}{"category_id": cat, "amount": "2", "date": "2024-03-03"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	b := createBudget(t, r, map[string]interface{}{"category_id": cat, "year": 2024, "month": 3, "amount": "100", "alert_threshold": 0})
	assert.Equal(t, 0, b.AlertThreshold)
	assert.Equal(t, models.BudgetStatusWarning, b.Status)
	assert.Equal(t, 0, loadBudget(t, db, b.ID).AlertThreshold)

	april := createBudget(t, r, map[string]interface{}{"category_id": cat, "year": 2024, "month": 4, "amount": "100"})
	assert.Equal(t, models.DefaultAlertThreshold, april.AlertThreshold)

	w = perform(r, "PATCH", fmt.Sprintf("/budgets/%d/settings", april.ID), map[string]interface{}{"alert_threshold": 0})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 0, loadBudget(t, db, april.ID).AlertThreshold)
}

func TestBudgetHandler_ListGetDelete(t *testing.T) {
	r, _, fam, cat := budgetRouter(t)
	march := createBudget(t, r, map[string]interface{}{"category_id": cat, "year": 2024, "month": 3, "amount": "100"})
	createBudget(t, r, map[string]interface{}{"category_id": cat, "year": 2024, "month": 4, "amount": "100"})

	var list []models.Budget
	decode(t, perform(r, "GET", "/budgets?year=2024", nil), &list)
	assert.Len(t, list, 2)
	decode(t, perform(r, "GET", "/budgets?year=2024&month=3", nil), &list)
	require.Len(t, list, 1)
	assert.Equal(t, march.ID, list[0].ID)
	assert.Equal(t, fam, list[0].FamilyID)

	assert.Equal(t, http.StatusBadRequest, perform(r, "GET", "/budgets?year=2024&month=0", nil).Code)

	require.Equal(t, http.StatusOK, perform(r, "DELETE", fmt.Sprintf("/budgets/%d", march.ID), nil).Code)
	assert.Equal(t, http.StatusNotFound, perform(r, "GET", fmt.Sprintf("/budgets/%d", march.ID), nil).Code)

	// a deactivated key can be created again
	revived := createBudget(t, r, map[string]interface{}{"category_id": cat, "year": 2024, "month": 3, "amount": "70"})
	assert.Equal(t, march.ID, revived.ID)
	assert.True(t, revived.Active)
}

func TestBudgetHandler_ReconcileAndRefresh(t *testing.T) {
	r, db, fam, cat := budgetRouter(t)
	b := createBudget(t, r, map[string]interface{}{"category_id": cat, "year": 2024, "month": 3, "amount": "100"})

	// a write that bypassed the hook leaves the cache stale
	require.NoError(t, db.Create(&models.Expense{
		FamilyID: fam, UserID: 7, CategoryID: cat, Amount: decimalOf("55"),
		Date: testNow.AddDate(0, -2, 0), Active: true,
	}).Error)
	assertDecimal(t, "0", loadBudget(t, db, b.ID).Spent)

	w := perform(r, "POST", fmt.Sprintf("/budgets/%d/reconcile", b.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assertDecimal(t, "55", loadBudget(t, db, b.ID).Spent)

	require.NoError(t, db.Create(&models.Expense{
		FamilyID: fam, UserID: 7, CategoryID: cat, Amount: decimalOf("45"),
		Date: testNow.AddDate(0, -2, 1), Active: true,
	}).Error)
	w = perform(r, "POST", "/budgets/refresh", map[string]interface{}{"year": 2024, "month": 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res engine.RefreshResult
	decode(t, w, &res)
	assert.Equal(t, 1, res.Budgets)
	assert.Equal(t, 1, res.Categories)

	stored := loadBudget(t, db, b.ID)
	assertDecimal(t, "100", stored.Spent)
	assert.Equal(t, models.BudgetStatusExceeded, stored.Status)

	// no body means the current month
	w = perform(r, "POST", "/budgets/refresh", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &res)
	assert.Equal(t, 0, res.Budgets)
}

func TestBudgetHandler_AutoRenew(t *testing.T) {
	r, _, _, cat := budgetRouter(t)
	createBudget(t, r, map[string]interface{}{"category_id": cat, "year": 2024, "month": 4, "amount": "300", "auto_renew": true})

	var created []models.Budget
	w := perform(r, "POST", "/budgets/auto-renew", map[string]interface{}{"year": 2024, "month": 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &created)
	require.Len(t, created, 1)
	assert.Equal(t, 5, created[0].Month)
	assertDecimal(t, "300", created[0].Amount)
	assert.True(t, created[0].AutoRenew)

	w = perform(r, "POST", "/budgets/auto-renew", map[string]interface{}{"year": 2024, "month": 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &created)
	assert.Empty(t, created)
}
