package api

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportRouter(t *testing.T) http.Handler {
	t.Helper()
	db := setupTestDB(t)
	eng := testEngine(db)
	fam := createFamily(t, db, "Rossi")
	food := createCategory(t, db, fam, "Groceries")

	r := newRouter(fam)
	r.POST("/expenses", NewExpenseHandler(eng).Create)
	r.POST("/budgets", NewBudgetHandler(eng).Create)
	h := NewExportHandler(eng)
	r.GET("/export/csv", h.ExportCSV)
	r.GET("/export/excel", h.ExportExcel)

	for _, body := range []map[string]interface{}{
		{"category_id": food, "amount": "12.5", "date": "2024-03-02", "description": "bread, milk"},
		{"category_id": food, "amount": "7.5", "date": "2024-03-09"},
		{"category_id": food, "amount": "99", "date": "2024-04-01"},
	} {
		w := perform(r, "POST", "/expenses", body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}
	w := perform(r, "POST", "/budgets", map[string]interface{}{"category_id": food, "year": 2024, "month": 3, "amount": "50"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return r
}

func TestExportHandler_ExportCSV(t *testing.T) {
	r := exportRouter(t)

	w := perform(r, "GET", "/export/csv?year=2024&month=3", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "expenses_2024-03-01_2024-03-31.csv")
	body := strings.TrimPrefix(w.Body.String(), "\xEF\xBB\xBF")
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID,Date,Category,Amount"))
	assert.Contains(t, lines[1], "Groceries,7.50")
	assert.Contains(t, lines[2], `"bread, milk"`)
}

func TestExportHandler_InvalidWindow(t *testing.T) {
	r := exportRouter(t)

	w := perform(r, "GET", "/export/csv?start_date=2024-04-01&end_date=2024-03-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportHandler_ExportExcel(t *testing.T) {
	r := exportRouter(t)

	w := perform(r, "GET", "/export/excel?year=2024&month=3", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{sheetExpenses, sheetCategories, sheetBudgets}, f.GetSheetList())

	rows, err := f.GetRows(sheetExpenses)
	require.NoError(t, err)
	require.Len(t, rows, 4) // header, two expenses, total
	assert.Equal(t, "Total", rows[3][0])
	assert.Equal(t, "20", rows[3][3])

	rows, err = f.GetRows(sheetCategories)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Groceries", rows[1][0])

	rows, err = f.GetRows(sheetBudgets)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2024-03", "Groceries", "50", "20", "30", "40", "safe"}, rows[1])
}
