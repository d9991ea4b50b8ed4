package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"

	"familyledger/database"
	"familyledger/engine"
	"familyledger/middleware"
	"familyledger/models"
	"familyledger/store"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler downloads the family's ledger.
type ExportHandler struct {
	eng *engine.Engine
}

func NewExportHandler(eng *engine.Engine) *ExportHandler {
	return &ExportHandler{eng: eng}
}

// exportWindow resolves the window and loads its expenses.
func (h *ExportHandler) exportWindow(c *gin.Context) (engine.Window, []models.Expense, bool) {
	var wq WindowQuery
	if err := c.ShouldBindQuery(&wq); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return engine.Window{}, nil, false
	}
	w, err := wq.window(h.eng)
	if err != nil {
		EngineError(c, err, "invalid window")
		return engine.Window{}, nil, false
	}
	q := store.Query{FamilyID: middleware.GetCurrentFamilyID(c), Start: w.Start, End: w.End}
	expenses, err := store.ListExpenses(database.DB.WithContext(c.Request.Context()), q, 0, 0)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return engine.Window{}, nil, false
	}
	return w, expenses, true
}

func exportName(w engine.Window, ext string) string {
	return fmt.Sprintf("expenses_%s_%s.%s", w.Start.Format(dateLayout), w.End.Format(dateLayout), ext)
}

// ExportCSV downloads expenses as CSV
// @Summary Export expenses as CSV
// @Tags Export
// @Produce text/csv
// @Security BearerAuth
// @Param year query int false "year (default current)"
// @Param month query int false "month (default current)"
// @Param start_date query string false "first day (2024-01-01)"
// @Param end_date query string false "last day (2024-12-31)"
// @Success 200 {file} file "CSV file"
// @Failure 400 {object} Response "invalid window"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	w, expenses, ok := h.exportWindow(c)
	if !ok {
		return
	}

	buf := new(bytes.Buffer)
	// BOM so spreadsheet apps detect UTF-8
	buf.WriteString("\xEF\xBB\xBF")
	writer := csv.NewWriter(buf)

	rows := [][]string{{"ID", "Date", "Category", "Amount", "Description", "User", "Created"}}
	for _, e := range expenses {
		rows = append(rows, []string{
			fmt.Sprintf("%d", e.ID),
			e.Date.In(h.eng.Location()).Format(dateTimeLayout),
			e.CategoryName(),
			e.Amount.StringFixed(2),
			e.Description,
			fmt.Sprintf("%d", e.UserID),
			e.CreatedAt.Format(dateTimeLayout),
		})
	}
	if err := writer.WriteAll(rows); err != nil {
		InternalError(c, "failed to write CSV")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exportName(w, "csv")))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportExcel downloads a workbook with expenses, the category breakdown and budgets
// @Summary Export workbook
// @Description Three sheets: the window's expenses, spend by category, and the budgets of every month in the window
// @Tags Export
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param year query int false "year (default current)"
// @Param month query int false "month (default current)"
// @Param start_date query string false "first day (2024-01-01)"
// @Param end_date query string false "last day (2024-12-31)"
// @Success 200 {file} file "xlsx file"
// @Failure 400 {object} Response "invalid window"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/export/excel [get]
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	w, expenses, ok := h.exportWindow(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	familyID := middleware.GetCurrentFamilyID(c)

	byCategory, err := h.eng.Aggregate(ctx, engine.KindExpense, familyID, w, engine.Filters{})
	if err != nil {
		EngineError(c, err, "failed to aggregate expenses")
		return
	}
	var budgets []models.Budget
	for _, ym := range w.Months(h.eng.Location()) {
		m := int(ym.Month)
		list, err := h.eng.ListBudgets(ctx, familyID, ym.Year, &m)
		if err != nil {
			EngineError(c, err, "query failed")
			return
		}
		budgets = append(budgets, list...)
	}

	f, err := h.workbook(expenses, byCategory, budgets)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to build workbook"))
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to build workbook"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", exportName(w, "xlsx")))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

const (
	sheetExpenses   = "Expenses"
	sheetCategories = "By Category"
	sheetBudgets    = "Budgets"
)

func (h *ExportHandler) workbook(expenses []models.Expense, byCategory *engine.AggregateResult, budgets []models.Budget) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheetExpenses); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{sheetCategories, sheetBudgets} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		f.Close()
		return nil, err
	}
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, err
	}

	var rows [][]interface{}
	for _, e := range expenses {
		rows = append(rows, []interface{}{
			e.ID,
			e.Date.In(h.eng.Location()).Format(dateTimeLayout),
			e.CategoryName(),
			e.Amount.InexactFloat64(),
			e.Description,
			e.UserID,
		})
	}
	rows = append(rows, []interface{}{"Total", "", fmt.Sprintf("%d records", len(expenses)), byCategory.Total.InexactFloat64()})
	if err := writeSheet(f, sheetExpenses, []string{"ID", "Date", "Category", "Amount", "Description", "User"}, rows, headerStyle, totalStyle); err != nil {
		f.Close()
		return nil, err
	}

	rows = rows[:0]
	for _, g := range byCategory.Groups {
		rows = append(rows, []interface{}{g.Key, g.Total.InexactFloat64(), g.Count, g.Percentage})
	}
	rows = append(rows, []interface{}{"Total", byCategory.Total.InexactFloat64(), byCategory.Count, 100})
	if err := writeSheet(f, sheetCategories, []string{"Category", "Total", "Count", "Share %"}, rows, headerStyle, totalStyle); err != nil {
		f.Close()
		return nil, err
	}

	rows = rows[:0]
	for _, b := range budgets {
		name := ""
		if b.Category != nil {
			name = b.Category.Name
		}
		rows = append(rows, []interface{}{
			fmt.Sprintf("%04d-%02d", b.Year, b.Month),
			name,
			b.Amount.InexactFloat64(),
			b.Spent.InexactFloat64(),
			b.Remaining.InexactFloat64(),
			b.PercentageUsed,
			string(b.Status),
		})
	}
	if err := writeSheet(f, sheetBudgets, []string{"Month", "Category", "Amount", "Spent", "Remaining", "Used %", "Status"}, rows, headerStyle, -1); err != nil {
		f.Close()
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// writeSheet writes a header row and data rows. When totalStyle is not
// negative the last row is styled as a total.
func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}, headerStyle, totalStyle int) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	if totalStyle >= 0 && len(rows) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, len(rows)+1)
		end, _ := excelize.CoordinatesToCellName(len(headers), len(rows)+1)
		if err := f.SetCellStyle(sheet, first, end, totalStyle); err != nil {
			return err
		}
	}
	colEnd, _ := excelize.ColumnNumberToName(len(headers))
	return f.SetColWidth(sheet, "A", colEnd, 16)
}
