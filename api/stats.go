package api

import (
	"familyledger/engine"
	"familyledger/middleware"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// StatsHandler serves the read-only summaries.
type StatsHandler struct {
	eng *engine.Engine
}

func NewStatsHandler(eng *engine.Engine) *StatsHandler {
	return &StatsHandler{eng: eng}
}

// SummaryResponse is the income/expense summary of one window.
type SummaryResponse struct {
	Window   engine.Window           `json:"window"`
	Expenses *engine.AggregateResult `json:"expenses"`
	Incomes  *engine.AggregateResult `json:"incomes"`
	Balance  decimal.Decimal         `json:"balance"`
}

func filtersFrom(c *gin.Context) (engine.Filters, bool) {
	userID, err := optionalUint(c, "user_id")
	if err != nil {
		BadRequest(c, err.Error())
		return engine.Filters{}, false
	}
	categoryID, err := optionalUint(c, "category_id")
	if err != nil {
		BadRequest(c, err.Error())
		return engine.Filters{}, false
	}
	return engine.Filters{UserID: userID, CategoryID: categoryID}, true
}

// Summary aggregates a month or a date range
// @Summary Income and expense summary
// @Description Expense totals by category and income totals by source for a month or an inclusive date range
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Param year query int false "year (default current)"
// @Param month query int false "month (default current)"
// @Param start_date query string false "first day (2024-01-01)"
// @Param end_date query string false "last day (2024-03-31)"
// @Param user_id query int false "member"
// @Param category_id query int false "category"
// @Success 200 {object} Response{data=SummaryResponse} "ok"
// @Failure 400 {object} Response "invalid window"
// @Router /api/v1/stats/summary [get]
func (h *StatsHandler) Summary(c *gin.Context) {
	var wq WindowQuery
	if err := c.ShouldBindQuery(&wq); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	w, err := wq.window(h.eng)
	if err != nil {
		EngineError(c, err, "invalid window")
		return
	}
	f, ok := filtersFrom(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	familyID := middleware.GetCurrentFamilyID(c)
	expenses, err := h.eng.Aggregate(ctx, engine.KindExpense, familyID, w, f)
	if err != nil {
		EngineError(c, err, "failed to aggregate expenses")
		return
	}
	incomes, err := h.eng.Aggregate(ctx, engine.KindIncome, familyID, w, f)
	if err != nil {
		EngineError(c, err, "failed to aggregate incomes")
		return
	}

	Success(c, SummaryResponse{
		Window:   w,
		Expenses: expenses,
		Incomes:  incomes,
		Balance:  incomes.Total.Sub(expenses.Total),
	})
}

// Trend returns monthly totals
// @Summary Monthly trend
// @Description Either the trailing N months ending this month, or every month touched by start_date..end_date
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Param months query int false "trailing months (default 6)"
// @Param start_date query string false "first day (2024-01-15)"
// @Param end_date query string false "last day (2024-03-10)"
// @Param user_id query int false "member"
// @Param category_id query int false "category"
// @Success 200 {object} Response{data=[]engine.TrendPoint} "ok"
// @Failure 400 {object} Response "invalid window"
// @Router /api/v1/stats/trend [get]
func (h *StatsHandler) Trend(c *gin.Context) {
	f, ok := filtersFrom(c)
	if !ok {
		return
	}
	months, err := optionalInt(c, "months")
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	spec := engine.TrendSpec{}
	if months != nil {
		spec.MonthCount = *months
	}
	if start, end := c.Query("start_date"), c.Query("end_date"); start != "" || end != "" {
		w, err := WindowQuery{StartDate: start, EndDate: end}.window(h.eng)
		if err != nil {
			EngineError(c, err, "invalid window")
			return
		}
		spec.Range = &w
	}

	series, err := h.eng.MonthlyTrend(c.Request.Context(), middleware.GetCurrentFamilyID(c), f, spec)
	if err != nil {
		EngineError(c, err, "failed to compute trend")
		return
	}
	Success(c, series)
}

// Yearly reports twelve months of one year
// @Summary Yearly report
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Param year query int false "year (default current)"
// @Param user_id query int false "member"
// @Param category_id query int false "category"
// @Success 200 {object} Response{data=engine.YearReport} "ok"
// @Failure 400 {object} Response "invalid year"
// @Router /api/v1/stats/yearly [get]
func (h *StatsHandler) Yearly(c *gin.Context) {
	f, ok := filtersFrom(c)
	if !ok {
		return
	}
	year, err := optionalInt(c, "year")
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	y := h.eng.Now().Year()
	if year != nil {
		y = *year
	}
	report, err := h.eng.YearSummary(c.Request.Context(), middleware.GetCurrentFamilyID(c), y, f)
	if err != nil {
		EngineError(c, err, "failed to compute yearly report")
		return
	}
	Success(c, report)
}

// Dashboard composes the family dashboard
// @Summary Dashboard
// @Description Headline totals, breakdowns, trend, recent transactions and budget overlay. Without dates it covers the current month.
// @Tags Statistics
// @Produce json
// @Security BearerAuth
// @Param user_id query int false "member"
// @Param start_date query string false "first day (2024-01-01)"
// @Param end_date query string false "last day (2024-03-31)"
// @Success 200 {object} Response{data=engine.Dashboard} "ok"
// @Failure 400 {object} Response "invalid window"
// @Router /api/v1/dashboard [get]
func (h *StatsHandler) Dashboard(c *gin.Context) {
	userID, err := optionalUint(c, "user_id")
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	f := engine.DashboardFilters{UserID: userID}

	loc := h.eng.Location()
	if s := c.Query("start_date"); s != "" {
		t, err := parseDate(s, loc)
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
		f.StartDate = &t
	}
	if s := c.Query("end_date"); s != "" {
		t, err := parseDate(s, loc)
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
		f.EndDate = &t
	}

	d, err := h.eng.ComposeDashboard(c.Request.Context(), middleware.GetCurrentFamilyID(c), f)
	if err != nil {
		EngineError(c, err, "failed to compose dashboard")
		return
	}
	Success(c, d)
}
