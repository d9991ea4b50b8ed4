package api

import (
	"strings"

	"familyledger/engine"
	"familyledger/middleware"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BudgetHandler exposes budget CRUD and the reconciliation triggers.
type BudgetHandler struct {
	eng *engine.Engine
}

func NewBudgetHandler(eng *engine.Engine) *BudgetHandler {
	return &BudgetHandler{eng: eng}
}

type CreateBudgetRequest struct {
	CategoryID     uint            `json:"category_id" binding:"required" example:"1"`
	Year           int             `json:"year" binding:"required" example:"2024"`
	Month          int             `json:"month" binding:"required,min=1,max=12" example:"3"`
	Amount         decimal.Decimal `json:"amount" swaggertype:"string" example:"800.00"`
	AlertThreshold *int            `json:"alert_threshold" binding:"omitempty,min=0,max=100" example:"80"`
	AutoRenew      bool            `json:"auto_renew" example:"true"`
}

type UpdateBudgetAmountRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string" example:"900.00"`
	Reason string          `json:"reason" binding:"max=255" example:"school trip"`
}

type UpdateBudgetSettingsRequest struct {
	AlertThreshold *int  `json:"alert_threshold" binding:"omitempty,min=0,max=100" example:"90"`
	AutoRenew      *bool `json:"auto_renew" example:"false"`
}

// MonthRequest names a calendar month; zero fields mean the current one.
type MonthRequest struct {
	Year  int `json:"year" form:"year" example:"2024"`
	Month int `json:"month" form:"month" example:"3"`
}

func (r MonthRequest) resolve(eng *engine.Engine) (int, int) {
	now := eng.Now()
	year, month := r.Year, r.Month
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	return year, month
}

// bindMonth reads the month from a JSON body when there is one, else from the query.
func bindMonth(c *gin.Context) (MonthRequest, bool) {
	var req MonthRequest
	var err error
	if c.Request.ContentLength > 0 {
		err = c.ShouldBindJSON(&req)
	} else {
		err = c.ShouldBindQuery(&req)
	}
	if err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return req, false
	}
	return req, true
}

// Create creates a budget
// @Summary Create budget
// @Description Creates the budget of one category and month and reconciles it against existing expenses
// @Tags Budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBudgetRequest true "budget"
// @Success 200 {object} Response{data=models.Budget} "created"
// @Failure 400 {object} Response "invalid budget"
// @Failure 404 {object} Response "unknown category"
// @Failure 409 {object} Response "budget already exists"
// @Router /api/v1/budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	var req CreateBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	b, err := h.eng.CreateBudget(c.Request.Context(), middleware.GetCurrentFamilyID(c), engine.BudgetInput{
		CategoryID:     req.CategoryID,
		Year:           req.Year,
		Month:          req.Month,
		Amount:         req.Amount,
		AlertThreshold: req.AlertThreshold,
		AutoRenew:      req.AutoRenew,
		CreatedBy:      middleware.GetCurrentUserID(c),
	})
	if err != nil {
		EngineError(c, err, "failed to create budget")
		return
	}
	SuccessWithMessage(c, "created", b)
}

// List returns budgets of a year or month
// @Summary List budgets
// @Tags Budgets
// @Produce json
// @Security BearerAuth
// @Param year query int false "year (default current)"
// @Param month query int false "month; omit for the whole year"
// @Success 200 {object} Response{data=[]models.Budget} "ok"
// @Failure 400 {object} Response "invalid month"
// @Router /api/v1/budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	year, err := optionalInt(c, "year")
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	month, err := optionalInt(c, "month")
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	y := h.eng.Now().Year()
	if year != nil {
		y = *year
	}
	list, err := h.eng.ListBudgets(c.Request.Context(), middleware.GetCurrentFamilyID(c), y, month)
	if err != nil {
		EngineError(c, err, "query failed")
		return
	}
	Success(c, list)
}

// Get returns one budget
// @Summary Get budget
// @Tags Budgets
// @Produce json
// @Security BearerAuth
// @Param id path int true "budget id"
// @Success 200 {object} Response{data=models.Budget} "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/budgets/{id} [get]
func (h *BudgetHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	b, err := h.eng.GetBudget(c.Request.Context(), middleware.GetCurrentFamilyID(c), id)
	if err != nil {
		EngineError(c, err, "query failed")
		return
	}
	Success(c, b)
}

// UpdateAmount changes a budget's target
// @Summary Update budget amount
// @Description Sets a new amount, records it in the budget history and recomputes status
// @Tags Budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "budget id"
// @Param request body UpdateBudgetAmountRequest true "new amount"
// @Success 200 {object} Response{data=models.Budget} "updated"
// @Failure 400 {object} Response "invalid budget"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/budgets/{id} [put]
func (h *BudgetHandler) UpdateAmount(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateBudgetAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	b, err := h.eng.UpdateBudgetAmount(c.Request.Context(), middleware.GetCurrentFamilyID(c), id,
		req.Amount, middleware.GetCurrentUserID(c), strings.TrimSpace(req.Reason))
	if err != nil {
		EngineError(c, err, "failed to update budget")
		return
	}
	SuccessWithMessage(c, "updated", b)
}

// UpdateSettings changes threshold or auto-renew
// @Summary Update budget settings
// @Tags Budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "budget id"
// @Param request body UpdateBudgetSettingsRequest true "settings"
// @Success 200 {object} Response{data=models.Budget} "updated"
// @Failure 400 {object} Response "invalid budget"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/budgets/{id}/settings [patch]
func (h *BudgetHandler) UpdateSettings(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateBudgetSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	b, err := h.eng.UpdateBudgetSettings(c.Request.Context(), middleware.GetCurrentFamilyID(c), id, engine.BudgetSettings{
		AlertThreshold: req.AlertThreshold,
		AutoRenew:      req.AutoRenew,
	})
	if err != nil {
		EngineError(c, err, "failed to update budget")
		return
	}
	SuccessWithMessage(c, "updated", b)
}

// Delete deactivates a budget
// @Summary Delete budget
// @Tags Budgets
// @Produce json
// @Security BearerAuth
// @Param id path int true "budget id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/budgets/{id} [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.eng.DeactivateBudget(c.Request.Context(), middleware.GetCurrentFamilyID(c), id); err != nil {
		EngineError(c, err, "failed to delete budget")
		return
	}
	SuccessWithMessage(c, "deleted", nil)
}

// Reconcile recomputes one budget from its expenses
// @Summary Reconcile budget
// @Tags Budgets
// @Produce json
// @Security BearerAuth
// @Param id path int true "budget id"
// @Success 200 {object} Response{data=models.Budget} "ok"
// @Failure 404 {object} Response "not found"
// @Failure 500 {object} Response "reconciliation failed"
// @Router /api/v1/budgets/{id}/reconcile [post]
func (h *BudgetHandler) Reconcile(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	familyID := middleware.GetCurrentFamilyID(c)
	b, err := h.eng.GetBudget(ctx, familyID, id)
	if err != nil {
		EngineError(c, err, "query failed")
		return
	}
	fresh, err := h.eng.ReconcileBucket(ctx, familyID, b.CategoryID, b.Year, b.Month)
	if err != nil {
		EngineError(c, err, "reconciliation failed")
		return
	}
	if fresh == nil {
		NotFound(c, "budget not found")
		return
	}
	Success(c, fresh)
}

// Refresh re-reconciles a whole month
// @Summary Refresh budget statistics
// @Description Recomputes every active budget of the month and every category cache of the family
// @Tags Budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MonthRequest false "month (default current)"
// @Success 200 {object} Response{data=engine.RefreshResult} "ok"
// @Failure 400 {object} Response "invalid month"
// @Failure 500 {object} Response "reconciliation failed"
// @Router /api/v1/budgets/refresh [post]
func (h *BudgetHandler) Refresh(c *gin.Context) {
	req, ok := bindMonth(c)
	if !ok {
		return
	}
	year, month := req.resolve(h.eng)
	res, err := h.eng.RefreshStats(c.Request.Context(), middleware.GetCurrentFamilyID(c), year, month)
	if err != nil {
		EngineError(c, err, "reconciliation failed")
		return
	}
	Success(c, res)
}

// AutoRenew copies last month's auto-renew budgets
// @Summary Renew budgets from the previous month
// @Description Copies every auto-renew budget of the previous month into the given month, skipping existing ones
// @Tags Budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MonthRequest false "target month (default current)"
// @Success 200 {object} Response{data=[]models.Budget} "created budgets"
// @Failure 400 {object} Response "invalid month"
// @Router /api/v1/budgets/auto-renew [post]
func (h *BudgetHandler) AutoRenew(c *gin.Context) {
	req, ok := bindMonth(c)
	if !ok {
		return
	}
	year, month := req.resolve(h.eng)
	created, err := h.eng.CreateFromPreviousMonth(c.Request.Context(), middleware.GetCurrentFamilyID(c), year, month)
	if err != nil {
		EngineError(c, err, "auto-renew failed")
		return
	}
	SuccessWithMessage(c, "renewed", created)
}
