package api

import (
	"errors"
	"strings"

	"familyledger/database"
	"familyledger/engine"
	"familyledger/middleware"
	"familyledger/models"
	"familyledger/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExpenseHandler serves the expense ledger. Every committed write is handed
// to the engine so the touched budgets and category caches follow.
type ExpenseHandler struct {
	eng *engine.Engine
}

// NewExpenseHandler creates an ExpenseHandler.
func NewExpenseHandler(eng *engine.Engine) *ExpenseHandler {
	return &ExpenseHandler{eng: eng}
}

// CreateExpenseRequest creates an expense.
type CreateExpenseRequest struct {
	CategoryID  uint            `json:"category_id" binding:"required" example:"1"`
	Amount      decimal.Decimal `json:"amount" swaggertype:"string" example:"42.50"`
	Description string          `json:"description" binding:"max=255" example:"groceries"`
	Date        string          `json:"date" binding:"required" example:"2024-03-15 12:30:00"`
}

// UpdateExpenseRequest changes an expense. Absent fields are kept.
type UpdateExpenseRequest struct {
	CategoryID  *uint            `json:"category_id" example:"1"`
	Amount      *decimal.Decimal `json:"amount" swaggertype:"string" example:"42.50"`
	Description *string          `json:"description" example:"groceries"`
	Date        *string          `json:"date" example:"2024-03-15"`
}

// ExpenseListRequest filters the expense list.
type ExpenseListRequest struct {
	PageQuery
	CategoryID *uint  `form:"category_id" example:"1"`
	UserID     *uint  `form:"user_id" example:"7"`
	StartDate  string `form:"start_date" example:"2024-01-01"`
	EndDate    string `form:"end_date" example:"2024-12-31"`
	MinAmount  string `form:"min_amount" example:"10"`
	MaxAmount  string `form:"max_amount" example:"500"`
}

// query turns the filters into a store query; dates are inclusive days.
func (r ExpenseListRequest) query(familyID uint, eng *engine.Engine) (store.Query, error) {
	q := store.Query{FamilyID: familyID, UserID: r.UserID, CategoryID: r.CategoryID}
	loc := eng.Location()
	if r.StartDate != "" {
		t, err := parseDate(r.StartDate, loc)
		if err != nil {
			return q, err
		}
		q.Start = t
	}
	if r.EndDate != "" {
		t, err := parseDate(r.EndDate, loc)
		if err != nil {
			return q, err
		}
		w, err := engine.RangeWindow(t, t, loc)
		if err != nil {
			return q, err
		}
		q.End = w.End
	}
	if r.MinAmount != "" {
		d, err := decimal.NewFromString(r.MinAmount)
		if err != nil {
			return q, errors.New("min_amount must be a number")
		}
		q.MinAmount = &d
	}
	if r.MaxAmount != "" {
		d, err := decimal.NewFromString(r.MaxAmount)
		if err != nil {
			return q, errors.New("max_amount must be a number")
		}
		q.MaxAmount = &d
	}
	return q, nil
}

// Create records an expense
// @Summary Create expense
// @Description Records an expense in the caller's family and reconciles the budget of its month
// @Tags Expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateExpenseRequest true "expense"
// @Success 200 {object} Response{data=models.Expense} "created"
// @Failure 400 {object} Response "invalid request"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/expenses [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	familyID := middleware.GetCurrentFamilyID(c)
	ctx := c.Request.Context()

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	if !req.Amount.IsPositive() {
		BadRequest(c, "amount must be greater than 0")
		return
	}
	date, err := parseDateTime(req.Date, h.eng.Location())
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	db := database.DB.WithContext(ctx)
	if _, err := store.FindVisibleCategory(db, familyID, req.CategoryID); err != nil {
		BadRequest(c, "unknown category")
		return
	}

	expense := models.Expense{
		FamilyID:    familyID,
		UserID:      middleware.GetCurrentUserID(c),
		CategoryID:  req.CategoryID,
		Amount:      req.Amount.Round(2),
		Description: strings.TrimSpace(req.Description),
		Date:        date,
		Active:      true,
	}
	if err := db.Create(&expense).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create expense"))
		return
	}
	h.eng.OnTransactionMutated(ctx, nil, engine.SnapshotOfExpense(&expense))

	SuccessWithMessage(c, "created", expense)
}

// List returns the family's expenses
// @Summary List expenses
// @Description Lists active expenses of the caller's family, newest first
// @Tags Expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(10)
// @Param category_id query int false "category"
// @Param user_id query int false "member"
// @Param start_date query string false "first day (2024-01-01)"
// @Param end_date query string false "last day (2024-12-31)"
// @Param min_amount query string false "minimum amount"
// @Param max_amount query string false "maximum amount"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Expense}} "ok"
// @Failure 400 {object} Response "invalid request"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/expenses [get]
func (h *ExpenseHandler) List(c *gin.Context) {
	familyID := middleware.GetCurrentFamilyID(c)

	var req ExpenseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	req.normalize()
	q, err := req.query(familyID, h.eng)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}

	db := database.DB.WithContext(c.Request.Context())
	total, err := store.CountExpenses(db, q)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	expenses, err := store.ListExpenses(db, q, req.offset(), req.PageSize)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     expenses,
	})
}

// Get returns one expense
// @Summary Get expense
// @Tags Expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "expense id"
// @Success 200 {object} Response{data=models.Expense} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/expenses/{id} [get]
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	expense, err := store.FindExpense(database.DB.WithContext(c.Request.Context()), middleware.GetCurrentFamilyID(c), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "expense not found")
			return
		}
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	Success(c, expense)
}

// Update changes an expense
// @Summary Update expense
// @Description Changing the category or date moves the expense between budget buckets; both are reconciled
// @Tags Expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "expense id"
// @Param request body UpdateExpenseRequest true "changes"
// @Success 200 {object} Response{data=models.Expense} "updated"
// @Failure 400 {object} Response "invalid request"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/expenses/{id} [put]
func (h *ExpenseHandler) Update(c *gin.Context) {
	familyID := middleware.GetCurrentFamilyID(c)
	ctx := c.Request.Context()
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	db := database.DB.WithContext(ctx)
	expense, err := store.FindExpense(db, familyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "expense not found")
			return
		}
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	before := engine.SnapshotOfExpense(expense)

	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			BadRequest(c, "amount must be greater than 0")
			return
		}
		expense.Amount = req.Amount.Round(2)
	}
	if req.CategoryID != nil && *req.CategoryID != expense.CategoryID {
		if _, err := store.FindVisibleCategory(db, familyID, *req.CategoryID); err != nil {
			BadRequest(c, "unknown category")
			return
		}
		expense.CategoryID = *req.CategoryID
		expense.Category = nil
	}
	if req.Description != nil {
		expense.Description = strings.TrimSpace(*req.Description)
	}
	if req.Date != nil {
		date, err := parseDateTime(*req.Date, h.eng.Location())
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
		expense.Date = date
	}

	if err := db.Omit("Category").Save(expense).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to update expense"))
		return
	}
	h.eng.OnTransactionMutated(ctx, before, engine.SnapshotOfExpense(expense))

	SuccessWithMessage(c, "updated", expense)
}

// Delete soft-deletes an expense
// @Summary Delete expense
// @Tags Expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "expense id"
// @Success 200 {object} Response "deleted"
// @Failure 401 {object} Response "unauthorized"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	familyID := middleware.GetCurrentFamilyID(c)
	ctx := c.Request.Context()
	id, ok := parseID(c)
	if !ok {
		return
	}

	db := database.DB.WithContext(ctx)
	expense, err := store.FindExpense(db, familyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "expense not found")
			return
		}
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	if err := db.Model(&models.Expense{}).Where("id = ?", expense.ID).Update("active", false).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to delete expense"))
		return
	}
	before := engine.SnapshotOfExpense(expense)
	after := *before
	after.Active = false
	h.eng.OnTransactionMutated(ctx, before, &after)

	SuccessWithMessage(c, "deleted", nil)
}
