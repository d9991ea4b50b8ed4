package api

import (
	"errors"
	"strings"
	"time"

	"familyledger/database"
	"familyledger/engine"
	"familyledger/middleware"
	"familyledger/models"
	"familyledger/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IncomeHandler serves the income ledger. Incomes feed the summaries only;
// they never touch budgets.
type IncomeHandler struct {
	eng *engine.Engine
}

func NewIncomeHandler(eng *engine.Engine) *IncomeHandler {
	return &IncomeHandler{eng: eng}
}

type CreateIncomeRequest struct {
	Source      string           `json:"source" binding:"required,max=50" example:"salary"`
	CategoryID  *uint            `json:"category_id" example:"1"`
	Amount      decimal.Decimal  `json:"amount" swaggertype:"string" example:"5000.00"`
	Description string           `json:"description" binding:"max=255" example:"March salary"`
	Date        string           `json:"date" binding:"required" example:"2024-03-01"`
	Recurring   bool             `json:"recurring" example:"true"`
	Frequency   models.Frequency `json:"frequency" swaggertype:"string" enums:"weekly,monthly,yearly" example:"monthly"`
}

type UpdateIncomeRequest struct {
	Source      *string           `json:"source" example:"salary"`
	CategoryID  *uint             `json:"category_id" example:"1"`
	Amount      *decimal.Decimal  `json:"amount" swaggertype:"string" example:"5000.00"`
	Description *string           `json:"description"`
	Date        *string           `json:"date" example:"2024-03-01"`
	Recurring   *bool             `json:"recurring"`
	Frequency   *models.Frequency `json:"frequency" swaggertype:"string" enums:"weekly,monthly,yearly"`
}

type IncomeListRequest struct {
	PageQuery
	UserID    *uint  `form:"user_id" example:"7"`
	Source    string `form:"source" example:"salary"`
	StartDate string `form:"start_date" example:"2024-01-01"`
	EndDate   string `form:"end_date" example:"2024-12-31"`
}

// schedule fills NextOccurrence from the recurring contract. A recurring
// income without a known frequency is rejected.
func schedule(in *models.Income) error {
	if !in.Recurring {
		in.Frequency = ""
		in.NextOccurrence = nil
		return nil
	}
	next, ok := models.NextOccurrence(in.Date, in.Frequency)
	if !ok {
		return errors.New("recurring income needs frequency weekly, monthly or yearly")
	}
	in.NextOccurrence = &next
	return nil
}

func (h *IncomeHandler) checkCategory(db *gorm.DB, familyID uint, id *uint) bool {
	if id == nil {
		return true
	}
	_, err := store.FindVisibleCategory(db, familyID, *id)
	return err == nil
}

// Create records an income
// @Summary Create income
// @Description Records an income; recurring incomes get their next occurrence computed
// @Tags Incomes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateIncomeRequest true "income"
// @Success 200 {object} Response{data=models.Income} "created"
// @Failure 400 {object} Response "invalid request"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/incomes [post]
func (h *IncomeHandler) Create(c *gin.Context) {
	familyID := middleware.GetCurrentFamilyID(c)
	var req CreateIncomeRequest
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

	db := database.DB.WithContext(c.Request.Context())
	if !h.checkCategory(db, familyID, req.CategoryID) {
		BadRequest(c, "unknown category")
		return
	}

	in := models.Income{
		FamilyID:    familyID,
		UserID:      middleware.GetCurrentUserID(c),
		CategoryID:  req.CategoryID,
		Source:      strings.TrimSpace(req.Source),
		Amount:      req.Amount.Round(2),
		Description: strings.TrimSpace(req.Description),
		Date:        date,
		Active:      true,
		Recurring:   req.Recurring,
		Frequency:   req.Frequency,
	}
	if err := schedule(&in); err != nil {
		BadRequest(c, err.Error())
		return
	}
	if err := db.Create(&in).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to create income"))
		return
	}
	SuccessWithMessage(c, "created", in)
}

// List returns the family's incomes
// @Summary List incomes
// @Tags Incomes
// @Produce json
// @Security BearerAuth
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(10)
// @Param user_id query int false "member"
// @Param source query string false "source"
// @Param start_date query string false "first day (2024-01-01)"
// @Param end_date query string false "last day (2024-12-31)"
// @Success 200 {object} Response{data=PageResponse{list=[]models.Income}} "ok"
// @Failure 400 {object} Response "invalid request"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/incomes [get]
func (h *IncomeHandler) List(c *gin.Context) {
	familyID := middleware.GetCurrentFamilyID(c)
	var req IncomeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	req.normalize()

	loc := h.eng.Location()
	q := store.Query{FamilyID: familyID, UserID: req.UserID}
	if req.StartDate != "" {
		t, err := parseDate(req.StartDate, loc)
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
		q.Start = t
	}
	if req.EndDate != "" {
		t, err := parseDate(req.EndDate, loc)
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
		q.End = t.Add(24*time.Hour - time.Millisecond)
	}

	db := database.DB.WithContext(c.Request.Context())
	base := store.Incomes(db, q)
	if req.Source != "" {
		base = base.Where("source = ?", req.Source)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	var incomes []models.Income
	if err := base.Preload("Category").Order("date DESC, id DESC").
		Offset(req.offset()).Limit(req.PageSize).Find(&incomes).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	Success(c, PageResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		List:     incomes,
	})
}

// Get returns one income
// @Summary Get income
// @Tags Incomes
// @Produce json
// @Security BearerAuth
// @Param id path int true "income id"
// @Success 200 {object} Response{data=models.Income} "ok"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/incomes/{id} [get]
func (h *IncomeHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	in, err := store.FindIncome(database.DB.WithContext(c.Request.Context()), middleware.GetCurrentFamilyID(c), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "income not found")
			return
		}
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	Success(c, in)
}

// Update changes an income
// @Summary Update income
// @Tags Incomes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "income id"
// @Param request body UpdateIncomeRequest true "changes"
// @Success 200 {object} Response{data=models.Income} "updated"
// @Failure 400 {object} Response "invalid request"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/incomes/{id} [put]
func (h *IncomeHandler) Update(c *gin.Context) {
	familyID := middleware.GetCurrentFamilyID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req UpdateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	db := database.DB.WithContext(c.Request.Context())
	in, err := store.FindIncome(db, familyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "income not found")
			return
		}
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}

	if req.Source != nil {
		s := strings.TrimSpace(*req.Source)
		if s == "" {
			BadRequest(c, "source must not be empty")
			return
		}
		in.Source = s
	}
	if req.CategoryID != nil {
		if !h.checkCategory(db, familyID, req.CategoryID) {
			BadRequest(c, "unknown category")
			return
		}
		in.CategoryID = req.CategoryID
		in.Category = nil
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			BadRequest(c, "amount must be greater than 0")
			return
		}
		in.Amount = req.Amount.Round(2)
	}
	if req.Description != nil {
		in.Description = strings.TrimSpace(*req.Description)
	}
	if req.Date != nil {
		date, err := parseDateTime(*req.Date, h.eng.Location())
		if err != nil {
			BadRequest(c, err.Error())
			return
		}
		in.Date = date
	}
	if req.Recurring != nil {
		in.Recurring = *req.Recurring
	}
	if req.Frequency != nil {
		in.Frequency = *req.Frequency
	}
	if err := schedule(in); err != nil {
		BadRequest(c, err.Error())
		return
	}

	if err := db.Omit("Category").Save(in).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to update income"))
		return
	}
	SuccessWithMessage(c, "updated", in)
}

// Delete soft-deletes an income
// @Summary Delete income
// @Tags Incomes
// @Produce json
// @Security BearerAuth
// @Param id path int true "income id"
// @Success 200 {object} Response "deleted"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/incomes/{id} [delete]
func (h *IncomeHandler) Delete(c *gin.Context) {
	familyID := middleware.GetCurrentFamilyID(c)
	id, ok := parseID(c)
	if !ok {
		return
	}
	db := database.DB.WithContext(c.Request.Context())
	res := db.Model(&models.Income{}).
		Where("id = ? AND family_id = ? AND active = ?", id, familyID, true).
		Update("active", false)
	if res.Error != nil {
		InternalError(c, SafeErrorMessage(res.Error, "failed to delete income"))
		return
	}
	if res.RowsAffected == 0 {
		NotFound(c, "income not found")
		return
	}
	SuccessWithMessage(c, "deleted", nil)
}
