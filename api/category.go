package api

import (
	"errors"
	"net/http"
	"strings"

	"familyledger/database"
	"familyledger/engine"
	"familyledger/middleware"
	"familyledger/models"
	"familyledger/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const defaultCategoryColor = "#64748b"

// CategoryHandler manages the family's own categories. The global defaults
// are listed alongside them but are read-only.
type CategoryHandler struct {
	eng *engine.Engine
}

func NewCategoryHandler(eng *engine.Engine) *CategoryHandler {
	return &CategoryHandler{eng: eng}
}

type CategoryCreateRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=50" example:"Pets"`
	Sort  int    `json:"sort" example:"100"`
	Color string `json:"color" binding:"omitempty,max=20" example:"#f97316"`
}

type CategoryUpdateRequest struct {
	Name  string  `json:"name" binding:"omitempty,min=1,max=50"`
	Sort  *int    `json:"sort"`
	Color *string `json:"color" binding:"omitempty,max=20"`
}

// ownedCategory loads a category the family may change. Defaults and other
// families' categories answer 403 and 404 respectively.
func (h *CategoryHandler) ownedCategory(c *gin.Context, db *gorm.DB) (*models.Category, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}
	familyID := middleware.GetCurrentFamilyID(c)
	cat, err := store.FindVisibleCategory(db, familyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			NotFound(c, "category not found")
			return nil, false
		}
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return nil, false
	}
	if !cat.OwnedBy(familyID) {
		Error(c, http.StatusForbidden, "default categories cannot be changed")
		return nil, false
	}
	return cat, true
}

// List returns every category the family can use
// @Summary List categories
// @Description Family categories plus the global defaults, with the family's spend and last-used date
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=[]models.Category} "ok"
// @Failure 401 {object} Response "unauthorized"
// @Router /api/v1/categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	list, err := h.eng.Categories(c.Request.Context(), middleware.GetCurrentFamilyID(c))
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	Success(c, list)
}

// Create adds a family category
// @Summary Create category
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryCreateRequest true "category"
// @Success 200 {object} Response{data=models.Category} "created"
// @Failure 400 {object} Response "invalid request"
// @Failure 409 {object} Response "name already used"
// @Router /api/v1/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	familyID := middleware.GetCurrentFamilyID(c)
	var req CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		BadRequest(c, "name must not be empty")
		return
	}

	db := database.DB.WithContext(c.Request.Context())
	taken, err := store.CategoryNameTaken(db, familyID, req.Name, 0)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	if taken {
		Conflict(c, "category name already used")
		return
	}

	color := req.Color
	if color == "" {
		color = defaultCategoryColor
	}
	cat := models.Category{FamilyID: &familyID, Name: req.Name, Sort: req.Sort, Color: color, Active: true}
	if err := db.Create(&cat).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Conflict(c, "category name already used")
			return
		}
		InternalError(c, SafeErrorMessage(err, "failed to create category"))
		return
	}
	SuccessWithMessage(c, "created", cat)
}

// Update changes a family category
// @Summary Update category
// @Tags Categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Param request body CategoryUpdateRequest true "changes"
// @Success 200 {object} Response{data=models.Category} "updated"
// @Failure 400 {object} Response "invalid request"
// @Failure 403 {object} Response "default category"
// @Failure 404 {object} Response "not found"
// @Failure 409 {object} Response "name already used"
// @Router /api/v1/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())
	cat, ok := h.ownedCategory(c, db)
	if !ok {
		return
	}

	var req CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "invalid request"))
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		name := strings.TrimSpace(req.Name)
		if name == "" {
			BadRequest(c, "name must not be empty")
			return
		}
		taken, err := store.CategoryNameTaken(db, *cat.FamilyID, name, cat.ID)
		if err != nil {
			InternalError(c, SafeErrorMessage(err, "query failed"))
			return
		}
		if taken {
			Conflict(c, "category name already used")
			return
		}
		updates["name"] = name
	}
	if req.Sort != nil {
		updates["sort"] = *req.Sort
	}
	if req.Color != nil {
		color := *req.Color
		if color == "" {
			color = defaultCategoryColor
		}
		updates["color"] = color
	}
	if len(updates) == 0 {
		SuccessWithMessage(c, "nothing to update", cat)
		return
	}

	if err := db.Model(cat).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to update category"))
		return
	}
	if err := db.First(cat, cat.ID).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "query failed"))
		return
	}
	SuccessWithMessage(c, "updated", cat)
}

// Delete soft-deletes a family category. Its expenses keep pointing at it.
// @Summary Delete category
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Success 200 {object} Response "deleted"
// @Failure 403 {object} Response "default category"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())
	cat, ok := h.ownedCategory(c, db)
	if !ok {
		return
	}
	if err := db.Model(&models.Category{}).Where("id = ?", cat.ID).Update("active", false).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "failed to delete category"))
		return
	}
	SuccessWithMessage(c, "deleted", nil)
}

// Stats reports one category's spend
// @Summary Category statistics
// @Description Total, count, average and share of family spend in a window; a single-month window includes that month's budget
// @Tags Categories
// @Produce json
// @Security BearerAuth
// @Param id path int true "category id"
// @Param year query int false "year (default current)"
// @Param month query int false "month (default current)"
// @Param start_date query string false "first day (2024-01-01)"
// @Param end_date query string false "last day (2024-03-31)"
// @Success 200 {object} Response{data=engine.CategoryReport} "ok"
// @Failure 400 {object} Response "invalid window"
// @Failure 404 {object} Response "not found"
// @Router /api/v1/categories/{id}/stats [get]
func (h *CategoryHandler) Stats(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
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
	report, err := h.eng.CategoryStats(c.Request.Context(), middleware.GetCurrentFamilyID(c), id, w)
	if err != nil {
		EngineError(c, err, "failed to compute category statistics")
		return
	}
	Success(c, report)
}
