package api

import (
	"errors"
	"net/http"

	"familyledger/engine"

	"github.com/gin-gonic/gin"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageResponse wraps one page of a list.
type PageResponse struct {
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
	List     interface{} `json:"list"`
}

// Success replies 200 with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage replies 200 with a custom message.
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    200,
		Message: message,
		Data:    data,
	})
}

// Error replies with code as both HTTP status and envelope code.
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict 409
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// InternalError 500
func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// EngineError maps an engine error onto its HTTP status. Anything outside
// the engine taxonomy is a 500 with fallback as the release-mode message.
func EngineError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, engine.ErrInvalidWindow), errors.Is(err, engine.ErrInvalidBudget):
		BadRequest(c, err.Error())
	case errors.Is(err, engine.ErrDuplicateBudget):
		Conflict(c, err.Error())
	default:
		InternalError(c, SafeErrorMessage(err, fallback))
	}
}
