package middleware

import (
	"time"

	"familyledger/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestLogger tags every request with an id, stores a request-scoped
// logger in the request context and logs the outcome.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	httpLog := log.WithComponent(logger.ComponentHTTP)
	return func(c *gin.Context) {
		start := time.Now()
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)

		reqLog := httpLog.With(logger.FieldRequestID, id)
		c.Request = c.Request.WithContext(logger.IntoContext(c.Request.Context(), reqLog))

		c.Next()

		attrs := []any{
			logger.FieldMethod, c.Request.Method,
			logger.FieldPath, c.FullPath(),
			logger.FieldStatusCode, c.Writer.Status(),
			logger.FieldDuration, time.Since(start).Milliseconds(),
			logger.FieldClientIP, c.ClientIP(),
		}
		if fam := GetCurrentFamilyID(c); fam != 0 {
			attrs = append(attrs, logger.FieldFamilyID, fam)
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, logger.FieldError, c.Errors.String())
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			reqLog.Error("request failed", attrs...)
		case status >= 400:
			reqLog.Warn("request rejected", attrs...)
		default:
			reqLog.Info("request handled", attrs...)
		}
	}
}
