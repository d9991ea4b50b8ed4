package api

import (
	"fmt"
	"strconv"
	"time"

	"familyledger/engine"

	"github.com/gin-gonic/gin"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// PageQuery is the pagination part of list requests.
type PageQuery struct {
	Page     int `form:"page" example:"1"`
	PageSize int `form:"page_size" example:"10"`
}

func (p *PageQuery) normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = 10
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p PageQuery) offset() int {
	return (p.Page - 1) * p.PageSize
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// parseDate accepts "2006-01-02".
func parseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: expected %s", s, dateLayout)
	}
	return t, nil
}

// parseDateTime accepts a full timestamp or a bare date (midnight).
func parseDateTime(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(dateTimeLayout, s, loc); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(dateLayout, s, loc); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("time %q: expected %s or %s", s, dateTimeLayout, dateLayout)
}

// optionalUint reads a positive integer query parameter; absent means nil.
func optionalUint(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || v == 0 {
		return nil, fmt.Errorf("%s must be a positive integer", name)
	}
	u := uint(v)
	return &u, nil
}

func optionalInt(c *gin.Context, name string) (*int, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	return &v, nil
}

// WindowQuery selects a reporting window: start_date/end_date when either is
// set, otherwise year/month, otherwise the current month.
type WindowQuery struct {
	Year      int    `form:"year" example:"2024"`
	Month     int    `form:"month" example:"3"`
	StartDate string `form:"start_date" example:"2024-01-01"`
	EndDate   string `form:"end_date" example:"2024-03-31"`
}

func (q WindowQuery) window(eng *engine.Engine) (engine.Window, error) {
	loc := eng.Location()
	if q.StartDate != "" || q.EndDate != "" {
		if q.StartDate == "" || q.EndDate == "" {
			return engine.Window{}, fmt.Errorf("%w: start_date and end_date go together", engine.ErrInvalidWindow)
		}
		start, err := parseDate(q.StartDate, loc)
		if err != nil {
			return engine.Window{}, fmt.Errorf("%w: %v", engine.ErrInvalidWindow, err)
		}
		end, err := parseDate(q.EndDate, loc)
		if err != nil {
			return engine.Window{}, fmt.Errorf("%w: %v", engine.ErrInvalidWindow, err)
		}
		return engine.RangeWindow(start, end, loc)
	}

	now := eng.Now()
	year, month := q.Year, q.Month
	if year == 0 {
		year = now.Year()
	}
	if month == 0 {
		month = int(now.Month())
	}
	return engine.MonthWindow(year, month, loc)
}
