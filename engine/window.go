package engine

import (
	"fmt"
	"time"
)

// Window is an inclusive time range.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// YearMonth is a calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// YearMonthOf returns the calendar month t falls in, read in loc.
func YearMonthOf(t time.Time, loc *time.Location) YearMonth {
	t = t.In(loc)
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// Label formats the month as "Jan 2024".
func (ym YearMonth) Label() string {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
}

func (ym YearMonth) Prev() YearMonth {
	if ym.Month == time.January {
		return YearMonth{Year: ym.Year - 1, Month: time.December}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month - 1}
}

func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// Window spans the whole month: first instant to one millisecond before the next month.
func (ym YearMonth) Window(loc *time.Location) Window {
	start := time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, loc)
	next := time.Date(ym.Year, ym.Month+1, 1, 0, 0, 0, 0, loc)
	return Window{Start: start, End: next.Add(-time.Millisecond)}
}

// MonthWindow is the calendar month (year, month) in loc.
func MonthWindow(year, month int, loc *time.Location) (Window, error) {
	if year <= 0 || month < 1 || month > 12 {
		return Window{}, fmt.Errorf("%w: %04d-%02d", ErrInvalidWindow, year, month)
	}
	return YearMonth{Year: year, Month: time.Month(month)}.Window(loc), nil
}

// YearWindow is the calendar year in loc.
func YearWindow(year int, loc *time.Location) (Window, error) {
	if year <= 0 {
		return Window{}, fmt.Errorf("%w: year %d", ErrInvalidWindow, year)
	}
	return Window{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
		End:   time.Date(year+1, time.January, 1, 0, 0, 0, 0, loc).Add(-time.Millisecond),
	}, nil
}

// RangeWindow covers start's day through the end of end's day (23:59:59.999).
func RangeWindow(start, end time.Time, loc *time.Location) (Window, error) {
	s := start.In(loc)
	e := end.In(loc)
	w := Window{
		Start: time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, loc),
		End:   time.Date(e.Year(), e.Month(), e.Day(), 23, 59, 59, int(999*time.Millisecond), loc),
	}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

// Validate rejects zero and inverted windows.
func (w Window) Validate() error {
	if w.Start.IsZero() || w.End.IsZero() {
		return fmt.Errorf("%w: missing bound", ErrInvalidWindow)
	}
	if w.End.Before(w.Start) {
		return fmt.Errorf("%w: end %s before start %s", ErrInvalidWindow,
			w.End.Format(time.DateOnly), w.Start.Format(time.DateOnly))
	}
	return nil
}

// MonthSpan counts the calendar months intersecting w without listing them.
func (w Window) MonthSpan(loc *time.Location) int {
	first := YearMonthOf(w.Start, loc)
	last := YearMonthOf(w.End, loc)
	return (last.Year-first.Year)*12 + int(last.Month) - int(first.Month) + 1
}

// AddMonths moves ym by n months; n may be negative.
func (ym YearMonth) AddMonths(n int) YearMonth {
	idx := ym.Year*12 + int(ym.Month) - 1 + n
	return YearMonth{Year: idx / 12, Month: time.Month(idx%12 + 1)}
}

// Months lists every calendar month intersecting w, oldest first.
func (w Window) Months(loc *time.Location) []YearMonth {
	first := YearMonthOf(w.Start, loc)
	last := YearMonthOf(w.End, loc)
	var out []YearMonth
	for ym := first; !last.Before(ym); ym = ym.Next() {
		out = append(out, ym)
	}
	return out
}

// trailingMonths lists n months ending with the month of now, oldest first.
func trailingMonths(now time.Time, n int, loc *time.Location) []YearMonth {
	out := make([]YearMonth, n)
	ym := YearMonthOf(now, loc)
	for i := n - 1; i >= 0; i-- {
		out[i] = ym
		ym = ym.Prev()
	}
	return out
}
