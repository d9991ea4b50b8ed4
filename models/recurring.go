package models

import "time"

// Frequency of a recurring income.
type Frequency string

const (
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// NextOccurrence returns the first occurrence after from. Monthly and yearly
// rules keep the day of month, clamped to the last day of the target month
// (Jan 31 -> Feb 28/29, Feb 29 -> Feb 28 in non-leap years).
func NextOccurrence(from time.Time, f Frequency) (time.Time, bool) {
	switch f {
	case FrequencyWeekly:
		return from.AddDate(0, 0, 7), true
	case FrequencyMonthly:
		return addMonthsClamped(from, 1), true
	case FrequencyYearly:
		return addMonthsClamped(from, 12), true
	}
	return time.Time{}, false
}

func addMonthsClamped(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	target := first.AddDate(0, months, 0)
	lastDay := time.Date(target.Year(), target.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(target.Year(), target.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
