package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextOccurrence(t *testing.T) {
	day := func(y int, m time.Month, d int) time.Time {
		return time.Date(y, m, d, 9, 0, 0, 0, time.UTC)
	}

	cases := []struct {
		name string
		from time.Time
		freq Frequency
		want time.Time
	}{
		{"weekly", day(2024, 1, 29), FrequencyWeekly, day(2024, 2, 5)},
		{"monthly keeps day", day(2024, 1, 15), FrequencyMonthly, day(2024, 2, 15)},
		{"monthly clamps to leap february", day(2024, 1, 31), FrequencyMonthly, day(2024, 2, 29)},
		{"monthly clamps to february", day(2023, 1, 31), FrequencyMonthly, day(2023, 2, 28)},
		{"monthly across year end", day(2024, 12, 31), FrequencyMonthly, day(2025, 1, 31)},
		{"yearly from leap day", day(2024, 2, 29), FrequencyYearly, day(2025, 2, 28)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NextOccurrence(tc.from, tc.freq)
			assert.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}

	_, ok := NextOccurrence(day(2024, 1, 1), Frequency("hourly"))
	assert.False(t, ok)
}

func TestBudgetHistoryAppendKeepsNewest(t *testing.T) {
	var h BudgetHistory
	for i := 1; i <= 12; i++ {
		h = h.Append(BudgetHistoryEntry{ChangedBy: uint(i)}, 10)
	}
	assert.Len(t, h, 10)
	assert.Equal(t, uint(3), h[0].ChangedBy)
	assert.Equal(t, uint(12), h[9].ChangedBy)
}

func TestBucketOf(t *testing.T) {
	shanghai := time.FixedZone("UTC+8", 8*3600)
	// 2024-03-31 20:00 UTC is already April 1st in UTC+8
	date := time.Date(2024, 3, 31, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, Bucket{FamilyID: 1, CategoryID: 2, Year: 2024, Month: 3}, BucketOf(1, 2, date, time.UTC))
	assert.Equal(t, Bucket{FamilyID: 1, CategoryID: 2, Year: 2024, Month: 4}, BucketOf(1, 2, date, shanghai))
	assert.True(t, Bucket{Year: 2024, Month: 12}.Valid())
	assert.False(t, Bucket{Year: 2024, Month: 13}.Valid())
}

func TestBudgetStatusRank(t *testing.T) {
	assert.Less(t, BudgetStatusSafe.Rank(), BudgetStatusNormal.Rank())
	assert.Less(t, BudgetStatusNormal.Rank(), BudgetStatusWarning.Rank())
	assert.Less(t, BudgetStatusWarning.Rank(), BudgetStatusExceeded.Rank())
}
