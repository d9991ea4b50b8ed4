package models

import (
	"fmt"
	"time"
)

// Bucket is the (family, category, year, month) tuple that scopes a budget
// and its derived spend.
type Bucket struct {
	FamilyID   uint
	CategoryID uint
	Year       int
	Month      int
}

// BucketOf places a transaction dated date into its calendar-month bucket in loc.
func BucketOf(familyID, categoryID uint, date time.Time, loc *time.Location) Bucket {
	d := date.In(loc)
	return Bucket{FamilyID: familyID, CategoryID: categoryID, Year: d.Year(), Month: int(d.Month())}
}

// Valid reports whether the month is a real calendar month.
func (b Bucket) Valid() bool {
	return b.Year > 0 && b.Month >= 1 && b.Month <= 12
}

func (b Bucket) String() string {
	return fmt.Sprintf("family=%d category=%d %04d-%02d", b.FamilyID, b.CategoryID, b.Year, b.Month)
}
