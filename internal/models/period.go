package models

import (
	"fmt"
	"time"
)

// Period is a calendar month used by the reporting operations.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the calendar month containing t (UTC).
func PeriodOf(t time.Time) Period {
	t = t.UTC()
	return Period{Year: t.Year(), Month: t.Month()}
}

// NewPeriod validates month and year.
func NewPeriod(month, year int) (Period, error) {
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	if year < 1 {
		return Period{}, fmt.Errorf("year must be positive, got %d", year)
	}
	return Period{Year: year, Month: time.Month(month)}, nil
}

// Bounds returns the half-open UTC interval [start, end) of the month.
func (p Period) Bounds() (time.Time, time.Time) {
	start := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// Contains reports whether t falls inside the month.
func (p Period) Contains(t time.Time) bool {
	start, end := p.Bounds()
	t = t.UTC()
	return !t.Before(start) && t.Before(end)
}

// Label renders the month as "January 2024".
func (p Period) Label() string {
	start, _ := p.Bounds()
	return start.Format("January 2006")
}

// String implements fmt.Stringer as YYYY-MM.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
