package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used in directory and file names
const DateLayout = "2006-01-02"

// Date is a calendar date with no time of day and no zone.
// All week arithmetic happens on Date values so DST shifts never leak in.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate builds a Date, normalizing overflow (e.g. Jan 32 -> Feb 1)
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses an ISO date such as "2025-06-02"
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

func (d Date) midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days after d (n may be negative)
func (d Date) AddDays(n int) Date {
	return DateOf(d.midnight().AddDate(0, 0, n))
}

// Weekday returns the ISO weekday (Monday=1 .. Sunday=7)
func (d Date) Weekday() Weekday {
	return WeekdayOf(d.midnight().Weekday())
}

// IsZero reports whether d is the zero Date
func (d Date) IsZero() bool {
	return d == Date{}
}

// Compare returns -1, 0 or 1 depending on whether d is before, equal to or after o
func (d Date) Compare(o Date) int {
	return d.midnight().Compare(o.midnight())
}

// Before reports whether d falls strictly before o
func (d Date) Before(o Date) bool {
	return d.Compare(o) < 0
}

// String formats the date as YYYY-MM-DD
func (d Date) String() string {
	return d.midnight().Format(DateLayout)
}

// MonthKey formats the date as YYYY-MM
func (d Date) MonthKey() string {
	return d.midnight().Format("2006-01")
}
