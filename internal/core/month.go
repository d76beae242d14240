package core

import (
	"fmt"
	"time"
)

// MonthKey identifies one calendar month. The zero value is not a valid
// month; use ParseMonthKey or MonthKeyOf to construct one.
type MonthKey struct {
	Year  int
	Month time.Month
}

// ParseMonthKey parses a strict YYYY-MM token. Anything else, including
// unpadded months and out-of-range values, returns ErrInvalidMonth.
func ParseMonthKey(s string) (MonthKey, error) {
	if len(s) != 7 {
		return MonthKey{}, ErrInvalidMonth
	}
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return MonthKey{}, ErrInvalidMonth
	}
	return MonthKey{Year: t.Year(), Month: t.Month()}, nil
}

// MonthKeyOf returns the month containing t, evaluated in UTC.
func MonthKeyOf(t time.Time) MonthKey {
	u := t.UTC()
	return MonthKey{Year: u.Year(), Month: u.Month()}
}

// String renders the YYYY-MM token.
func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// Start returns the first instant of the month in UTC.
func (k MonthKey) Start() time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Next returns the following month.
func (k MonthKey) Next() MonthKey {
	return k.Add(1)
}

// Add returns the month shifted by n calendar months (n may be negative).
func (k MonthKey) Add(n int) MonthKey {
	t := k.Start().AddDate(0, n, 0)
	return MonthKey{Year: t.Year(), Month: t.Month()}
}

// Contains reports whether t falls inside the half-open interval
// [Start, next month's Start). A transaction stamped at the exact first
// instant of the next month is excluded.
func (k MonthKey) Contains(t time.Time) bool {
	start := k.Start()
	return !t.Before(start) && t.Before(k.Next().Start())
}
