package tracker

import (
	"fmt"
	"time"
)

// DatetimeFormat is the format used for transaction timestamps in sheets.
const DatetimeFormat = "2006-01-02 15:04:05"

// monthKeyFormat is the compact "2026-01" form used for sorting and grouping.
const monthKeyFormat = "2006-01"

// sheetNameFormat is the human form used for sheet names, like "January 2026".
const sheetNameFormat = "January 2006"

// Month identifies one calendar month, the granularity at which the workbook
// is organized.
type Month struct {
	y int
	m time.Month
}

// NewMonth returns a normalized Month for the given year and month.
func NewMonth(year int, month time.Month) Month {
	y, m, _ := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Date()
	return Month{y, m}
}

// MonthOf returns the Month containing the given instant.
func MonthOf(t time.Time) Month { return NewMonth(t.Year(), t.Month()) }

// Year returns the month's year.
func (m Month) Year() int { return m.y }

// Month returns the month within the year.
func (m Month) Month() time.Month { return m.m }

// IsZero returns true if the month is the zero value.
func (m Month) IsZero() bool { return m.y == 0 && m.m == 0 }

func (m Month) time() time.Time { return time.Date(m.y, m.m, 1, 0, 0, 0, 0, time.UTC) }

// Before reports whether m is strictly before x.
func (m Month) Before(x Month) bool { return m.time().Before(x.time()) }

// Key returns the compact sortable form, like "2026-01".
func (m Month) Key() string { return m.time().Format(monthKeyFormat) }

// SheetName returns the workbook sheet name for this month, like "January 2026".
func (m Month) SheetName() string { return m.time().Format(sheetNameFormat) }

// String returns the sheet name form.
func (m Month) String() string { return m.SheetName() }

// ParseMonthName parses a sheet name like "January 2026" into a Month.
func ParseMonthName(name string) (Month, error) {
	t, err := time.Parse(sheetNameFormat, name)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month sheet name %q: %w", name, err)
	}
	return NewMonth(t.Year(), t.Month()), nil
}

// ParseDatetime parses a sheet timestamp like "2026-01-05 14:23:11".
func ParseDatetime(s string) (time.Time, error) {
	t, err := time.Parse(DatetimeFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q want format %q: %w", s, DatetimeFormat, err)
	}
	return t, nil
}
