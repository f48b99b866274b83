package tracker

import (
	"testing"
	"time"
)

func TestMonthSheetName(t *testing.T) {
	tests := []struct {
		y    int
		m    time.Month
		want string
	}{
		{2026, time.January, "January 2026"},
		{2026, time.December, "December 2026"},
		{1999, time.July, "July 1999"},
	}
	for _, tc := range tests {
		if got := NewMonth(tc.y, tc.m).SheetName(); got != tc.want {
			t.Errorf("SheetName(%d, %s) = %q, want %q", tc.y, tc.m, got, tc.want)
		}
	}
}

func TestParseMonthName(t *testing.T) {
	m, err := ParseMonthName("January 2026")
	if err != nil {
		t.Fatalf("ParseMonthName failed: %v", err)
	}
	if m != NewMonth(2026, time.January) {
		t.Errorf("ParseMonthName = %v", m)
	}

	for _, bad := range []string{"2026 Overview", "Sheet1", "Janvier 2026", ""} {
		if _, err := ParseMonthName(bad); err == nil {
			t.Errorf("ParseMonthName(%q) should fail", bad)
		}
	}
}

func TestMonthOf(t *testing.T) {
	d := time.Date(2026, 3, 31, 23, 59, 0, 0, time.UTC)
	if got := MonthOf(d); got != NewMonth(2026, time.March) {
		t.Errorf("MonthOf(%v) = %v", d, got)
	}
}

func TestMonthBefore(t *testing.T) {
	jan := NewMonth(2026, time.January)
	feb := NewMonth(2026, time.February)
	dec25 := NewMonth(2025, time.December)

	if !jan.Before(feb) {
		t.Error("January 2026 should be before February 2026")
	}
	if !dec25.Before(jan) {
		t.Error("December 2025 should be before January 2026")
	}
	if feb.Before(jan) {
		t.Error("February 2026 should not be before January 2026")
	}
	if jan.Before(jan) {
		t.Error("a month should not be before itself")
	}
}

func TestParseDatetimeRoundTrip(t *testing.T) {
	d := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	s := d.Format(DatetimeFormat)
	if s != "2026-01-15 10:30:00" {
		t.Fatalf("unexpected format %q", s)
	}
	got, err := ParseDatetime(s)
	if err != nil {
		t.Fatalf("ParseDatetime failed: %v", err)
	}
	if !got.Equal(d) {
		t.Errorf("round trip got %v, want %v", got, d)
	}
}
