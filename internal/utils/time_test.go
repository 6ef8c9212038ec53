package utils

import (
	"testing"
	"time"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2026-02-09", "2026-02-09"}, // Monday
		{"2026-02-11", "2026-02-09"}, // Wednesday
		{"2026-02-14", "2026-02-09"}, // Saturday
		{"2026-02-15", "2026-02-09"}, // Sunday
		{"2026-03-02", "2026-03-02"},
		{"2026-03-01", "2026-02-23"}, // Sunday across a month boundary
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, err := ParseDate(tt.date)
			if err != nil {
				t.Fatalf("ParseDate failed: %v", err)
			}
			got := FormatDate(WeekStart(d))
			if got != tt.want {
				t.Errorf("WeekStart(%s) = %s, want %s", tt.date, got, tt.want)
			}
		})
	}
}

func TestWeekStartIgnoresClock(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("timezone data unavailable")
	}
	late := time.Date(2026, 3, 8, 23, 30, 0, 0, loc) // Sunday, DST change day
	if got := FormatDate(WeekStart(late)); got != "2026-03-02" {
		t.Errorf("expected 2026-03-02, got %s", got)
	}
}

func TestAddDays(t *testing.T) {
	got, err := AddDays("2026-02-28", 1)
	if err != nil || got != "2026-03-01" {
		t.Errorf("AddDays = %s, %v", got, err)
	}
	if _, err := AddDays("not-a-date", 1); err == nil {
		t.Error("expected error for invalid date")
	}
}

func TestDaysBetween(t *testing.T) {
	a, _ := ParseDate("2026-05-01")
	b, _ := ParseDate("2026-05-11")
	if got := DaysBetween(a, b); got != 10 {
		t.Errorf("DaysBetween = %d, want 10", got)
	}
	if got := DaysBetween(b, a); got != -10 {
		t.Errorf("DaysBetween reversed = %d, want -10", got)
	}
}

func TestValidateTimezone(t *testing.T) {
	if !ValidateTimezone("") || !ValidateTimezone("Local") || !ValidateTimezone("UTC") {
		t.Error("expected builtin timezones to be valid")
	}
	if ValidateTimezone("Not/AZone") {
		t.Error("expected invalid timezone to fail")
	}
}

func TestDaysUntil(t *testing.T) {
	today := time.Date(2026, 5, 10, 21, 0, 0, 0, time.Local)
	got, err := DaysUntil("2026-05-11", today)
	if err != nil || got != 1 {
		t.Errorf("DaysUntil = %d, %v; want 1", got, err)
	}
	if _, err := DaysUntil("tomorrow", today); err == nil {
		t.Error("expected error for invalid date")
	}
}
