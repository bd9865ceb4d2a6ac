package utils

import (
	"testing"
	"time"
)

func TestFinancialYear_AprilBoundary(t *testing.T) {
	cases := []struct {
		date      time.Time
		wantStart int
		wantEnd   int
		wantLabel string
	}{
		{time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), 2024, 2025, "2024-2025"},
		{time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC), 2024, 2025, "2024-2025"},
		{time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), 2025, 2026, "2025-2026"},
		{time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC), 2025, 2026, "2025-2026"},
		{time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), 2025, 2026, "2025-2026"},
	}
	for _, tc := range cases {
		fy := FinancialYear(tc.date)
		if fy.StartYear != tc.wantStart || fy.EndYear != tc.wantEnd {
			t.Fatalf("FinancialYear(%s): got %d-%d, want %d-%d",
				tc.date.Format("2006-01-02"), fy.StartYear, fy.EndYear, tc.wantStart, tc.wantEnd)
		}
		if fy.Label != tc.wantLabel {
			t.Fatalf("FinancialYear(%s): label %q, want %q", tc.date.Format("2006-01-02"), fy.Label, tc.wantLabel)
		}
	}
}

func TestFinancialYear_PeriodDates(t *testing.T) {
	fy := FinancialYear(time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC))
	if fy.StartDate.Month() != time.April || fy.StartDate.Day() != 1 || fy.StartDate.Year() != 2025 {
		t.Fatalf("start date: got %s, want 2025-04-01", fy.StartDate.Format("2006-01-02"))
	}
	if fy.EndDate.Month() != time.March || fy.EndDate.Day() != 31 || fy.EndDate.Year() != 2026 {
		t.Fatalf("end date: got %s, want 2026-03-31", fy.EndDate.Format("2006-01-02"))
	}
}
