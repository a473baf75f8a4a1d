package core

import (
	"testing"
	"time"
)

func TestBuildMonthlySeries(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)
	rows := []PeriodTotals{
		{Period: "2024-02", Income: 1000, Expense: 400},
		{Period: "2023-12", Income: 5, Expense: 5},
	}

	got := BuildMonthlySeries(3, now, rows, 100)
	if len(got) != 3 {
		t.Fatalf("BuildMonthlySeries() returned %d buckets, want 3", len(got))
	}

	want := []MonthBucket{
		{Period: "2024-01", Label: "Jan 2024", Income: 0, Expense: 100},
		{Period: "2024-02", Label: "Feb 2024", Income: 1000, Expense: 500},
		{Period: "2024-03", Label: "Mar 2024", Income: 0, Expense: 100},
	}
	for i, w := range want {
		g := got[i]
		if g.Period != w.Period || g.Label != w.Label || g.Income != w.Income || g.Expense != w.Expense {
			t.Errorf("bucket %d = %+v, want %+v", i, g, w)
		}
	}
	if got[0].Start.String() != "2024-01-01" {
		t.Errorf("first bucket start = %v, want 2024-01-01", got[0].Start)
	}
}

func TestBuildMonthlySeries_YearBoundary(t *testing.T) {
	now := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	got := BuildMonthlySeries(3, now, nil, 0)

	periods := []string{"2023-11", "2023-12", "2024-01"}
	for i, p := range periods {
		if got[i].Period != p {
			t.Errorf("bucket %d period = %s, want %s", i, got[i].Period, p)
		}
	}
	if HasActivity(got) {
		t.Error("HasActivity() = true for empty series")
	}
}

func TestBuildMonthlySeries_NoMonths(t *testing.T) {
	if got := BuildMonthlySeries(0, time.Now(), nil, 10); len(got) != 0 {
		t.Errorf("BuildMonthlySeries(0) = %v, want empty", got)
	}
}

func TestSeriesRange(t *testing.T) {
	now := time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC)
	start, end := SeriesRange(6, now)
	if start.String() != "2023-10-01" || end.String() != "2024-04-01" {
		t.Errorf("SeriesRange(6) = %v, %v, want 2023-10-01, 2024-04-01", start, end)
	}
}
