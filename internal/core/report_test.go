package core

import (
	"testing"
	"time"
)

func TestPercentChange(t *testing.T) {
	tests := []struct {
		current, previous, want float64
	}{
		{150, 100, 50},
		{50, 100, -50},
		{5, 0, 100},
		{0, 0, 0},
	}

	for _, tt := range tests {
		if got := PercentChange(tt.current, tt.previous); got != tt.want {
			t.Errorf("PercentChange(%v, %v) = %v, want %v", tt.current, tt.previous, got, tt.want)
		}
	}
}

func TestComputeReportMetrics(t *testing.T) {
	now := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	expenses := []PeriodTotals{
		{Period: "2024-01", Expense: 100},
		{Period: "2024-02", Expense: 200},
		{Period: "2024-03", Expense: 300},
	}
	reports := []Report{
		{GeneratedAt: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
		{GeneratedAt: time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC)},
	}

	got := ComputeReportMetrics(expenses, MonthTotals{Income: 1000, Expenses: 1500}, reports, now)

	if got.TotalReports != 2 || got.ReportsThisMonth != 1 || got.TotalTrend != "1 generated this month" {
		t.Errorf("report counts = %+v", got)
	}
	if got.AverageSpending != 200 {
		t.Errorf("AverageSpending = %v, want 200", got.AverageSpending)
	}
	if !got.HasExpenseTrend || got.ExpenseTrendPct != 50 || got.AverageTrend != "+50.0% vs prior month" {
		t.Errorf("expense trend = %v %v %q", got.HasExpenseTrend, got.ExpenseTrendPct, got.AverageTrend)
	}
	if got.NetSavings != -500 || got.SavingsTrend != "Spending exceeds income" {
		t.Errorf("savings = %v %q", got.NetSavings, got.SavingsTrend)
	}
}

func TestComputeReportMetrics_Empty(t *testing.T) {
	got := ComputeReportMetrics(nil, MonthTotals{}, nil, time.Now())
	if got.TotalTrend != "No reports this month" || got.AverageTrend != "Need more history" {
		t.Errorf("ComputeReportMetrics() = %+v", got)
	}
	if got.SavingsTrend != "Income ahead of expenses" {
		t.Errorf("SavingsTrend = %q", got.SavingsTrend)
	}
}

func TestNewMonthlySnapshotReport(t *testing.T) {
	now := time.Date(2024, 2, 10, 8, 0, 0, 0, time.UTC)
	r := NewMonthlySnapshotReport(now, "Feb 2024")

	if r.Title != "Monthly Snapshot - Feb 2024" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.ReportType != "summary" || r.FileFormat != "PDF" {
		t.Errorf("type, format = %q, %q", r.ReportType, r.FileFormat)
	}
	if r.PeriodStart.String() != "2024-02-01" || r.PeriodEnd.String() != "2024-02-29" {
		t.Errorf("period = %v..%v, want 2024-02-01..2024-02-29", r.PeriodStart, r.PeriodEnd)
	}
	if r.Summary != MonthlySnapshotSummary {
		t.Errorf("Summary = %q", r.Summary)
	}
}

func TestFormatPercentChange(t *testing.T) {
	tests := map[float64]string{12.34: "+12.3%", -4: "-4.0%", 0: "0.0%"}
	for in, want := range tests {
		if got := FormatPercentChange(in); got != want {
			t.Errorf("FormatPercentChange(%v) = %q, want %q", in, got, want)
		}
	}
}
