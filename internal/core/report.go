package core

import (
	"fmt"
	"time"
)

const (
	ReportTypeSummary = "summary"
	ReportFormatPDF   = "PDF"

	// ReportHistoryLimit is how many reports the history keeps visible.
	ReportHistoryLimit = 30

	MonthlySnapshotSummary = "Auto-generated monthly summary with income, expense, and savings highlights."
)

// ReportMetrics are the headline numbers shown above the report history.
type ReportMetrics struct {
	TotalReports     int     `json:"totalReports"`
	ReportsThisMonth int     `json:"reportsThisMonth"`
	TotalTrend       string  `json:"totalTrend"`
	AverageSpending  float64 `json:"averageSpending"`
	ExpenseTrendPct  float64 `json:"expenseTrendPct"`
	HasExpenseTrend  bool    `json:"hasExpenseTrend"`
	AverageTrend     string  `json:"averageTrend"`
	NetSavings       float64 `json:"netSavings"`
	SavingsTrend     string  `json:"savingsTrend"`
}

// PercentChange is the relative move from previous to current in percent.
// From zero it is 100 for any growth and 0 otherwise.
func PercentChange(current, previous float64) float64 {
	current, previous = SafeAmount(current), SafeAmount(previous)
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

// ComputeReportMetrics derives the report headline from monthly expense
// periods (oldest first), year-to-date totals and the visible report history.
func ComputeReportMetrics(monthlyExpenses []PeriodTotals, ytd MonthTotals, reports []Report, now time.Time) ReportMetrics {
	m := ReportMetrics{TotalReports: len(reports)}

	current := PeriodKey(now)
	for _, r := range reports {
		if !r.GeneratedAt.IsZero() && PeriodKey(r.GeneratedAt) == current {
			m.ReportsThisMonth++
		}
	}
	if m.ReportsThisMonth > 0 {
		m.TotalTrend = fmt.Sprintf("%d generated this month", m.ReportsThisMonth)
	} else {
		m.TotalTrend = "No reports this month"
	}

	if n := len(monthlyExpenses); n > 0 {
		var total float64
		for _, p := range monthlyExpenses {
			total += SafeAmount(p.Expense)
		}
		m.AverageSpending = Round2(total / float64(n))

		latest := monthlyExpenses[n-1].Expense
		var previous float64
		if n > 1 {
			previous = monthlyExpenses[n-2].Expense
		}
		m.ExpenseTrendPct = PercentChange(latest, previous)
		m.HasExpenseTrend = n > 1
	}
	if m.HasExpenseTrend {
		m.AverageTrend = fmt.Sprintf("%s vs prior month", FormatPercentChange(m.ExpenseTrendPct))
	} else {
		m.AverageTrend = "Need more history"
	}

	m.NetSavings = Round2(ytd.Income - ytd.Expenses)
	if m.NetSavings >= 0 {
		m.SavingsTrend = "Income ahead of expenses"
	} else {
		m.SavingsTrend = "Spending exceeds income"
	}
	return m
}

// FormatPercentChange renders v with one decimal and a leading plus sign for
// growth, e.g. "+12.5%".
func FormatPercentChange(v float64) string {
	v = Round2(v)
	sign := ""
	if v > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.1f%%", sign, v)
}

// NewMonthlySnapshotReport describes a summary report covering now's
// calendar month. monthLabel is the display form of the month, e.g.
// "Mar 2024".
func NewMonthlySnapshotReport(now time.Time, monthLabel string) Report {
	start := MonthStart(now)
	end := DateOf(AddMonths(now, 1).AddDate(0, 0, -1))
	return Report{
		Title:       "Monthly Snapshot - " + monthLabel,
		ReportType:  ReportTypeSummary,
		FileFormat:  ReportFormatPDF,
		PeriodStart: start,
		PeriodEnd:   end,
		Summary:     MonthlySnapshotSummary,
		GeneratedAt: now,
	}
}
