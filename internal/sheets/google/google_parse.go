package google

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"finlytics/internal/core"
	ports "finlytics/internal/sheets"
)

// Sheet columns, A to J.
const (
	colGeneratedAt = iota
	colTitle
	colType
	colFormat
	colPeriodStart
	colPeriodEnd
	colIncome
	colExpenses
	colSavings
	colCurrency
	columnCount
)

const lastColumn = "J"

// rowValues lays a report out in sheet column order. Money is written as
// plain numbers so the sheet can format and sum them.
func rowValues(row ports.ReportRow) []any {
	r, s := row.Report, row.Snapshot
	return []any{
		r.GeneratedAt.UTC().Format(time.RFC3339),
		r.Title,
		r.ReportType,
		r.FileFormat,
		r.PeriodStart.String(),
		r.PeriodEnd.String(),
		core.Round2(s.MonthlyIncome),
		core.Round2(s.MonthlyExpenses),
		core.Round2(s.MonthlySavings),
		row.Currency,
	}
}

// parseReportRow is the inverse of rowValues. Trailing empty cells may be
// missing, as the Sheets API drops them.
func parseReportRow(cells []string) (ports.ReportRow, error) {
	if len(cells) < colTitle+1 {
		return ports.ReportRow{}, fmt.Errorf("expected at least %d columns, got %d", colTitle+1, len(cells))
	}

	generated, err := time.Parse(time.RFC3339, safeGet(cells, colGeneratedAt))
	if err != nil {
		return ports.ReportRow{}, fmt.Errorf("parse generated at: %w", err)
	}

	row := ports.ReportRow{
		Report: core.Report{
			Title:       safeGet(cells, colTitle),
			ReportType:  safeGet(cells, colType),
			FileFormat:  safeGet(cells, colFormat),
			GeneratedAt: generated,
		},
		Currency: safeGet(cells, colCurrency),
	}
	if d, err := core.ParseDate(safeGet(cells, colPeriodStart)); err == nil {
		row.Report.PeriodStart = d
	}
	if d, err := core.ParseDate(safeGet(cells, colPeriodEnd)); err == nil {
		row.Report.PeriodEnd = d
	}

	row.Snapshot.MonthlyIncome = parseNumber(safeGet(cells, colIncome))
	row.Snapshot.MonthlyExpenses = parseNumber(safeGet(cells, colExpenses))
	row.Snapshot.MonthlySavings = parseNumber(safeGet(cells, colSavings))
	return row, nil
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

// parseNumber accepts sheet-rendered numbers such as "1,250.50". Anything
// else is 0.
func parseNumber(s string) float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return core.SafeAmount(v)
}
