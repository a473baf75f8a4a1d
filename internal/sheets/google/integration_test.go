//go:build integration

package google

import (
	"context"
	"os"
	"testing"
	"time"

	"finlytics/internal/core"
	ports "finlytics/internal/sheets"
)

// Integration tests require real Google Sheets credentials
// Run with: go test -tags=integration ./internal/sheets/google

func TestIntegration_ExportAndList(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	cfg := Config{
		SpreadsheetID:      os.Getenv("GOOGLE_SPREADSHEET_ID"),
		SheetName:          os.Getenv("GOOGLE_SHEET_NAME"),
		ServiceAccountJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		ServiceAccountFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
	}
	if cfg.SpreadsheetID == "" {
		t.Skip("GOOGLE_SPREADSHEET_ID not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := New(ctx, cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	report := core.NewMonthlySnapshotReport(now, now.Format("Jan 2006"))
	report.Title += " [integration]"

	ref, err := client.ExportReport(ctx, ports.ReportRow{Report: report, Currency: "INR"})
	if err != nil {
		t.Fatalf("ExportReport() error = %v", err)
	}
	t.Logf("exported to %s", ref)

	rows, err := client.ListReports(ctx, now.Year())
	if err != nil {
		t.Fatalf("ListReports() error = %v", err)
	}
	for _, r := range rows {
		if r.Report.Title == report.Title && r.Report.GeneratedAt.Equal(now) {
			return
		}
	}
	t.Errorf("ListReports() did not return the exported row %q", report.Title)
}
