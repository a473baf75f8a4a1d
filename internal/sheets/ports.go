package sheets

import (
	"context"

	"finlytics/internal/core"
)

// Ports for outbound adapters.
type (
	// ReportRow is one exported report: the history entry plus the snapshot
	// figures it summarizes.
	ReportRow struct {
		Report   core.Report
		Snapshot core.FinancialSnapshot
		Currency string
	}

	ReportExporter interface {
		ExportReport(ctx context.Context, row ReportRow) (rowRef string, err error)
	}

	// ReportLister reads back exported rows for a year.
	ReportLister interface {
		ListReports(ctx context.Context, year int) ([]ReportRow, error)
	}
)
