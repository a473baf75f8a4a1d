package backend

import (
	"context"
	"time"

	"finlytics/internal/amqp"
	"finlytics/internal/format"
	"finlytics/internal/services"
	"finlytics/internal/sheets"
	"finlytics/internal/storage"
)

// CleanupFunc releases whatever a Backend opened.
type CleanupFunc func() error

// Backend is the wired application: the store, the optional messaging
// client and report exporter, and the services built on them.
type Backend struct {
	Storage   *storage.SQLiteRepository
	AMQP      *amqp.Client
	Exporter  sheets.ReportExporter
	Formatter *format.Formatter

	Ledger   *services.LedgerService
	Insights *services.InsightsService
	Reports  *services.ReportService
	Renewals *services.RenewalProcessor

	Cleanup CleanupFunc
}

// Factory builds a Backend from configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Backend, error)
}

type Config struct {
	DBPath string

	// AMQP is optional; with an empty URL writes are not announced and
	// reports are generated inline.
	AMQPURL         string
	AMQPExchange    string
	AMQPLedgerQueue string
	AMQPReportQueue string

	Locale       string
	CurrencyCode string

	DueSoonDays          int
	CategoryLookbackDays int
	RenewalInterval      time.Duration

	Exporter ExporterType

	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
}

// ExporterType selects where generated reports are written.
type ExporterType string

const (
	NoExporter     ExporterType = "none"
	MemoryExporter ExporterType = "memory"
	SheetsExporter ExporterType = "sheets"
)

func (t ExporterType) String() string {
	return string(t)
}

func (t ExporterType) IsValid() bool {
	switch t {
	case NoExporter, MemoryExporter, SheetsExporter:
		return true
	default:
		return false
	}
}
