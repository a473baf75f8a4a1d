package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finlytics/internal/amqp"
	"finlytics/internal/format"
	"finlytics/internal/services"
	"finlytics/internal/sheets"
	gsheet "finlytics/internal/sheets/google"
	"finlytics/internal/sheets/memory"
	"finlytics/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateBackend opens the store, connects AMQP when configured, picks the
// report exporter and wires the services. A failing AMQP connection is
// logged and the backend continues without it.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*Backend, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	formatter, err := format.New(format.FormattingConfig{
		Locale:       config.Locale,
		CurrencyCode: config.CurrencyCode,
	})
	if err != nil {
		return nil, fmt.Errorf("create formatter: %w", err)
	}

	repo, err := storage.NewSQLiteRepository(config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	exporter, err := f.createExporter(ctx, config)
	if err != nil {
		repo.Close()
		return nil, err
	}

	amqpClient := f.createAMQPClient(config)

	insights := services.NewInsightsService(repo, services.InsightsConfig{
		CategoryLookbackDays: config.CategoryLookbackDays,
		DueSoonDays:          config.DueSoonDays,
	})

	b := &Backend{
		Storage:   repo,
		AMQP:      amqpClient,
		Exporter:  exporter,
		Formatter: formatter,
		Ledger:    services.NewLedgerService(repo, amqpClient, config.AMQPLedgerQueue),
		Insights:  insights,
		Reports:   services.NewReportService(repo, insights, formatter, exporter, amqpClient, config.AMQPReportQueue),
		Renewals:  services.NewRenewalProcessor(repo, amqpClient, config.AMQPLedgerQueue, config.RenewalInterval),
	}
	b.Cleanup = func() error {
		var errs []error
		if b.AMQP != nil {
			if err := b.AMQP.Close(); err != nil {
				errs = append(errs, fmt.Errorf("amqp: %w", err))
			}
		}
		if err := repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
		return errors.Join(errs...)
	}

	f.logger.Info("Initialized backend",
		"db_path", config.DBPath,
		"amqp_enabled", b.AMQP != nil,
		"exporter", config.Exporter.String())

	return b, nil
}

func (f *DefaultFactory) createAMQPClient(config Config) *amqp.Client {
	if config.AMQPURL == "" {
		return nil
	}

	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPLedgerQueue, config.AMQPReportQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without messaging", "error", err)
		return nil
	}

	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"ledger_queue", config.AMQPLedgerQueue,
		"report_queue", config.AMQPReportQueue)
	return client
}

// createExporter returns a nil exporter for NoExporter, so report
// generation skips the export step.
func (f *DefaultFactory) createExporter(ctx context.Context, config Config) (sheets.ReportExporter, error) {
	switch config.Exporter {
	case NoExporter, "":
		return nil, nil
	case MemoryExporter:
		f.logger.Info("Using in-memory report exporter")
		return memory.New(), nil
	case SheetsExporter:
		cli, err := gsheet.New(ctx, gsheet.Config{
			SpreadsheetID:      config.GoogleSpreadsheetID,
			SheetName:          config.GoogleSheetName,
			ServiceAccountJSON: config.GoogleServiceAccountJSON,
			ServiceAccountFile: config.GoogleServiceAccountFile,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets exporter: %w", err)
		}
		f.logger.Info("Using Google Sheets report exporter", "sheet", config.GoogleSheetName)
		return cli, nil
	default:
		return nil, fmt.Errorf("unsupported report exporter: %s", config.Exporter)
	}
}
