package backend

import (
	"fmt"

	"finlytics/internal/config"
)

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	exporter := ExporterType(appConfig.ReportExporter)
	if exporter == "" {
		exporter = NoExporter
	}
	if !exporter.IsValid() {
		return Config{}, fmt.Errorf("invalid report exporter in config: %s", appConfig.ReportExporter)
	}

	return Config{
		DBPath: appConfig.DBPath,

		AMQPURL:         appConfig.AMQPURL,
		AMQPExchange:    appConfig.AMQPExchange,
		AMQPLedgerQueue: appConfig.AMQPLedgerQueue,
		AMQPReportQueue: appConfig.AMQPReportQueue,

		Locale:       appConfig.Locale,
		CurrencyCode: appConfig.CurrencyCode,

		DueSoonDays:          appConfig.DueSoonDays,
		CategoryLookbackDays: appConfig.CategoryLookbackDays,
		RenewalInterval:      appConfig.RenewalInterval,

		Exporter: exporter,

		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleSheetName:          appConfig.GoogleSheetName,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("SQLite database path is required")
	}
	if !c.Exporter.IsValid() {
		return fmt.Errorf("invalid report exporter: %s", c.Exporter)
	}

	if c.Exporter == SheetsExporter {
		if c.GoogleSpreadsheetID == "" {
			return fmt.Errorf("Google Spreadsheet ID is required for the sheets exporter")
		}
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" {
			return fmt.Errorf("either GoogleServiceAccountJSON or GoogleServiceAccountFile must be provided for the sheets exporter")
		}
	}

	return nil
}

// GetExporterTypes returns all valid exporter types
func GetExporterTypes() []ExporterType {
	return []ExporterType{NoExporter, MemoryExporter, SheetsExporter}
}
