package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
)

const (
	ExporterNone   = "none"
	ExporterMemory = "memory"
	ExporterSheets = "sheets"
)

const defaultDBPath = "data/finlytics.sqlite"

type Config struct {
	// HTTP Server
	Port           string
	RequestTimeout time.Duration
	RateLimitRPM   int

	// Database
	DBPath string

	// AMQP
	AMQPURL         string
	AMQPExchange    string
	AMQPLedgerQueue string
	AMQPReportQueue string

	// Redis backs the shared rate limiter when set.
	RedisAddr string

	// Presentation
	Locale       string
	CurrencyCode string

	// Insights
	DueSoonDays          int
	CategoryLookbackDays int

	// Workers
	RenewalInterval time.Duration
	ReportExporter  string

	// Google Sheets report export
	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string

	LogLevel string
}

func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8081"),
		RequestTimeout: getEnvDuration("FINLYTICS_REQUEST_TIMEOUT", 15*time.Second),
		RateLimitRPM:   getEnvInt("FINLYTICS_RATE_LIMIT_PER_MINUTE", 60),

		DBPath: ResolveDBPath(os.Getenv),

		AMQPURL:         getEnv("AMQP_URL", ""),
		AMQPExchange:    getEnv("AMQP_EXCHANGE", "finlytics"),
		AMQPLedgerQueue: getEnv("AMQP_LEDGER_QUEUE", "ledger_changed"),
		AMQPReportQueue: getEnv("AMQP_REPORT_QUEUE", "report_requests"),

		RedisAddr: getEnv("FINLYTICS_REDIS_ADDR", ""),

		Locale:       getEnv("FINLYTICS_LOCALE", "en-IN"),
		CurrencyCode: getEnv("FINLYTICS_CURRENCY", "INR"),

		DueSoonDays:          getEnvInt("FINLYTICS_DUE_SOON_DAYS", 5),
		CategoryLookbackDays: getEnvInt("FINLYTICS_CATEGORY_LOOKBACK_DAYS", 30),

		RenewalInterval: getEnvDuration("FINLYTICS_RENEWAL_INTERVAL", time.Hour),
		ReportExporter:  getEnv("FINLYTICS_REPORT_EXPORTER", ExporterNone),

		GoogleSpreadsheetID:      getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:          getEnv("GOOGLE_SHEET_NAME", "Reports"),
		GoogleServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", getEnv("GOOGLE_APPLICATION_CREDENTIALS", "")),

		LogLevel: getEnv("FINLYTICS_LOG_LEVEL", "info"),
	}

	return cfg
}

// ResolveDBPath picks the database file from FINLYTICS_DB_PATH,
// FINLYTICS_DATABASE_URL or DATABASE_URL, in that order. "sqlite:" and
// "file:" prefixes are stripped.
func ResolveDBPath(getenv func(string) string) string {
	for _, key := range []string{"FINLYTICS_DB_PATH", "FINLYTICS_DATABASE_URL", "DATABASE_URL"} {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			continue
		}
		v = strings.TrimPrefix(v, "sqlite:")
		v = strings.TrimPrefix(v, "file:")
		v = strings.TrimPrefix(v, "//")
		if v != "" {
			return v
		}
	}
	return defaultDBPath
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	} else if dir := filepath.Dir(c.DBPath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errors = append(errors, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
			}
		}
	}

	// AMQP is optional
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPLedgerQueue == "" || c.AMQPReportQueue == "" {
			errors = append(errors, "AMQP queue names cannot be empty when AMQP URL is provided")
		}
	}

	if _, err := language.Parse(c.Locale); err != nil {
		errors = append(errors, fmt.Sprintf("invalid locale '%s': %v", c.Locale, err))
	}
	if _, err := currency.ParseISO(c.CurrencyCode); err != nil {
		errors = append(errors, fmt.Sprintf("invalid currency '%s': %v", c.CurrencyCode, err))
	}

	if c.DueSoonDays < 1 || c.DueSoonDays > 90 {
		errors = append(errors, fmt.Sprintf("invalid due soon days %d: must be between 1 and 90", c.DueSoonDays))
	}
	if c.CategoryLookbackDays < 1 || c.CategoryLookbackDays > 366 {
		errors = append(errors, fmt.Sprintf("invalid category lookback %d: must be between 1 and 366 days", c.CategoryLookbackDays))
	}
	if c.RateLimitRPM < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitRPM))
	}
	if c.RequestTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid request timeout %v: must be at least 1 second", c.RequestTimeout))
	}

	if c.RenewalInterval < time.Second {
		errors = append(errors, fmt.Sprintf("invalid renewal interval %v: must be at least 1 second", c.RenewalInterval))
	} else if c.RenewalInterval > 24*time.Hour {
		errors = append(errors, fmt.Sprintf("invalid renewal interval %v: must be at most 24 hours", c.RenewalInterval))
	}

	exporters := []string{ExporterNone, ExporterMemory, ExporterSheets}
	if !slices.Contains(exporters, c.ReportExporter) {
		errors = append(errors, fmt.Sprintf("invalid report exporter '%s': must be one of %v", c.ReportExporter, exporters))
	}
	if c.ReportExporter == ExporterSheets {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using the sheets exporter")
		}
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when using the sheets exporter")
		}
		if c.GoogleServiceAccountJSON == "" && c.GoogleServiceAccountFile == "" {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided for the sheets exporter")
		} else if c.GoogleServiceAccountFile != "" && c.GoogleServiceAccountJSON == "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be debug, info, warn or error", c.LogLevel))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
