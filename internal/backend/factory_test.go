package backend

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"finlytics/internal/config"
	"finlytics/internal/sheets/memory"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("FromAppConfig(nil) should fail")
	}

	app := &config.Config{DBPath: "data/x.sqlite", ReportExporter: "ftp"}
	if _, err := FromAppConfig(app); err == nil {
		t.Error("FromAppConfig() with unknown exporter should fail")
	}

	app.ReportExporter = ""
	cfg, err := FromAppConfig(app)
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Exporter != NoExporter || cfg.DBPath != "data/x.sqlite" {
		t.Errorf("FromAppConfig() = %+v", cfg)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"valid none", Config{DBPath: "x.db", Exporter: NoExporter}, ""},
		{"missing path", Config{Exporter: NoExporter}, "database path"},
		{"unknown exporter", Config{DBPath: "x.db", Exporter: "ftp"}, "invalid report exporter"},
		{"sheets without id", Config{DBPath: "x.db", Exporter: SheetsExporter}, "Spreadsheet ID"},
		{"sheets without credentials", Config{DBPath: "x.db", Exporter: SheetsExporter, GoogleSpreadsheetID: "abc"}, "GoogleServiceAccountJSON"},
		{"sheets", Config{DBPath: "x.db", Exporter: SheetsExporter, GoogleSpreadsheetID: "abc", GoogleServiceAccountFile: "sa.json"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestExporterType(t *testing.T) {
	for _, et := range GetExporterTypes() {
		if !et.IsValid() {
			t.Errorf("%s.IsValid() = false", et)
		}
	}
	if ExporterType("ftp").IsValid() {
		t.Error("ftp.IsValid() = true")
	}
}

func TestCreateBackend_Memory(t *testing.T) {
	f := NewFactory(nil)
	b, err := f.CreateBackend(context.Background(), Config{
		DBPath:          filepath.Join(t.TempDir(), "nested", "finlytics.sqlite"),
		Locale:          "en-US",
		CurrencyCode:    "USD",
		Exporter:        MemoryExporter,
		RenewalInterval: time.Hour,
	})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer func() {
		if err := b.Cleanup(); err != nil {
			t.Errorf("Cleanup() error = %v", err)
		}
	}()

	if b.AMQP != nil {
		t.Error("AMQP client should be nil without a URL")
	}
	if _, ok := b.Exporter.(*memory.Store); !ok {
		t.Errorf("Exporter = %T, want *memory.Store", b.Exporter)
	}
	if b.Ledger == nil || b.Insights == nil || b.Reports == nil || b.Renewals == nil {
		t.Fatal("services should all be wired")
	}

	r, queued, err := b.Reports.Request(context.Background(), true)
	if err != nil || queued || r == nil {
		t.Fatalf("Request() = %v, %v, %v", r, queued, err)
	}
	if b.Exporter.(*memory.Store).Len() != 1 {
		t.Error("report should have been exported to memory")
	}
}

func TestCreateBackend_Errors(t *testing.T) {
	f := NewFactory(nil)
	dir := t.TempDir()

	if _, err := f.CreateBackend(context.Background(), Config{DBPath: filepath.Join(dir, "a.sqlite"), Exporter: NoExporter, CurrencyCode: "XX"}); err == nil {
		t.Error("CreateBackend() with bad currency should fail")
	}
	if _, err := f.CreateBackend(context.Background(), Config{Exporter: NoExporter}); err == nil {
		t.Error("CreateBackend() without a path should fail")
	}
}
