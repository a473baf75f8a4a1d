package google

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	ports "finlytics/internal/sheets"
)

func TestNew_MissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), Config{ServiceAccountJSON: "{}"})
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Errorf("New() error = %v, want missing GOOGLE_SPREADSHEET_ID", err)
	}
}

func TestNew_MissingCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "sheet-id"})
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Errorf("New() error = %v, want missing credentials", err)
	}
}

func TestNew_UnreadableCredentialsFile(t *testing.T) {
	_, err := New(context.Background(), Config{SpreadsheetID: "sheet-id", ServiceAccountFile: "/nonexistent/key.json"})
	if err == nil || !strings.Contains(err.Error(), "read service account file") {
		t.Errorf("New() error = %v, want read failure", err)
	}
}

func TestClient_NotInitialized(t *testing.T) {
	c := &Client{sheetBase: "Reports"}

	if _, err := c.ExportReport(context.Background(), ports.ReportRow{}); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ExportReport() error = %v, want %v", err, ErrNotInitialized)
	}
	if _, err := c.ListReports(context.Background(), 2024); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("ListReports() error = %v, want %v", err, ErrNotInitialized)
	}
}

func TestYearPrefixedName(t *testing.T) {
	tests := []struct {
		base string
		year int
		want string
	}{
		{"Reports", 2024, "2024 Reports"},
		{"  Reports ", 2025, "2025 Reports"},
		{"2023 Reports", 2024, "2023 Reports"},
		{"1800 Reports", 2024, "2024 1800 Reports"},
		{"", 2024, ""},
	}

	for _, tt := range tests {
		if got := yearPrefixedName(tt.base, tt.year); got != tt.want {
			t.Errorf("yearPrefixedName(%q, %d) = %q, want %q", tt.base, tt.year, got, tt.want)
		}
	}
}

func TestRowCacheExpiration(t *testing.T) {
	c := &Client{cacheValidDuration: 100 * time.Millisecond}

	n, err := func() (int, error) {
		c.mu.Lock()
		c.cachedSheet = "2024 Reports"
		c.cachedRowCount = 10
		c.cacheExpiresAt = time.Now().Add(c.cacheValidDuration)
		c.mu.Unlock()
		return c.nextRow(context.Background(), "2024 Reports")
	}()
	if err != nil || n != 11 {
		t.Errorf("nextRow() with warm cache = %d, %v, want 11, nil", n, err)
	}

	c.invalidate()
	c.mu.Lock()
	valid := time.Now().Before(c.cacheExpiresAt)
	c.mu.Unlock()
	if valid {
		t.Error("invalidate() should expire the cache")
	}
}
