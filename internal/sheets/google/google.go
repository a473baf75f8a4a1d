package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	ports "finlytics/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const defaultRowCacheTTL = 5 * time.Minute

var ErrNotInitialized = errors.New("sheets service not initialized")

// Config selects the spreadsheet and the service account used to write it.
// SheetName is a base name; the report year is prefixed, e.g.
// "2024 Reports".
type Config struct {
	SpreadsheetID      string
	SheetName          string
	ServiceAccountJSON string
	ServiceAccountFile string
}

// Client appends report rows to a yearly sheet and reads them back.
type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetBase     string

	// The next free row per sheet is cached so consecutive exports skip the
	// column read.
	mu                 sync.Mutex
	cachedSheet        string
	cachedRowCount     int
	cacheExpiresAt     time.Time
	cacheValidDuration time.Duration
}

var (
	_ ports.ReportExporter = (*Client)(nil)
	_ ports.ReportLister   = (*Client)(nil)
)

func New(ctx context.Context, cfg Config) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	base := strings.TrimSpace(cfg.SheetName)
	if base == "" {
		base = "Reports"
	}

	svc, err := newSheetsService(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:                svc,
		spreadsheetID:      spreadsheetID,
		sheetBase:          base,
		cacheValidDuration: defaultRowCacheTTL,
	}, nil
}

// newSheetsService authenticates with service account credentials, inline
// JSON first and then a key file.
func newSheetsService(ctx context.Context, cfg Config) (*gsheet.Service, error) {
	var (
		credentialsJSON []byte
		err             error
	)

	switch {
	case strings.TrimSpace(cfg.ServiceAccountJSON) != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		credentialsJSON = []byte(cfg.ServiceAccountJSON)
	case strings.TrimSpace(cfg.ServiceAccountFile) != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", cfg.ServiceAccountFile)
		credentialsJSON, err = os.ReadFile(cfg.ServiceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created successfully")
	return service, nil
}

// ExportReport writes row on the first empty line of the report year's
// sheet and returns its A1 range.
func (c *Client) ExportReport(ctx context.Context, row ports.ReportRow) (string, error) {
	if c.svc == nil {
		return "", ErrNotInitialized
	}

	sheet := yearPrefixedName(c.sheetBase, reportYear(row))
	nextRow, err := c.nextRow(ctx, sheet)
	if err != nil {
		return "", err
	}

	rng := fmt.Sprintf("%s!A%d:%s%d", sheet, nextRow, lastColumn, nextRow)
	vr := &gsheet.ValueRange{Values: [][]any{rowValues(row)}}

	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		c.invalidate()
		return "", fmt.Errorf("failed to update %s: %w", rng, err)
	}

	c.mu.Lock()
	c.cachedSheet = sheet
	c.cachedRowCount = nextRow
	c.cacheExpiresAt = time.Now().Add(c.cacheValidDuration)
	c.mu.Unlock()

	return rng, nil
}

// nextRow returns the first empty row of sheet, reading column A only when
// the cache is stale or belongs to another sheet.
func (c *Client) nextRow(ctx context.Context, sheet string) (int, error) {
	c.mu.Lock()
	if c.cachedSheet == sheet && time.Now().Before(c.cacheExpiresAt) {
		n := c.cachedRowCount + 1
		c.mu.Unlock()
		return n, nil
	}
	c.mu.Unlock()

	rng := fmt.Sprintf("%s!A:A", sheet)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to get sheet dimensions for %s: %w", sheet, err)
	}
	return len(resp.Values) + 1, nil
}

func (c *Client) invalidate() {
	c.mu.Lock()
	c.cacheExpiresAt = time.Time{}
	c.mu.Unlock()
}

// ListReports reads every exported row of year's sheet, skipping the header
// and rows that do not parse.
func (c *Client) ListReports(ctx context.Context, year int) ([]ports.ReportRow, error) {
	if c.svc == nil {
		return nil, ErrNotInitialized
	}

	rng := fmt.Sprintf("%s!A2:%s", yearPrefixedName(c.sheetBase, year), lastColumn)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}

	out := make([]ports.ReportRow, 0, len(resp.Values))
	for i, values := range resp.Values {
		row, err := parseReportRow(toStrings(values))
		if err != nil {
			slog.WarnContext(ctx, "Skipping unparsable report row", "row", i+2, "error", err)
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func reportYear(row ports.ReportRow) int {
	if !row.Report.GeneratedAt.IsZero() {
		return row.Report.GeneratedAt.Year()
	}
	return time.Now().Year()
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

// yearPrefixedName returns "<year> <base>" unless base already starts with a 4-digit year.
func yearPrefixedName(base string, year int) string {
	base = strings.TrimSpace(base)
	if base == "" {
		return base
	}
	if len(base) >= 5 {
		if y, err := strconv.Atoi(base[0:4]); err == nil && base[4] == ' ' && y > 1900 && y < 3000 {
			return base
		}
	}
	return fmt.Sprintf("%d %s", year, base)
}
