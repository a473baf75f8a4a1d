package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"finlytics/internal/sheets"
)

var ErrEmptyTitle = errors.New("report title is required")

// Store keeps exported reports in process. It backs tests and the "memory"
// exporter setting.
type Store struct {
	mu   sync.Mutex
	rows []sheets.ReportRow
}

func New() *Store {
	return &Store{}
}

// ExportReport stores the row and returns a synthetic row reference.
func (s *Store) ExportReport(_ context.Context, row sheets.ReportRow) (string, error) {
	if row.Report.Title == "" {
		return "", ErrEmptyTitle
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// ListReports returns rows generated in year, in export order.
func (s *Store) ListReports(_ context.Context, year int) ([]sheets.ReportRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sheets.ReportRow, 0, len(s.rows))
	for _, r := range s.rows {
		if r.Report.GeneratedAt.Year() == year {
			out = append(out, r)
		}
	}
	return out, nil
}

// Len reports how many rows have been exported.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}
