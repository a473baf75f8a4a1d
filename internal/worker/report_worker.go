package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finlytics/internal/amqp"
	"finlytics/internal/cache"
	"finlytics/internal/core"
)

const (
	// seenTTL bounds how long a message ID is remembered for de-duplication.
	seenTTL  = 24 * time.Hour
	seenSize = 1024
)

// ReportGenerator is the part of services.ReportService the worker needs.
type ReportGenerator interface {
	Generate(ctx context.Context, now time.Time, export bool) (core.Report, error)
}

// ReportWorker turns queued report requests into stored reports. Each
// message ID is handled at most once while it stays in the seen cache.
type ReportWorker struct {
	reports ReportGenerator
	seen    *cache.LRUCache[time.Time]
	now     func() time.Time
}

func NewReportWorker(reports ReportGenerator) *ReportWorker {
	return &ReportWorker{
		reports: reports,
		seen:    cache.NewLRUCache[time.Time](seenSize, seenTTL),
		now:     time.Now,
	}
}

// Seen exposes the de-duplication cache so it can be swept by a
// cache.Manager.
func (w *ReportWorker) Seen() cache.Cleaner {
	return w.seen
}

// HandleReportRequest generates the requested report. A redelivered message
// is acknowledged without generating again. When generation fails before
// the report is stored the ID is released so the broker can retry; a failed
// export after storing is logged and not retried.
func (w *ReportWorker) HandleReportRequest(ctx context.Context, msg *amqp.ReportRequestMessage) error {
	if !w.seen.SetIfAbsent(msg.MessageID, w.now()) {
		slog.InfoContext(ctx, "Skipping duplicate report request", "message_id", msg.MessageID)
		return nil
	}

	slog.InfoContext(ctx, "Processing report request",
		"message_id", msg.MessageID,
		"requested_at", msg.RequestedAt,
		"export", msg.Export)

	asOf := msg.RequestedAt
	if asOf.IsZero() {
		asOf = w.now()
	}

	report, err := w.reports.Generate(ctx, asOf, msg.Export)
	if err != nil && report.ID == 0 {
		w.seen.Delete(msg.MessageID)
		return fmt.Errorf("generate report: %w", err)
	}
	if err != nil {
		slog.ErrorContext(ctx, "Report stored but export failed",
			"message_id", msg.MessageID,
			"report_id", report.ID,
			"error", err)
		return nil
	}

	slog.InfoContext(ctx, "Report generated",
		"message_id", msg.MessageID,
		"report_id", report.ID,
		"title", report.Title)
	return nil
}
