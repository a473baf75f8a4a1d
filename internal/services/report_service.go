package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"finlytics/internal/amqp"
	"finlytics/internal/core"
	"finlytics/internal/format"
	"finlytics/internal/sheets"
	"finlytics/internal/storage"
)

// ReportsView is the report history with its headline metrics.
type ReportsView struct {
	Metrics core.ReportMetrics `json:"metrics"`
	Reports []core.Report      `json:"reports"`
}

// ReportService generates monthly snapshot reports and keeps their history.
// Requests are queued over AMQP when a client is configured and generated
// inline otherwise.
type ReportService struct {
	storage    *storage.SQLiteRepository
	insights   *InsightsService
	formatter  *format.Formatter
	exporter   sheets.ReportExporter
	amqpClient *amqp.Client
	queue      string
	now        func() time.Time
}

func NewReportService(
	storage *storage.SQLiteRepository,
	insights *InsightsService,
	formatter *format.Formatter,
	exporter sheets.ReportExporter,
	amqpClient *amqp.Client,
	queue string,
) *ReportService {
	if formatter == nil {
		formatter = format.Default()
	}
	return &ReportService{
		storage:    storage,
		insights:   insights,
		formatter:  formatter,
		exporter:   exporter,
		amqpClient: amqpClient,
		queue:      queue,
		now:        time.Now,
	}
}

// List returns the visible history, newest first.
func (s *ReportService) List(ctx context.Context) ([]core.Report, error) {
	reports, err := s.storage.ListReports(ctx, core.ReportHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// Metrics reads year-to-date totals, the last six months of expenses and
// the report history concurrently.
func (s *ReportService) Metrics(ctx context.Context) (ReportsView, error) {
	now := s.now()
	yearStart := core.NewDate(now.Year(), 1, 1)
	nextYear := core.NewDate(now.Year()+1, 1, 1)
	seriesStart, seriesEnd := core.SeriesRange(core.HistoryMonths, now)

	var (
		ytd     core.MonthTotals
		periods []core.PeriodTotals
		reports []core.Report
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ytd, err = s.storage.MonthTotals(gctx, yearStart, nextYear)
		return err
	})
	g.Go(func() error {
		var err error
		periods, err = s.storage.PeriodTotals(gctx, seriesStart, seriesEnd)
		return err
	})
	g.Go(func() error {
		var err error
		reports, err = s.storage.ListReports(gctx, core.ReportHistoryLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return ReportsView{}, fmt.Errorf("compute report metrics: %w", err)
	}

	return ReportsView{
		Metrics: core.ComputeReportMetrics(periods, ytd, reports, now),
		Reports: reports,
	}, nil
}

// Request queues a report when AMQP is available and reports queued=true.
// Without a client, or when publishing fails, the report is generated
// inline and returned.
func (s *ReportService) Request(ctx context.Context, export bool) (report *core.Report, queued bool, err error) {
	now := s.now()
	if s.amqpClient != nil {
		msg := amqp.NewReportRequestMessage(now, export)
		err := s.amqpClient.PublishReportRequest(ctx, s.queue, msg)
		if err == nil {
			return nil, true, nil
		}
		slog.WarnContext(ctx, "Failed to queue report request, generating inline", "error", err)
	}

	r, err := s.Generate(ctx, now, export)
	if err != nil && r.ID == 0 {
		return nil, false, err
	}
	if err != nil {
		slog.WarnContext(ctx, "Report saved but export failed", "report_id", r.ID, "error", err)
	}
	return &r, false, nil
}

// Generate stores a monthly snapshot report as of now. With export set and
// an exporter configured the report is also written out; export failures
// are returned after the report is saved.
func (s *ReportService) Generate(ctx context.Context, now time.Time, export bool) (core.Report, error) {
	snap, err := s.insights.SnapshotAt(ctx, now)
	if err != nil {
		return core.Report{}, fmt.Errorf("generate report: %w", err)
	}

	report := core.NewMonthlySnapshotReport(now, s.formatter.MonthLabel(now))
	report.Summary = s.summary(snap)

	saved, err := s.storage.CreateReport(ctx, report)
	if err != nil {
		return core.Report{}, fmt.Errorf("save report: %w", err)
	}

	if export {
		if err := s.Export(ctx, saved, snap); err != nil {
			return saved, err
		}
	}
	return saved, nil
}

// Export writes one report through the configured exporter. It is a no-op
// without an exporter.
func (s *ReportService) Export(ctx context.Context, r core.Report, snap core.FinancialSnapshot) error {
	if s.exporter == nil {
		slog.WarnContext(ctx, "No report exporter configured, skipping export", "report_id", r.ID)
		return nil
	}

	ref, err := s.exporter.ExportReport(ctx, sheets.ReportRow{
		Report:   r,
		Snapshot: snap,
		Currency: s.formatter.Currency(),
	})
	if err != nil {
		return fmt.Errorf("export report %d: %w", r.ID, err)
	}

	slog.InfoContext(ctx, "Report exported", "report_id", r.ID, "ref", ref)
	return nil
}

func (s *ReportService) summary(snap core.FinancialSnapshot) string {
	return fmt.Sprintf("%s Income %s, expenses %s, savings %s.",
		core.MonthlySnapshotSummary,
		s.formatter.Money(snap.MonthlyIncome),
		s.formatter.Money(snap.MonthlyExpenses),
		s.formatter.Money(snap.MonthlySavings))
}
