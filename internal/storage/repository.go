package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"finlytics/internal/core"

	_ "modernc.org/sqlite"
)

const timestampLayout = time.RFC3339

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping backs the readiness probe.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Snapshot writes a consistent copy of the live database to path, which
// must not exist yet.
func (r *SQLiteRepository) Snapshot(ctx context.Context, path string) error {
	if _, err := r.db.ExecContext(ctx, "VACUUM INTO ?", path); err != nil {
		return fmt.Errorf("snapshot database: %w", err)
	}
	return nil
}

// Transactions

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	row, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		Title:      t.Title,
		Category:   t.Category,
		Type:       string(t.Type),
		Amount:     t.Amount,
		OccurredAt: t.OccurredAt.String(),
		Notes:      t.Notes,
		CreatedAt:  timestamp(t.CreatedAt),
	})
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", row.ID,
		"type", row.Type,
		"amount", row.Amount,
		"category", row.Category)

	return toTransaction(row)
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return toTransaction(row)
}

// ListTransactions returns the newest limit transactions.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		t, err := toTransaction(row)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteTransaction(ctx, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

// Aggregates

// MonthTotals sums income and expense transactions in [start, end).
func (r *SQLiteRepository) MonthTotals(ctx context.Context, start, end core.Date) (core.MonthTotals, error) {
	row, err := r.queries.GetMonthTotals(ctx, start.String(), end.String())
	if err != nil {
		return core.MonthTotals{}, fmt.Errorf("get month totals: %w", err)
	}
	return core.MonthTotals{Income: row.Income, Expenses: row.Expense}, nil
}

// PeriodTotals groups transactions in [start, end) by calendar month.
func (r *SQLiteRepository) PeriodTotals(ctx context.Context, start, end core.Date) ([]core.PeriodTotals, error) {
	rows, err := r.queries.ListPeriodTotals(ctx, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("list period totals: %w", err)
	}

	out := make([]core.PeriodTotals, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.PeriodTotals{Period: row.Period, Income: row.Income, Expense: row.Expense})
	}
	return out, nil
}

// CategoryTotals sums expenses in [start, end) by category.
func (r *SQLiteRepository) CategoryTotals(ctx context.Context, start, end core.Date) ([]core.CategoryAmount, error) {
	rows, err := r.queries.ListCategoryTotals(ctx, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("list category totals: %w", err)
	}

	out := make([]core.CategoryAmount, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.CategoryAmount{Name: row.Category, Amount: row.Total})
	}
	return out, nil
}

func (r *SQLiteRepository) CategoryPeriodTotals(ctx context.Context, start, end core.Date) ([]core.CategoryPeriodTotal, error) {
	rows, err := r.queries.ListCategoryPeriodTotals(ctx, start.String(), end.String())
	if err != nil {
		return nil, fmt.Errorf("list category period totals: %w", err)
	}

	out := make([]core.CategoryPeriodTotal, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.CategoryPeriodTotal{Category: row.Category, Period: row.Period, Total: row.Total})
	}
	return out, nil
}

// Subscriptions

func (r *SQLiteRepository) CreateSubscription(ctx context.Context, s core.Subscription) (core.Subscription, error) {
	row, err := r.queries.CreateSubscription(ctx, CreateSubscriptionParams{
		Name:            s.Name,
		Category:        s.Category,
		Amount:          s.Amount,
		BillingCycle:    string(s.BillingCycle),
		NextBillingDate: s.NextBillingDate.String(),
		Notes:           s.Notes,
		CreatedAt:       timestamp(s.CreatedAt),
	})
	if err != nil {
		return core.Subscription{}, fmt.Errorf("create subscription: %w", err)
	}

	slog.InfoContext(ctx, "Subscription saved to SQLite",
		"id", row.ID,
		"name", row.Name,
		"amount", row.Amount,
		"billing_cycle", row.BillingCycle)

	return toSubscription(row)
}

func (r *SQLiteRepository) ListSubscriptions(ctx context.Context) ([]core.Subscription, error) {
	rows, err := r.queries.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return toSubscriptions(rows)
}

// ListSubscriptionsDueBefore returns subscriptions whose next billing date is
// strictly before date.
func (r *SQLiteRepository) ListSubscriptionsDueBefore(ctx context.Context, date core.Date) ([]core.Subscription, error) {
	rows, err := r.queries.ListSubscriptionsDueBefore(ctx, date.String())
	if err != nil {
		return nil, fmt.Errorf("list subscriptions due before %s: %w", date, err)
	}
	return toSubscriptions(rows)
}

func (r *SQLiteRepository) UpdateNextBillingDate(ctx context.Context, id int64, date core.Date) error {
	n, err := r.queries.UpdateSubscriptionNextBilling(ctx, id, date.String())
	if err != nil {
		return fmt.Errorf("update subscription %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	slog.InfoContext(ctx, "Subscription renewed", "id", id, "next_billing_date", date.String())
	return nil
}

func (r *SQLiteRepository) DeleteSubscription(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteSubscription(ctx, id)
	if err != nil {
		return fmt.Errorf("delete subscription %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	slog.InfoContext(ctx, "Subscription deleted", "id", id)
	return nil
}

// Profile

// GetProfile returns ErrNotFound until a profile has been saved.
func (r *SQLiteRepository) GetProfile(ctx context.Context) (core.UserProfile, error) {
	row, err := r.queries.GetProfile(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return core.UserProfile{}, ErrNotFound
	}
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("get profile: %w", err)
	}
	return toProfile(row)
}

// ReplaceProfile swaps the single stored profile for p in one transaction.
func (r *SQLiteRepository) ReplaceProfile(ctx context.Context, p core.UserProfile) (core.UserProfile, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if err := q.DeleteProfiles(ctx); err != nil {
		return core.UserProfile{}, fmt.Errorf("delete profiles: %w", err)
	}
	row, err := q.InsertProfile(ctx, InsertProfileParams{
		FullName:      p.FullName,
		DateOfBirth:   p.DateOfBirth.String(),
		MonthlyIncome: p.MonthlyIncome,
		CreatedAt:     timestamp(p.CreatedAt),
	})
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("insert profile: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return core.UserProfile{}, fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "Profile saved to SQLite", "id", row.ID, "monthly_income", row.MonthlyIncome)
	return toProfile(row)
}

// Saving plans

func (r *SQLiteRepository) CreateSavingPlan(ctx context.Context, p core.SavingPlan) (core.SavingPlan, error) {
	row, err := r.queries.CreateSavingPlan(ctx, CreateSavingPlanParams{
		Title:        p.Title,
		Category:     p.Category,
		TargetAmount: p.TargetAmount,
		SavedAmount:  p.SavedAmount,
		Note:         p.Note,
		CreatedAt:    timestamp(p.CreatedAt),
	})
	if err != nil {
		return core.SavingPlan{}, fmt.Errorf("create saving plan: %w", err)
	}

	slog.InfoContext(ctx, "Saving plan saved to SQLite",
		"id", row.ID,
		"title", row.Title,
		"target_amount", row.TargetAmount)

	return toSavingPlan(row), nil
}

func (r *SQLiteRepository) ListSavingPlans(ctx context.Context) ([]core.SavingPlan, error) {
	rows, err := r.queries.ListSavingPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("list saving plans: %w", err)
	}

	out := make([]core.SavingPlan, 0, len(rows))
	for _, row := range rows {
		out = append(out, toSavingPlan(row))
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteSavingPlan(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteSavingPlan(ctx, id)
	if err != nil {
		return fmt.Errorf("delete saving plan %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	slog.InfoContext(ctx, "Saving plan deleted", "id", id)
	return nil
}

// Reports

func (r *SQLiteRepository) CreateReport(ctx context.Context, rep core.Report) (core.Report, error) {
	row, err := r.queries.CreateReport(ctx, CreateReportParams{
		Title:       rep.Title,
		ReportType:  rep.ReportType,
		FileFormat:  rep.FileFormat,
		PeriodStart: rep.PeriodStart.String(),
		PeriodEnd:   rep.PeriodEnd.String(),
		Summary:     rep.Summary,
		GeneratedAt: timestamp(rep.GeneratedAt),
	})
	if err != nil {
		return core.Report{}, fmt.Errorf("create report: %w", err)
	}

	slog.InfoContext(ctx, "Report saved to SQLite", "id", row.ID, "title", row.Title)
	return toReport(row), nil
}

// ListReports returns the newest limit reports.
func (r *SQLiteRepository) ListReports(ctx context.Context, limit int) ([]core.Report, error) {
	rows, err := r.queries.ListRecentReports(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}

	out := make([]core.Report, 0, len(rows))
	for _, row := range rows {
		out = append(out, toReport(row))
	}
	return out, nil
}

// Row mapping

func timestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// optionalDate maps NULL and unparsable text to the zero Date.
func optionalDate(s sql.NullString) core.Date {
	if !s.Valid {
		return core.Date{}
	}
	d, err := core.ParseDate(s.String)
	if err != nil {
		return core.Date{}
	}
	return d
}

func toTransaction(row Transaction) (core.Transaction, error) {
	occurred, err := core.ParseDate(row.OccurredAt)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d occurred_at: %w", row.ID, err)
	}
	return core.Transaction{
		ID:         row.ID,
		Title:      row.Title,
		Category:   row.Category,
		Type:       core.TransactionType(row.Type),
		Amount:     row.Amount,
		OccurredAt: occurred,
		Notes:      row.Notes.String,
		CreatedAt:  parseTimestamp(row.CreatedAt),
	}, nil
}

func toSubscription(row Subscription) (core.Subscription, error) {
	next, err := core.ParseDate(row.NextBillingDate)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("subscription %d next_billing_date: %w", row.ID, err)
	}
	cycle, ok := core.ParseBillingCycle(row.BillingCycle)
	if !ok {
		cycle = core.BillingCycle(row.BillingCycle)
	}
	return core.Subscription{
		ID:              row.ID,
		Name:            row.Name,
		Category:        row.Category,
		Amount:          row.Amount,
		BillingCycle:    cycle,
		NextBillingDate: next,
		Notes:           row.Notes.String,
		CreatedAt:       parseTimestamp(row.CreatedAt),
	}, nil
}

func toSubscriptions(rows []Subscription) ([]core.Subscription, error) {
	out := make([]core.Subscription, 0, len(rows))
	for _, row := range rows {
		s, err := toSubscription(row)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func toProfile(row UserProfile) (core.UserProfile, error) {
	dob, err := core.ParseDate(row.DateOfBirth)
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("profile date_of_birth: %w", err)
	}
	return core.UserProfile{
		ID:            row.ID,
		FullName:      row.FullName,
		DateOfBirth:   dob,
		MonthlyIncome: row.MonthlyIncome,
		CreatedAt:     parseTimestamp(row.CreatedAt),
	}, nil
}

func toSavingPlan(row SavingPlan) core.SavingPlan {
	return core.SavingPlan{
		ID:           row.ID,
		Title:        row.Title,
		Category:     row.Category,
		TargetAmount: row.TargetAmount,
		SavedAmount:  row.SavedAmount,
		Note:         row.Note.String,
		CreatedAt:    parseTimestamp(row.CreatedAt),
	}
}

func toReport(row ReportHistory) core.Report {
	return core.Report{
		ID:          row.ID,
		Title:       row.Title,
		ReportType:  row.ReportType,
		FileFormat:  row.FileFormat,
		PeriodStart: optionalDate(row.PeriodStart),
		PeriodEnd:   optionalDate(row.PeriodEnd),
		Summary:     row.Summary.String,
		GeneratedAt: parseTimestamp(row.GeneratedAt),
	}
}
