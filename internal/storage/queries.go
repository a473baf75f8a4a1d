package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Transactions

const createTransaction = `
INSERT INTO "transaction" (title, category, type, amount, occurred_at, notes, created_at)
VALUES (?, ?, ?, ?, ?, NULLIF(?, ''), ?)
RETURNING id, title, category, type, amount, occurred_at, notes, created_at`

type CreateTransactionParams struct {
	Title      string
	Category   string
	Type       string
	Amount     float64
	OccurredAt string
	Notes      string
	CreatedAt  string
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, createTransaction,
		arg.Title, arg.Category, arg.Type, arg.Amount, arg.OccurredAt, arg.Notes, arg.CreatedAt)
	var i Transaction
	err := row.Scan(&i.ID, &i.Title, &i.Category, &i.Type, &i.Amount, &i.OccurredAt, &i.Notes, &i.CreatedAt)
	return i, err
}

const getTransaction = `
SELECT id, title, category, type, amount, occurred_at, notes, created_at
FROM "transaction"
WHERE id = ?`

func (q *Queries) GetTransaction(ctx context.Context, id int64) (Transaction, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, id)
	var i Transaction
	err := row.Scan(&i.ID, &i.Title, &i.Category, &i.Type, &i.Amount, &i.OccurredAt, &i.Notes, &i.CreatedAt)
	return i, err
}

const listTransactions = `
SELECT id, title, category, type, amount, occurred_at, notes, created_at
FROM "transaction"
ORDER BY occurred_at DESC, created_at DESC, id DESC
LIMIT ?`

func (q *Queries) ListTransactions(ctx context.Context, limit int64) ([]Transaction, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Transaction
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(&i.ID, &i.Title, &i.Category, &i.Type, &i.Amount, &i.OccurredAt, &i.Notes, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteTransaction = `DELETE FROM "transaction" WHERE id = ?`

func (q *Queries) DeleteTransaction(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTransaction, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Aggregates. Bounds are half-open date ranges [start, end).

const getMonthTotals = `
SELECT CAST(COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0) AS REAL) AS income,
       CAST(COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0) AS REAL) AS expense
FROM "transaction"
WHERE occurred_at >= ? AND occurred_at < ?`

func (q *Queries) GetMonthTotals(ctx context.Context, start, end string) (MonthTotalsRow, error) {
	row := q.db.QueryRowContext(ctx, getMonthTotals, start, end)
	var i MonthTotalsRow
	err := row.Scan(&i.Income, &i.Expense)
	return i, err
}

const listPeriodTotals = `
SELECT strftime('%Y-%m', occurred_at) AS period,
       CAST(COALESCE(SUM(CASE WHEN type = 'income' THEN amount ELSE 0 END), 0) AS REAL) AS income,
       CAST(COALESCE(SUM(CASE WHEN type = 'expense' THEN amount ELSE 0 END), 0) AS REAL) AS expense
FROM "transaction"
WHERE occurred_at >= ? AND occurred_at < ?
GROUP BY period
ORDER BY period`

func (q *Queries) ListPeriodTotals(ctx context.Context, start, end string) ([]PeriodTotalsRow, error) {
	rows, err := q.db.QueryContext(ctx, listPeriodTotals, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PeriodTotalsRow
	for rows.Next() {
		var i PeriodTotalsRow
		if err := rows.Scan(&i.Period, &i.Income, &i.Expense); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listCategoryTotals = `
SELECT category, CAST(SUM(amount) AS REAL) AS total
FROM "transaction"
WHERE type = 'expense' AND occurred_at >= ? AND occurred_at < ?
GROUP BY category
ORDER BY total DESC, category`

func (q *Queries) ListCategoryTotals(ctx context.Context, start, end string) ([]CategoryTotalRow, error) {
	rows, err := q.db.QueryContext(ctx, listCategoryTotals, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CategoryTotalRow
	for rows.Next() {
		var i CategoryTotalRow
		if err := rows.Scan(&i.Category, &i.Total); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listCategoryPeriodTotals = `
SELECT category, strftime('%Y-%m', occurred_at) AS period, CAST(SUM(amount) AS REAL) AS total
FROM "transaction"
WHERE type = 'expense' AND occurred_at >= ? AND occurred_at < ?
GROUP BY category, period`

func (q *Queries) ListCategoryPeriodTotals(ctx context.Context, start, end string) ([]CategoryPeriodTotalRow, error) {
	rows, err := q.db.QueryContext(ctx, listCategoryPeriodTotals, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CategoryPeriodTotalRow
	for rows.Next() {
		var i CategoryPeriodTotalRow
		if err := rows.Scan(&i.Category, &i.Period, &i.Total); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Subscriptions

const createSubscription = `
INSERT INTO subscriptions (name, category, amount, billing_cycle, next_billing_date, notes, created_at)
VALUES (?, ?, ?, ?, ?, NULLIF(?, ''), ?)
RETURNING id, name, category, amount, billing_cycle, next_billing_date, notes, created_at`

type CreateSubscriptionParams struct {
	Name            string
	Category        string
	Amount          float64
	BillingCycle    string
	NextBillingDate string
	Notes           string
	CreatedAt       string
}

func (q *Queries) CreateSubscription(ctx context.Context, arg CreateSubscriptionParams) (Subscription, error) {
	row := q.db.QueryRowContext(ctx, createSubscription,
		arg.Name, arg.Category, arg.Amount, arg.BillingCycle, arg.NextBillingDate, arg.Notes, arg.CreatedAt)
	var i Subscription
	err := row.Scan(&i.ID, &i.Name, &i.Category, &i.Amount, &i.BillingCycle, &i.NextBillingDate, &i.Notes, &i.CreatedAt)
	return i, err
}

const listSubscriptions = `
SELECT id, name, category, amount, billing_cycle, next_billing_date, notes, created_at
FROM subscriptions
ORDER BY next_billing_date ASC, name ASC`

func (q *Queries) ListSubscriptions(ctx context.Context) ([]Subscription, error) {
	return q.scanSubscriptions(ctx, listSubscriptions)
}

const listSubscriptionsDueBefore = `
SELECT id, name, category, amount, billing_cycle, next_billing_date, notes, created_at
FROM subscriptions
WHERE next_billing_date < ?
ORDER BY next_billing_date ASC, id ASC`

func (q *Queries) ListSubscriptionsDueBefore(ctx context.Context, date string) ([]Subscription, error) {
	return q.scanSubscriptions(ctx, listSubscriptionsDueBefore, date)
}

func (q *Queries) scanSubscriptions(ctx context.Context, query string, args ...interface{}) ([]Subscription, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Subscription
	for rows.Next() {
		var i Subscription
		if err := rows.Scan(&i.ID, &i.Name, &i.Category, &i.Amount, &i.BillingCycle, &i.NextBillingDate, &i.Notes, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateSubscriptionNextBilling = `UPDATE subscriptions SET next_billing_date = ? WHERE id = ?`

func (q *Queries) UpdateSubscriptionNextBilling(ctx context.Context, id int64, date string) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateSubscriptionNextBilling, date, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteSubscription = `DELETE FROM subscriptions WHERE id = ?`

func (q *Queries) DeleteSubscription(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSubscription, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Profile

const getProfile = `
SELECT id, full_name, date_of_birth, monthly_income, created_at
FROM user_profile
ORDER BY id
LIMIT 1`

func (q *Queries) GetProfile(ctx context.Context) (UserProfile, error) {
	row := q.db.QueryRowContext(ctx, getProfile)
	var i UserProfile
	err := row.Scan(&i.ID, &i.FullName, &i.DateOfBirth, &i.MonthlyIncome, &i.CreatedAt)
	return i, err
}

const deleteProfiles = `DELETE FROM user_profile`

func (q *Queries) DeleteProfiles(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteProfiles)
	return err
}

const insertProfile = `
INSERT INTO user_profile (full_name, date_of_birth, monthly_income, created_at)
VALUES (?, ?, ?, ?)
RETURNING id, full_name, date_of_birth, monthly_income, created_at`

type InsertProfileParams struct {
	FullName      string
	DateOfBirth   string
	MonthlyIncome float64
	CreatedAt     string
}

func (q *Queries) InsertProfile(ctx context.Context, arg InsertProfileParams) (UserProfile, error) {
	row := q.db.QueryRowContext(ctx, insertProfile, arg.FullName, arg.DateOfBirth, arg.MonthlyIncome, arg.CreatedAt)
	var i UserProfile
	err := row.Scan(&i.ID, &i.FullName, &i.DateOfBirth, &i.MonthlyIncome, &i.CreatedAt)
	return i, err
}

// Saving plans

const createSavingPlan = `
INSERT INTO saving_plan (title, category, target_amount, saved_amount, note, created_at)
VALUES (?, ?, ?, ?, NULLIF(?, ''), ?)
RETURNING id, title, category, target_amount, saved_amount, note, created_at`

type CreateSavingPlanParams struct {
	Title        string
	Category     string
	TargetAmount float64
	SavedAmount  float64
	Note         string
	CreatedAt    string
}

func (q *Queries) CreateSavingPlan(ctx context.Context, arg CreateSavingPlanParams) (SavingPlan, error) {
	row := q.db.QueryRowContext(ctx, createSavingPlan,
		arg.Title, arg.Category, arg.TargetAmount, arg.SavedAmount, arg.Note, arg.CreatedAt)
	var i SavingPlan
	err := row.Scan(&i.ID, &i.Title, &i.Category, &i.TargetAmount, &i.SavedAmount, &i.Note, &i.CreatedAt)
	return i, err
}

const listSavingPlans = `
SELECT id, title, category, target_amount, saved_amount, note, created_at
FROM saving_plan
ORDER BY created_at DESC, id DESC`

func (q *Queries) ListSavingPlans(ctx context.Context) ([]SavingPlan, error) {
	rows, err := q.db.QueryContext(ctx, listSavingPlans)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SavingPlan
	for rows.Next() {
		var i SavingPlan
		if err := rows.Scan(&i.ID, &i.Title, &i.Category, &i.TargetAmount, &i.SavedAmount, &i.Note, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteSavingPlan = `DELETE FROM saving_plan WHERE id = ?`

func (q *Queries) DeleteSavingPlan(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSavingPlan, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Reports

const createReport = `
INSERT INTO report_history (title, report_type, file_format, period_start, period_end, summary, generated_at)
VALUES (?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), ?)
RETURNING id, title, report_type, file_format, period_start, period_end, summary, generated_at`

type CreateReportParams struct {
	Title       string
	ReportType  string
	FileFormat  string
	PeriodStart string
	PeriodEnd   string
	Summary     string
	GeneratedAt string
}

func (q *Queries) CreateReport(ctx context.Context, arg CreateReportParams) (ReportHistory, error) {
	row := q.db.QueryRowContext(ctx, createReport,
		arg.Title, arg.ReportType, arg.FileFormat, arg.PeriodStart, arg.PeriodEnd, arg.Summary, arg.GeneratedAt)
	var i ReportHistory
	err := row.Scan(&i.ID, &i.Title, &i.ReportType, &i.FileFormat, &i.PeriodStart, &i.PeriodEnd, &i.Summary, &i.GeneratedAt)
	return i, err
}

const listRecentReports = `
SELECT id, title, report_type, file_format, period_start, period_end, summary, generated_at
FROM report_history
ORDER BY generated_at DESC, id DESC
LIMIT ?`

func (q *Queries) ListRecentReports(ctx context.Context, limit int64) ([]ReportHistory, error) {
	rows, err := q.db.QueryContext(ctx, listRecentReports, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ReportHistory
	for rows.Next() {
		var i ReportHistory
		if err := rows.Scan(&i.ID, &i.Title, &i.ReportType, &i.FileFormat, &i.PeriodStart, &i.PeriodEnd, &i.Summary, &i.GeneratedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
