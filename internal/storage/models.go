package storage

import "database/sql"

// Row types mirror the tables. Dates are "YYYY-MM-DD" text and timestamps
// are RFC 3339 text.
type (
	Transaction struct {
		ID         int64
		Title      string
		Category   string
		Type       string
		Amount     float64
		OccurredAt string
		Notes      sql.NullString
		CreatedAt  string
	}

	Subscription struct {
		ID              int64
		Name            string
		Category        string
		Amount          float64
		BillingCycle    string
		NextBillingDate string
		Notes           sql.NullString
		CreatedAt       string
	}

	UserProfile struct {
		ID            int64
		FullName      string
		DateOfBirth   string
		MonthlyIncome float64
		CreatedAt     string
	}

	SavingPlan struct {
		ID           int64
		Title        string
		Category     string
		TargetAmount float64
		SavedAmount  float64
		Note         sql.NullString
		CreatedAt    string
	}

	ReportHistory struct {
		ID          int64
		Title       string
		ReportType  string
		FileFormat  string
		PeriodStart sql.NullString
		PeriodEnd   sql.NullString
		Summary     sql.NullString
		GeneratedAt string
	}

	MonthTotalsRow struct {
		Income  float64
		Expense float64
	}

	PeriodTotalsRow struct {
		Period  string
		Income  float64
		Expense float64
	}

	CategoryTotalRow struct {
		Category string
		Total    float64
	}

	CategoryPeriodTotalRow struct {
		Category string
		Period   string
		Total    float64
	}
)
