package core

import "time"

type (
	// MonthTotals are income and expense sums for one period.
	MonthTotals struct {
		Income   float64 `json:"income"`
		Expenses float64 `json:"expenses"`
	}

	// FinancialSnapshot is the current-month position. It is recomputed on
	// every request and replaced as a whole, never patched.
	FinancialSnapshot struct {
		MonthlyIncome         float64   `json:"monthlyIncome"`
		TransactionExpenses   float64   `json:"transactionExpenses"`
		SubscriptionMonthly   float64   `json:"subscriptionMonthly"`
		MonthlyExpenses       float64   `json:"monthlyExpenses"`
		MonthlySavings        float64   `json:"monthlySavings"`
		SafeUpfrontLimit      float64   `json:"safeUpfrontLimit"`
		SafeMonthlyAllocation float64   `json:"safeMonthlyAllocation"`
		AvailableForPurchase  float64   `json:"availableForPurchase"`
		LastUpdated           time.Time `json:"lastUpdated"`
	}
)

const (
	feedbackNoData     = "Add income, expenses, or subscriptions to personalize affordability insights."
	feedbackNoHeadroom = "Your current savings are at or below zero. Add income or trim expenses to unlock purchase recommendations."
)

// MonthTotalsFromTransactions sums income and expense transactions that fall
// in now's calendar month. Transfers are ignored.
func MonthTotalsFromTransactions(now time.Time, txs []Transaction) MonthTotals {
	start, end := MonthStart(now), AddMonths(now, 1)
	var income, expenses []float64
	for _, tx := range txs {
		if tx.OccurredAt.Before(start.Time) || !tx.OccurredAt.Before(end.Time) {
			continue
		}
		switch tx.Type {
		case Income:
			income = append(income, tx.Amount)
		case Expense:
			expenses = append(expenses, tx.Amount)
		}
	}
	return MonthTotals{Income: sum(income...), Expenses: sum(expenses...)}
}

// ComputeSnapshot derives the current-month position from this month's
// transaction totals and every subscription on file.
func ComputeSnapshot(now time.Time, totals MonthTotals, subs []Subscription) FinancialSnapshot {
	income := SafeAmount(totals.Income)
	txExpenses := SafeAmount(totals.Expenses)
	subMonthly := SubscriptionsMonthlyTotal(subs)

	monthlyExpenses := txExpenses + subMonthly
	savings := income - monthlyExpenses
	limits := DeriveSafeLimits(savings)

	snap := FinancialSnapshot{
		MonthlyIncome:         income,
		TransactionExpenses:   txExpenses,
		SubscriptionMonthly:   subMonthly,
		MonthlyExpenses:       monthlyExpenses,
		MonthlySavings:        savings,
		SafeUpfrontLimit:      limits.Upfront,
		SafeMonthlyAllocation: limits.Monthly,
		LastUpdated:           now,
	}
	if savings > 0 {
		snap.AvailableForPurchase = savings
	}
	return snap
}

// Limits returns the snapshot's safe limits.
func (s FinancialSnapshot) Limits() SafeLimits {
	return SafeLimits{Upfront: s.SafeUpfrontLimit, Monthly: s.SafeMonthlyAllocation}
}

// Feedback returns guidance when the snapshot cannot back any purchase, or
// an empty string.
func (s FinancialSnapshot) Feedback() string {
	if s.MonthlyIncome == 0 && s.MonthlyExpenses == 0 {
		return feedbackNoData
	}
	if s.SafeMonthlyAllocation <= 0 && s.SafeUpfrontLimit <= 0 {
		return feedbackNoHeadroom
	}
	return ""
}
