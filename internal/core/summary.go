package core

import (
	"sort"
	"strings"
)

// maxCategoryRows is the most rows MergeCategories ever returns.
const maxCategoryRows = 6

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// MergeCategories folds transaction and subscription category totals into one
// list sorted by amount, largest first. Names are trimmed and compared
// case-sensitively. When more than six categories remain, the top five are
// kept and the rest, including any real "Other" category, are summed into a
// single trailing "Other" row.
//
// Equal amounts are ordered by name so the output is deterministic.
func MergeCategories(transactions []CategoryAmount, subscriptions map[string]float64) []CategoryAmount {
	totals := make(map[string]float64)
	for _, c := range transactions {
		name := categoryName(c.Name, DefaultTransactionCategory)
		totals[name] += SafeAmount(c.Amount)
	}
	for name, amount := range subscriptions {
		name = categoryName(name, DefaultSubscriptionCategory)
		totals[name] += SafeAmount(amount)
	}

	rows := make([]CategoryAmount, 0, len(totals))
	for name, amount := range totals {
		rows = append(rows, CategoryAmount{Name: name, Amount: Round2(amount)})
	}
	sortCategoryAmounts(rows)

	if len(rows) <= maxCategoryRows {
		return rows
	}

	other := 0.0
	named := make([]CategoryAmount, 0, len(rows))
	for _, r := range rows {
		if r.Name == OtherCategory {
			other += r.Amount
			continue
		}
		named = append(named, r)
	}

	for _, r := range named[maxCategoryRows-1:] {
		other += r.Amount
	}

	merged := make([]CategoryAmount, 0, maxCategoryRows)
	merged = append(merged, named[:maxCategoryRows-1]...)
	return append(merged, CategoryAmount{Name: OtherCategory, Amount: Round2(other)})
}

// SubscriptionCategories totals the monthly cost of subscriptions per category.
func SubscriptionCategories(subs []Subscription) map[string]float64 {
	out := make(map[string]float64, len(subs))
	for _, s := range subs {
		name := categoryName(s.Category, DefaultSubscriptionCategory)
		out[name] = Round2(out[name] + ToMonthly(s.Amount, s.BillingCycle))
	}
	return out
}

func categoryName(name, fallback string) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return fallback
}

func sortCategoryAmounts(rows []CategoryAmount) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Amount != rows[j].Amount {
			return rows[i].Amount > rows[j].Amount
		}
		return rows[i].Name < rows[j].Name
	})
}
