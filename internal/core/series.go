package core

import "time"

const periodLayout = "2006-01"

type (
	// PeriodTotals is one pre-aggregated row keyed by "YYYY-MM".
	PeriodTotals struct {
		Period  string  `json:"period"`
		Income  float64 `json:"income"`
		Expense float64 `json:"expense"`
	}

	// MonthBucket is one calendar month of a series. Buckets are derived on
	// every request and never stored.
	MonthBucket struct {
		Period  string  `json:"period"`
		Label   string  `json:"label"`
		Start   Date    `json:"startDate"`
		Income  float64 `json:"income"`
		Expense float64 `json:"expense"`
	}
)

// PeriodKey formats t as "YYYY-MM".
func PeriodKey(t time.Time) string {
	return t.Format(periodLayout)
}

// MonthStart returns the first day of t's month.
func MonthStart(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), 1)
}

// AddMonths returns the first day of the month n months after t's month.
func AddMonths(t time.Time, n int) Date {
	return NewDate(t.Year(), int(t.Month())+n, 1)
}

// SeriesRange returns the half-open window [start, end) covering monthCount
// calendar months that end with now's month.
func SeriesRange(monthCount int, now time.Time) (start, end Date) {
	if monthCount < 1 {
		monthCount = 1
	}
	return AddMonths(now, -(monthCount - 1)), AddMonths(now, 1)
}

// BuildMonthlySeries returns exactly monthCount contiguous buckets, oldest
// first, ending with now's month. Rows are matched by period key; months with
// no row stay at zero. subscriptionMonthly is added to every bucket's expense.
func BuildMonthlySeries(monthCount int, now time.Time, rows []PeriodTotals, subscriptionMonthly float64) []MonthBucket {
	if monthCount < 1 {
		return []MonthBucket{}
	}

	buckets := make([]MonthBucket, monthCount)
	index := make(map[string]int, monthCount)
	for i := range buckets {
		start := AddMonths(now, i-(monthCount-1))
		key := PeriodKey(start.Time)
		buckets[i] = MonthBucket{
			Period: key,
			Label:  start.Format("Jan 2006"),
			Start:  start,
		}
		index[key] = i
	}

	for _, row := range rows {
		i, ok := index[row.Period]
		if !ok {
			continue
		}
		buckets[i].Income = Round2(row.Income)
		buckets[i].Expense = Round2(row.Expense)
	}

	subscriptionMonthly = SafeAmount(subscriptionMonthly)
	for i := range buckets {
		buckets[i].Expense = sum(buckets[i].Expense, subscriptionMonthly)
	}
	return buckets
}

// HasActivity reports whether any bucket carries income or expense.
func HasActivity(buckets []MonthBucket) bool {
	for _, b := range buckets {
		if b.Income > 0 || b.Expense > 0 {
			return true
		}
	}
	return false
}
