package core

import (
	"sort"
	"strings"
	"time"
)

// DefaultDueSoonDays is the window in which a renewal counts as due soon.
const DefaultDueSoonDays = 5

const (
	StatusOverdue   DueStatus = "overdue"
	StatusDueToday  DueStatus = "due_today"
	StatusDueSoon   DueStatus = "due_soon"
	StatusScheduled DueStatus = "scheduled"
)

const (
	SortNextBilling = "next_billing"
	SortAmountDesc  = "amount_desc"
	SortAmountAsc   = "amount_asc"
	SortName        = "name"
)

type DueStatus string

// DaysUntil counts calendar days from now's day to date. Past dates are
// negative.
func DaysUntil(now time.Time, date Date) int {
	today := DateOf(now)
	return int(date.Sub(today.Time).Hours() / 24)
}

// DueStatus classifies the next renewal relative to now. A threshold below 1
// falls back to DefaultDueSoonDays.
func (s Subscription) DueStatus(now time.Time, threshold int) DueStatus {
	if threshold < 1 {
		threshold = DefaultDueSoonDays
	}
	days := DaysUntil(now, s.NextBillingDate)
	switch {
	case days < 0:
		return StatusOverdue
	case days == 0:
		return StatusDueToday
	case days <= threshold:
		return StatusDueSoon
	default:
		return StatusScheduled
	}
}

// SortSubscriptions orders subs in place by key. Unknown keys sort by next
// billing date, earliest first, with undated entries last.
func SortSubscriptions(subs []Subscription, key string) {
	var less func(a, b Subscription) bool
	switch key {
	case SortAmountDesc:
		less = func(a, b Subscription) bool { return a.Amount > b.Amount }
	case SortAmountAsc:
		less = func(a, b Subscription) bool { return a.Amount < b.Amount }
	case SortName:
		less = func(a, b Subscription) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	default:
		less = func(a, b Subscription) bool {
			if a.NextBillingDate.IsZero() != b.NextBillingDate.IsZero() {
				return b.NextBillingDate.IsZero()
			}
			return a.NextBillingDate.Before(b.NextBillingDate.Time)
		}
	}
	sort.SliceStable(subs, func(i, j int) bool { return less(subs[i], subs[j]) })
}

// FilterSubscriptions keeps subscriptions in category (empty or "all" keeps
// every category) whose name or notes contain search, case-insensitively.
func FilterSubscriptions(subs []Subscription, category, search string) []Subscription {
	category = strings.TrimSpace(category)
	search = strings.ToLower(strings.TrimSpace(search))

	out := make([]Subscription, 0, len(subs))
	for _, s := range subs {
		if category != "" && category != "all" && s.Category != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(s.Name), search) &&
			!strings.Contains(strings.ToLower(s.Notes), search) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// NextBillingAfter advances date by one billing cycle. Month based cycles
// clamp to the last day of the target month, so Jan 31 becomes Feb 28.
func NextBillingAfter(date Date, cycle BillingCycle) Date {
	c, ok := ParseBillingCycle(string(cycle))
	if !ok {
		c = Monthly
	}
	switch c {
	case Weekly:
		return DateOf(date.AddDate(0, 0, 7))
	case Quarterly:
		return AddMonthsClamped(date, 3)
	case Semiannual:
		return AddMonthsClamped(date, 6)
	case Yearly:
		return AddMonthsClamped(date, 12)
	default:
		return AddMonthsClamped(date, 1)
	}
}

// AddMonthsClamped moves date by months, keeping the day of month unless the
// target month is shorter.
func AddMonthsClamped(date Date, months int) Date {
	first := NewDate(date.Year(), int(date.Month())+months, 1)
	last := first.AddDate(0, 1, -1).Day()
	day := date.Day()
	if day > last {
		day = last
	}
	return NewDate(first.Year(), int(first.Month()), day)
}
