package core

import (
	"math"
	"sort"
)

// baselineGrowth is the assumed drift for categories with no prior month.
const baselineGrowth = 0.05

type (
	// CategoryPeriodTotal is an expense total for one category in one period.
	CategoryPeriodTotal struct {
		Category string  `json:"category"`
		Period   string  `json:"period"`
		Total    float64 `json:"total"`
	}

	// OutlookRow projects next month's spend for one category.
	OutlookRow struct {
		Name      string  `json:"name"`
		Current   float64 `json:"current"`
		Forecast  float64 `json:"forecast"`
		Change    float64 `json:"change"`
		ChangePct float64 `json:"changePct"`
	}
)

// BuildCategoryOutlook compares each category's current and previous month,
// adds subscription costs to both, and projects the next month. The six
// largest categories by current spend are returned.
func BuildCategoryOutlook(rows []CategoryPeriodTotal, currentPeriod, previousPeriod string, subs []Subscription) []OutlookRow {
	type pair struct{ current, previous float64 }
	totals := make(map[string]*pair)
	get := func(name string) *pair {
		p, ok := totals[name]
		if !ok {
			p = &pair{}
			totals[name] = p
		}
		return p
	}

	for _, r := range rows {
		p := get(categoryName(r.Category, DefaultTransactionCategory))
		switch {
		case r.Period == currentPeriod:
			p.current += SafeAmount(r.Total)
		case previousPeriod != "" && r.Period == previousPeriod:
			p.previous += SafeAmount(r.Total)
		}
	}
	for _, s := range subs {
		p := get(categoryName(s.Category, DefaultSubscriptionCategory))
		monthly := ToMonthly(s.Amount, s.BillingCycle)
		p.current += monthly
		p.previous += monthly
	}

	out := make([]OutlookRow, 0, len(totals))
	for name, p := range totals {
		current := Round2(p.current)
		previous := Round2(p.previous)

		var drift float64
		if previous > 0 {
			drift = current - previous
		} else {
			drift = current * baselineGrowth
		}
		forecast := math.Max(0, Round2(current+drift))
		change := forecast - current

		var pct float64
		switch {
		case current > 0:
			pct = change / current * 100
		case forecast > 0:
			pct = 100
		}
		out = append(out, OutlookRow{
			Name:      name,
			Current:   current,
			Forecast:  forecast,
			Change:    Round2(change),
			ChangePct: pct,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Current != out[j].Current {
			return out[i].Current > out[j].Current
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > maxCategoryRows {
		out = out[:maxCategoryRows]
	}
	return out
}

// RiskCategory returns the growing category with the steepest relative
// increase, or nil when nothing is growing.
func RiskCategory(rows []OutlookRow) *OutlookRow {
	var risk *OutlookRow
	for i := range rows {
		if rows[i].Change <= 0 {
			continue
		}
		if risk == nil || rows[i].ChangePct > risk.ChangePct {
			r := rows[i]
			risk = &r
		}
	}
	return risk
}
