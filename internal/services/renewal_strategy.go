// Package services orchestrates the ledger store, the messaging client and
// the pure calculations in core.
//
// Renewals advance a subscription's next billing date one cycle at a time.
// Each billing cycle has its own CycleAdvancer, looked up by cycle.
package services

import (
	"fmt"

	"finlytics/internal/core"
)

// CycleAdvancer moves a billing date forward by whole cycles.
type CycleAdvancer interface {
	// Advance returns the date steps cycles after anchor. Month based
	// cycles are computed from the anchor every time, so a 31st keeps
	// landing on the last day of shorter months without drifting.
	Advance(anchor core.Date, steps int) core.Date
}

// DayAdvancer advances by a fixed number of days per cycle.
type DayAdvancer struct {
	Days int
}

func (a DayAdvancer) Advance(anchor core.Date, steps int) core.Date {
	return core.DateOf(anchor.AddDate(0, 0, a.Days*steps))
}

// MonthAdvancer advances by whole months per cycle, clamping to the end of
// the target month.
type MonthAdvancer struct {
	Months int
}

func (a MonthAdvancer) Advance(anchor core.Date, steps int) core.Date {
	return core.AddMonthsClamped(anchor, a.Months*steps)
}

var cycleAdvancers = map[core.BillingCycle]CycleAdvancer{
	core.Weekly:     DayAdvancer{Days: 7},
	core.Monthly:    MonthAdvancer{Months: 1},
	core.Quarterly:  MonthAdvancer{Months: 3},
	core.Semiannual: MonthAdvancer{Months: 6},
	core.Yearly:     MonthAdvancer{Months: 12},
}

// GetCycleAdvancer returns the advancer for a billing cycle, accepting the
// same spellings as core.ParseBillingCycle.
func GetCycleAdvancer(cycle core.BillingCycle) (CycleAdvancer, error) {
	parsed, ok := core.ParseBillingCycle(string(cycle))
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownBillingCycle, cycle)
	}
	return cycleAdvancers[parsed], nil
}

// RollForward returns the first date on or after today reached by advancing
// anchor whole cycles, and how many cycles that took. Dates already on or
// after today are returned unchanged with zero steps.
func RollForward(advancer CycleAdvancer, anchor, today core.Date) (core.Date, int) {
	next := anchor
	steps := 0
	for next.Before(today.Time) {
		steps++
		next = advancer.Advance(anchor, steps)
	}
	return next, steps
}
