package core

// cycleFactors holds the monthly divisor and annual multiplier for a cycle.
type cycleFactors struct {
	toMonthly func(float64) float64
	toAnnual  func(float64) float64
}

var billingCycles = map[BillingCycle]cycleFactors{
	Weekly: {
		toMonthly: func(a float64) float64 { return a * 52 / 12 },
		toAnnual:  func(a float64) float64 { return a * 52 },
	},
	Monthly: {
		toMonthly: func(a float64) float64 { return a },
		toAnnual:  func(a float64) float64 { return a * 12 },
	},
	Quarterly: {
		toMonthly: func(a float64) float64 { return a / 3 },
		toAnnual:  func(a float64) float64 { return a * 4 },
	},
	Semiannual: {
		toMonthly: func(a float64) float64 { return a / 6 },
		toAnnual:  func(a float64) float64 { return a * 2 },
	},
	Yearly: {
		toMonthly: func(a float64) float64 { return a / 12 },
		toAnnual:  func(a float64) float64 { return a },
	},
}

// factorsFor falls back to Monthly for unknown cycles.
func factorsFor(cycle BillingCycle) cycleFactors {
	if c, ok := ParseBillingCycle(string(cycle)); ok {
		return billingCycles[c]
	}
	return billingCycles[Monthly]
}

// ToMonthly normalizes a recurring charge to its monthly equivalent.
func ToMonthly(amount float64, cycle BillingCycle) float64 {
	return Round2(factorsFor(cycle).toMonthly(SafeAmount(amount)))
}

// ToAnnual normalizes a recurring charge to its yearly equivalent.
func ToAnnual(amount float64, cycle BillingCycle) float64 {
	return Round2(factorsFor(cycle).toAnnual(SafeAmount(amount)))
}

// SubscriptionsMonthlyTotal sums ToMonthly over every subscription.
func SubscriptionsMonthlyTotal(subs []Subscription) float64 {
	values := make([]float64, 0, len(subs))
	for _, s := range subs {
		values = append(values, ToMonthly(s.Amount, s.BillingCycle))
	}
	return sum(values...)
}

// SubscriptionsAnnualTotal sums ToAnnual over every subscription.
func SubscriptionsAnnualTotal(subs []Subscription) float64 {
	values := make([]float64, 0, len(subs))
	for _, s := range subs {
		values = append(values, ToAnnual(s.Amount, s.BillingCycle))
	}
	return sum(values...)
}
