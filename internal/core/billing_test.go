package core

import (
	"math"
	"testing"
)

func TestToMonthly(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		cycle  BillingCycle
		want   float64
	}{
		{"weekly", 12, Weekly, 52},
		{"monthly", 499, Monthly, 499},
		{"quarterly", 300, Quarterly, 100},
		{"semiannual", 600, Semiannual, 100},
		{"yearly", 1200, Yearly, 100},
		{"yearly rounds to cents", 1000, Yearly, 83.33},
		{"annual alias", 1200, "Annual", 100},
		{"unknown cycle is monthly", 50, "Biweekly", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToMonthly(tt.amount, tt.cycle); got != tt.want {
				t.Errorf("ToMonthly(%v, %v) = %v, want %v", tt.amount, tt.cycle, got, tt.want)
			}
		})
	}
}

func TestToAnnual(t *testing.T) {
	tests := []struct {
		amount float64
		cycle  BillingCycle
		want   float64
	}{
		{10, Weekly, 520},
		{100, Monthly, 1200},
		{100, Quarterly, 400},
		{100, Semiannual, 200},
		{100, Yearly, 100},
	}

	for _, tt := range tests {
		t.Run(string(tt.cycle), func(t *testing.T) {
			if got := ToAnnual(tt.amount, tt.cycle); got != tt.want {
				t.Errorf("ToAnnual(%v, %v) = %v, want %v", tt.amount, tt.cycle, got, tt.want)
			}
		})
	}
}

func TestToMonthly_AgreesWithAnnual(t *testing.T) {
	amounts := []float64{0, 1, 12.34, 99.99, 1000, 123456.78}

	for _, cycle := range BillingCycles() {
		t.Run(string(cycle), func(t *testing.T) {
			for _, amount := range amounts {
				monthly := ToMonthly(amount, cycle)
				fromAnnual := ToAnnual(amount, cycle) / 12
				if diff := math.Abs(monthly - fromAnnual); diff > 0.01 {
					t.Errorf("ToMonthly(%v) = %v, ToAnnual/12 = %v, differ by %v", amount, monthly, fromAnnual, diff)
				}
			}
		})
	}
}

func TestSubscriptionsTotals(t *testing.T) {
	subs := []Subscription{
		{Name: "Streaming", Amount: 499, BillingCycle: Monthly},
		{Name: "Cloud", Amount: 1200, BillingCycle: Yearly},
		{Name: "Gym", Amount: 300, BillingCycle: Quarterly},
	}

	if got := SubscriptionsMonthlyTotal(subs); got != 699 {
		t.Errorf("SubscriptionsMonthlyTotal() = %v, want 699", got)
	}
	if got := SubscriptionsAnnualTotal(subs); got != 8388 {
		t.Errorf("SubscriptionsAnnualTotal() = %v, want 8388", got)
	}
	if got := SubscriptionsMonthlyTotal(nil); got != 0 {
		t.Errorf("SubscriptionsMonthlyTotal(nil) = %v, want 0", got)
	}
}
