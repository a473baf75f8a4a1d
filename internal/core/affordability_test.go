package core

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func mustPlan(t *testing.T, key string) PaymentPlan {
	t.Helper()
	p, err := LookupPlan(key)
	if err != nil {
		t.Fatalf("LookupPlan(%q) error = %v", key, err)
	}
	return p
}

func TestDeriveSafeLimits(t *testing.T) {
	tests := []struct {
		name        string
		savings     float64
		wantUpfront float64
		wantMonthly float64
	}{
		{"positive savings", 15000, 13500, 9000},
		{"zero savings", 0, 0, 0},
		{"negative savings", -500, 0, 0},
		{"NaN savings", math.NaN(), 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveSafeLimits(tt.savings)
			if !near(got.Upfront, tt.wantUpfront) || !near(got.Monthly, tt.wantMonthly) {
				t.Errorf("DeriveSafeLimits(%v) = %+v, want %v/%v", tt.savings, got, tt.wantUpfront, tt.wantMonthly)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	t.Run("pay in full without savings", func(t *testing.T) {
		e := Evaluate(10000, mustPlan(t, "pay-in-full"), 0)
		if e.Affordable {
			t.Error("Affordable = true, want false")
		}
		if !math.IsInf(e.Ratio, 1) {
			t.Errorf("Ratio = %v, want +Inf", e.Ratio)
		}
		if e.Difference != -10000 {
			t.Errorf("Difference = %v, want -10000", e.Difference)
		}
	})

	t.Run("emi within budget", func(t *testing.T) {
		e := Evaluate(1000, mustPlan(t, "emi-12"), 20000)
		if !near(e.TotalCost, 1065) || !near(e.PeriodicPayment, 88.75) {
			t.Errorf("TotalCost, PeriodicPayment = %v, %v, want 1065, 88.75", e.TotalCost, e.PeriodicPayment)
		}
		if !e.Affordable {
			t.Error("Affordable = false, want true")
		}
		if !near(e.SafeBudget, 12000) || !near(e.Difference, 12000-88.75) {
			t.Errorf("SafeBudget, Difference = %v, %v", e.SafeBudget, e.Difference)
		}
	})

	t.Run("payment equal to budget is affordable", func(t *testing.T) {
		e := Evaluate(9000, mustPlan(t, "pay-in-full"), 10000)
		if !e.Affordable {
			t.Errorf("Affordable = false with ratio %v", e.Ratio)
		}
	})

	t.Run("pay in full over the limit", func(t *testing.T) {
		e := Evaluate(20000, mustPlan(t, "pay-in-full"), 10000)
		if e.Affordable || !near(e.Difference, -11000) {
			t.Errorf("Evaluate() = %+v", e)
		}
	})
}

func TestEvaluation_MarshalJSON(t *testing.T) {
	e := Evaluate(10000, mustPlan(t, "pay-in-full"), 0)
	b, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	if !strings.Contains(string(b), `"ratio":null`) {
		t.Errorf("json = %s, want null ratio", b)
	}

	e = Evaluate(1000, mustPlan(t, "emi-3"), 20000)
	b, _ = json.Marshal(e)
	if !strings.Contains(string(b), `"totalCost":1015`) {
		t.Errorf("json = %s, want totalCost 1015", b)
	}
}

func TestLookupPlan(t *testing.T) {
	if _, err := LookupPlan("emi-48"); !errors.Is(err, ErrUnknownPlan) {
		t.Errorf("LookupPlan(emi-48) error = %v, want ErrUnknownPlan", err)
	}
	plans := PaymentPlans()
	if len(plans) != 5 || plans[0].Key != "pay-in-full" || plans[4].Months != 24 {
		t.Errorf("PaymentPlans() = %v", plans)
	}
	plans[0].Key = "changed"
	if PaymentPlans()[0].Key != "pay-in-full" {
		t.Error("PaymentPlans() exposes the catalog")
	}
}

func TestValidatePurchase(t *testing.T) {
	for _, v := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if err := ValidatePurchase(v); !errors.Is(err, ErrInvalidPurchaseAmount) {
			t.Errorf("ValidatePurchase(%v) = %v, want ErrInvalidPurchaseAmount", v, err)
		}
	}
	if err := ValidatePurchase(0.01); err != nil {
		t.Errorf("ValidatePurchase(0.01) = %v, want nil", err)
	}
}

func TestAdvise(t *testing.T) {
	full := mustPlan(t, "pay-in-full")
	emi := mustPlan(t, "emi-6")

	tests := []struct {
		name string
		plan PaymentPlan
		eval Evaluation
		want string
	}{
		{"one-time no savings", full, Evaluate(100, full, 0), "Build savings first"},
		{"one-time affordable", full, Evaluate(100, full, 1000), "Proceed with confidence"},
		{"one-time too large", full, Evaluate(5000, full, 1000), "Reduce the amount"},
		{"emi no savings", emi, Evaluate(100, emi, -10), "Build savings first"},
		{"emi affordable", emi, Evaluate(600, emi, 1000), "Plan looks good"},
		{"emi too large", emi, Evaluate(60000, emi, 1000), "Adjust plan or amount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Advise(tt.plan, tt.eval); got.Recommendation != tt.want {
				t.Errorf("Advise() = %q, want %q", got.Recommendation, tt.want)
			}
		})
	}
}
