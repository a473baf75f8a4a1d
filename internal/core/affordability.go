package core

import (
	"encoding/json"
	"math"
)

const (
	SafeUpfrontRatio = 0.9
	SafeMonthlyRatio = 0.6

	MsgPurchaseAmount = "Please enter a purchase amount greater than zero."
	MsgSelectPlan     = "Select a payment plan to continue."

	// ratioTolerance absorbs float rounding when a payment equals the budget.
	ratioTolerance = 1e-9
)

type (
	// PaymentPlan is an entry of the static plan catalog.
	PaymentPlan struct {
		Key          string  `json:"key"`
		Label        string  `json:"label"`
		Months       int     `json:"months"`
		InterestRate float64 `json:"interestRate"`
		Description  string  `json:"description"`
	}

	// SafeLimits are the spending ceilings derived from monthly savings.
	SafeLimits struct {
		Upfront float64 `json:"safeUpfrontLimit"`
		Monthly float64 `json:"safeMonthlyAllocation"`
	}

	// Evaluation is the verdict for one purchase under one plan. Ratio is
	// +Inf when the safe budget is zero.
	Evaluation struct {
		PurchaseAmount  float64
		TotalCost       float64
		PeriodicPayment float64
		SafeBudget      float64
		Ratio           float64
		Affordable      bool
		Difference      float64
	}

	// Advice is the human readable reading of an Evaluation.
	Advice struct {
		Recommendation string `json:"recommendation"`
		Message        string `json:"message"`
		Tip            string `json:"tip"`
	}
)

var paymentPlans = []PaymentPlan{
	{
		Key:          "pay-in-full",
		Label:        "Pay in Full (One-time)",
		Months:       1,
		InterestRate: 0,
		Description:  "Uses your current savings for a one-time payment.",
	},
	{
		Key:          "emi-3",
		Label:        "3-Month EMI",
		Months:       3,
		InterestRate: 0.015,
		Description:  "Short-term EMI with a 1.5% service charge distributed across 3 months.",
	},
	{
		Key:          "emi-6",
		Label:        "6-Month EMI",
		Months:       6,
		InterestRate: 0.035,
		Description:  "Balanced EMI option with a 3.5% total finance cost.",
	},
	{
		Key:          "emi-12",
		Label:        "12-Month EMI",
		Months:       12,
		InterestRate: 0.065,
		Description:  "Long-term EMI with a 6.5% total finance cost for maximum flexibility.",
	},
	{
		Key:          "emi-24",
		Label:        "24-Month EMI",
		Months:       24,
		InterestRate: 0.095,
		Description:  "Extended EMI with a 9.5% total finance cost for the lowest monthly payments.",
	},
}

// PaymentPlans returns a copy of the plan catalog in display order.
func PaymentPlans() []PaymentPlan {
	out := make([]PaymentPlan, len(paymentPlans))
	copy(out, paymentPlans)
	return out
}

// LookupPlan finds a plan by key.
func LookupPlan(key string) (PaymentPlan, error) {
	for _, p := range paymentPlans {
		if p.Key == key {
			return p, nil
		}
	}
	return PaymentPlan{}, ErrUnknownPlan
}

// DeriveSafeLimits applies the 90% upfront and 60% monthly rules. Both limits
// are zero when savings are not positive.
func DeriveSafeLimits(monthlySavings float64) SafeLimits {
	monthlySavings = SafeAmount(monthlySavings)
	if monthlySavings <= 0 {
		return SafeLimits{}
	}
	return SafeLimits{
		Upfront: monthlySavings * SafeUpfrontRatio,
		Monthly: monthlySavings * SafeMonthlyRatio,
	}
}

// ValidatePurchase rejects amounts that cannot be evaluated.
func ValidatePurchase(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return ErrInvalidPurchaseAmount
	}
	return nil
}

// Evaluate checks a purchase against the safe budget implied by monthly
// savings. Callers validate amount and plan first.
func Evaluate(amount float64, plan PaymentPlan, monthlySavings float64) Evaluation {
	return EvaluateWithLimits(amount, plan, DeriveSafeLimits(monthlySavings))
}

// EvaluateWithLimits is Evaluate with precomputed limits, so one snapshot can
// serve several evaluations.
func EvaluateWithLimits(amount float64, plan PaymentPlan, limits SafeLimits) Evaluation {
	months := plan.Months
	if months < 1 {
		months = 1
	}
	totalCost := amount * (1 + plan.InterestRate)
	periodic := totalCost / float64(months)

	budget, target := limits.Monthly, periodic
	if months == 1 {
		budget, target = limits.Upfront, amount
	}

	e := Evaluation{
		PurchaseAmount:  amount,
		TotalCost:       totalCost,
		PeriodicPayment: periodic,
		SafeBudget:      budget,
		Ratio:           math.Inf(1),
		Difference:      -target,
	}
	if budget > 0 {
		e.Ratio = target / budget
		e.Affordable = e.Ratio <= 1+ratioTolerance
		e.Difference = budget - target
	}
	return e
}

// MarshalJSON rounds money fields and renders an infinite ratio as null.
func (e Evaluation) MarshalJSON() ([]byte, error) {
	var ratio *float64
	if !math.IsInf(e.Ratio, 0) && !math.IsNaN(e.Ratio) {
		r := e.Ratio
		ratio = &r
	}
	return json.Marshal(struct {
		PurchaseAmount  float64  `json:"purchaseAmount"`
		TotalCost       float64  `json:"totalCost"`
		PeriodicPayment float64  `json:"periodicPayment"`
		SafeBudget      float64  `json:"safeBudget"`
		Ratio           *float64 `json:"ratio"`
		Affordable      bool     `json:"affordable"`
		Difference      float64  `json:"difference"`
	}{
		PurchaseAmount:  Round2(e.PurchaseAmount),
		TotalCost:       Round2(e.TotalCost),
		PeriodicPayment: Round2(e.PeriodicPayment),
		SafeBudget:      Round2(e.SafeBudget),
		Ratio:           ratio,
		Affordable:      e.Affordable,
		Difference:      Round2(e.Difference),
	})
}

// Advise turns an evaluation into the recommendation shown next to it.
func Advise(plan PaymentPlan, e Evaluation) Advice {
	if plan.Months <= 1 {
		switch {
		case e.SafeBudget <= 0:
			return Advice{
				Recommendation: "Build savings first",
				Message:        "Your current savings are not ready for one-time purchases.",
				Tip:            "Tip: Add income transactions or lower expenses to create a savings buffer.",
			}
		case e.Affordable:
			return Advice{
				Recommendation: "Proceed with confidence",
				Message:        "You can comfortably afford this purchase with your current savings.",
				Tip:            "Tip: Keep three months of savings aside for emergencies.",
			}
		default:
			return Advice{
				Recommendation: "Reduce the amount",
				Message:        "This purchase is higher than your safe one-time spending limit.",
				Tip:            "Tip: Trim the shortfall or choose an EMI plan.",
			}
		}
	}

	switch {
	case e.SafeBudget <= 0:
		return Advice{
			Recommendation: "Build savings first",
			Message:        "Your current savings do not support new EMIs yet.",
			Tip:            "Tip: Boost your monthly savings before committing to EMIs.",
		}
	case e.Affordable:
		return Advice{
			Recommendation: "Plan looks good",
			Message:        "Your EMI fits comfortably within your monthly savings.",
			Tip:            "Tip: You will still retain a savings buffer after this EMI.",
		}
	default:
		return Advice{
			Recommendation: "Adjust plan or amount",
			Message:        "This EMI would use more than the safe portion of your savings.",
			Tip:            "Tip: Lower the purchase by the shortfall or pick a longer tenure.",
		}
	}
}
