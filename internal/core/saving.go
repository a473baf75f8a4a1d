package core

import (
	"math"
	"strings"
	"time"
)

type (
	SavingPlan struct {
		ID           int64     `json:"id"`
		Title        string    `json:"title"`
		Category     string    `json:"category"`
		TargetAmount float64   `json:"targetAmount"`
		SavedAmount  float64   `json:"savedAmount"`
		Note         string    `json:"note,omitempty"`
		CreatedAt    time.Time `json:"createdAt"`
	}

	SavingPlanInput struct {
		Title        string
		Category     string
		TargetAmount string
		SavedAmount  string
		Note         string
	}

	// SavingSummary aggregates every plan. WeightedProgress is a whole
	// percent in [0, 100].
	SavingSummary struct {
		Count            int     `json:"count"`
		Saved            float64 `json:"saved"`
		Target           float64 `json:"target"`
		Remaining        float64 `json:"remaining"`
		WeightedProgress int     `json:"weightedProgress"`
	}
)

// NewSavingPlan trims and validates input. A negative saved amount is
// clamped to zero.
func NewSavingPlan(in SavingPlanInput) (SavingPlan, error) {
	p := SavingPlan{
		Title:        strings.TrimSpace(in.Title),
		Category:     categoryName(in.Category, DefaultSavingCategory),
		TargetAmount: ParseAmount(in.TargetAmount),
		SavedAmount:  math.Max(0, ParseAmount(in.SavedAmount)),
		Note:         strings.TrimSpace(in.Note),
	}
	if err := p.Validate(); err != nil {
		return SavingPlan{}, err
	}
	return p, nil
}

func (p SavingPlan) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return invalid("title", "Give your plan a title.")
	}
	if !(p.TargetAmount > 0) || math.IsInf(p.TargetAmount, 0) {
		return invalid("targetAmount", "Target amount must be greater than zero.")
	}
	if p.SavedAmount < 0 {
		return invalid("savedAmount", "Saved amount cannot be negative.")
	}
	return nil
}

// ratio is saved over target capped at 1, or 0 without a target.
func (p SavingPlan) ratio() float64 {
	if p.TargetAmount <= 0 {
		return 0
	}
	return math.Min(p.SavedAmount/p.TargetAmount, 1)
}

// Progress is the whole percent of the target already saved, capped at 100.
func (p SavingPlan) Progress() int {
	return int(math.Round(p.ratio() * 100))
}

// Remaining is the amount still to save, never negative.
func (p SavingPlan) Remaining() float64 {
	return Round2(math.Max(p.TargetAmount-p.SavedAmount, 0))
}

// SummarizeSavingPlans totals plans. Progress is weighted by target; when no
// plan has a target it is the mean of the per-plan ratios.
func SummarizeSavingPlans(plans []SavingPlan) SavingSummary {
	var saved, target, ratioSum float64
	for _, p := range plans {
		saved += SafeAmount(p.SavedAmount)
		target += SafeAmount(p.TargetAmount)
		ratioSum += p.ratio()
	}

	s := SavingSummary{
		Count:     len(plans),
		Saved:     Round2(saved),
		Target:    Round2(target),
		Remaining: Round2(math.Max(target-saved, 0)),
	}
	switch {
	case target > 0:
		s.WeightedProgress = int(math.Round(math.Min(saved/target*100, 100)))
	case len(plans) > 0:
		s.WeightedProgress = int(math.Round(math.Min(ratioSum/float64(len(plans))*100, 100)))
	}
	return s
}
