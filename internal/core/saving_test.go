package core

import "testing"

func TestNewSavingPlan(t *testing.T) {
	tests := []struct {
		name    string
		in      SavingPlanInput
		wantMsg string
	}{
		{"valid", SavingPlanInput{Title: "Laptop", TargetAmount: "80000", SavedAmount: "1000"}, ""},
		{"missing title", SavingPlanInput{TargetAmount: "100"}, "Give your plan a title."},
		{"zero target", SavingPlanInput{Title: "Trip", TargetAmount: "0"}, "Target amount must be greater than zero."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSavingPlan(tt.in)
			if got := validationMessage(t, err); got != tt.wantMsg {
				t.Errorf("NewSavingPlan() message = %q, want %q", got, tt.wantMsg)
			}
		})
	}

	p, _ := NewSavingPlan(SavingPlanInput{Title: "Trip", TargetAmount: "500", SavedAmount: "-20"})
	if p.Category != DefaultSavingCategory || p.SavedAmount != 0 {
		t.Errorf("NewSavingPlan() = %+v, want General category and zero saved", p)
	}
}

func TestSavingPlan_Progress(t *testing.T) {
	tests := []struct {
		name string
		plan SavingPlan
		want int
		left float64
	}{
		{"quarter", SavingPlan{TargetAmount: 1000, SavedAmount: 250}, 25, 750},
		{"overfunded", SavingPlan{TargetAmount: 100, SavedAmount: 200}, 100, 0},
		{"no target", SavingPlan{SavedAmount: 50}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.plan.Progress(); got != tt.want {
				t.Errorf("Progress() = %d, want %d", got, tt.want)
			}
			if got := tt.plan.Remaining(); got != tt.left {
				t.Errorf("Remaining() = %v, want %v", got, tt.left)
			}
		})
	}
}

func TestSummarizeSavingPlans(t *testing.T) {
	got := SummarizeSavingPlans([]SavingPlan{
		{TargetAmount: 1000, SavedAmount: 250},
		{TargetAmount: 3000, SavedAmount: 3000},
	})
	if got.Count != 2 || got.Saved != 3250 || got.Target != 4000 || got.Remaining != 750 {
		t.Errorf("SummarizeSavingPlans() = %+v", got)
	}
	if got.WeightedProgress != 81 {
		t.Errorf("WeightedProgress = %d, want 81", got.WeightedProgress)
	}

	if got := SummarizeSavingPlans(nil); got.WeightedProgress != 0 || got.Count != 0 {
		t.Errorf("SummarizeSavingPlans(nil) = %+v", got)
	}

	capped := SummarizeSavingPlans([]SavingPlan{{TargetAmount: 100, SavedAmount: 500}})
	if capped.WeightedProgress != 100 {
		t.Errorf("WeightedProgress = %d, want 100", capped.WeightedProgress)
	}
}
