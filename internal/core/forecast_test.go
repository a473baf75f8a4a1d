package core

import (
	"testing"
	"time"
)

func history(expenses ...float64) []MonthBucket {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]PeriodTotals, 0, len(expenses))
	buckets := BuildMonthlySeries(len(expenses), now, nil, 0)
	for i, e := range expenses {
		rows = append(rows, PeriodTotals{Period: buckets[i].Period, Expense: e})
	}
	return BuildMonthlySeries(len(expenses), now, rows, 0)
}

func TestAverageChange(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single value", []float64{10}, 0},
		{"rising", []float64{100, 120, 140}, 20},
		{"falling", []float64{300, 100}, -200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AverageChange(tt.values); got != tt.want {
				t.Errorf("AverageChange(%v) = %v, want %v", tt.values, got, tt.want)
			}
		})
	}
}

func TestForecast(t *testing.T) {
	t.Run("linear extrapolation", func(t *testing.T) {
		got := Forecast(history(100, 120, 140), 2)
		if len(got) != 2 {
			t.Fatalf("Forecast() returned %d points, want 2", len(got))
		}
		if got[0].Expense != 160 || got[1].Expense != 180 {
			t.Errorf("Forecast() expenses = %v, %v, want 160, 180", got[0].Expense, got[1].Expense)
		}
		if got[0].Period != "2024-04" || got[1].Period != "2024-05" {
			t.Errorf("Forecast() periods = %s, %s, want 2024-04, 2024-05", got[0].Period, got[1].Period)
		}
		if got[0].Income != 0 {
			t.Errorf("Forecast() income = %v, want 0", got[0].Income)
		}
	})

	t.Run("floors at zero", func(t *testing.T) {
		got := Forecast(history(300, 100), 2)
		for i, p := range got {
			if p.Expense != 0 {
				t.Errorf("point %d expense = %v, want 0", i, p.Expense)
			}
		}
	})

	t.Run("empty history", func(t *testing.T) {
		got := Forecast(nil, 3)
		if got == nil || len(got) != 0 {
			t.Errorf("Forecast(nil) = %v, want empty slice", got)
		}
	})

	t.Run("crosses the year", func(t *testing.T) {
		h := BuildMonthlySeries(2, time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC), nil, 0)
		got := Forecast(h, 3)
		if got[2].Period != "2025-02" {
			t.Errorf("third point period = %s, want 2025-02", got[2].Period)
		}
	})
}

func TestExpenseTrend(t *testing.T) {
	h := history(100, 200)
	f := Forecast(h, 1)
	got := ExpenseTrend(h, f)
	if got == nil {
		t.Fatal("ExpenseTrend() = nil")
	}
	if got.ActualChangePct != 100 || got.LastActual != 200 || got.ProjectedFinal != 300 || got.ProjectedChangePct != 50 {
		t.Errorf("ExpenseTrend() = %+v", got)
	}
	if ExpenseTrend(nil, nil) != nil {
		t.Error("ExpenseTrend(nil) should be nil")
	}
	if IncomeTrend(h, f).ActualChangePct != 0 {
		t.Error("IncomeTrend() on zero income should report 0%")
	}
}
