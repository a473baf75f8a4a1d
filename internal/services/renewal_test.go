package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"finlytics/internal/core"
)

func TestMonthAdvancer_Advance(t *testing.T) {
	tests := []struct {
		name   string
		months int
		anchor core.Date
		steps  int
		want   string
	}{
		{"monthly", 1, core.NewDate(2024, 1, 15), 1, "2024-02-15"},
		{"clamps to february", 1, core.NewDate(2024, 1, 31), 1, "2024-02-29"},
		{"no drift after short month", 1, core.NewDate(2024, 1, 31), 2, "2024-03-31"},
		{"quarterly across year", 3, core.NewDate(2024, 11, 30), 1, "2025-02-28"},
		{"yearly leap day", 12, core.NewDate(2024, 2, 29), 1, "2025-02-28"},
		{"zero steps", 6, core.NewDate(2024, 5, 10), 0, "2024-05-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MonthAdvancer{Months: tt.months}.Advance(tt.anchor, tt.steps)
			if got.String() != tt.want {
				t.Errorf("Advance() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDayAdvancer_Advance(t *testing.T) {
	got := DayAdvancer{Days: 7}.Advance(core.NewDate(2024, 2, 26), 2)
	if got.String() != "2024-03-11" {
		t.Errorf("Advance() = %s, want 2024-03-11", got)
	}
}

func TestGetCycleAdvancer(t *testing.T) {
	for _, cycle := range core.BillingCycles() {
		if _, err := GetCycleAdvancer(cycle); err != nil {
			t.Errorf("GetCycleAdvancer(%s) error = %v", cycle, err)
		}
	}

	if _, err := GetCycleAdvancer("Fortnightly"); !errors.Is(err, core.ErrUnknownBillingCycle) {
		t.Errorf("GetCycleAdvancer(Fortnightly) error = %v, want %v", err, core.ErrUnknownBillingCycle)
	}
}

func TestRollForward(t *testing.T) {
	today := core.NewDate(2024, 3, 15)

	tests := []struct {
		name      string
		advancer  CycleAdvancer
		anchor    core.Date
		want      string
		wantSteps int
	}{
		{"already current", MonthAdvancer{Months: 1}, core.NewDate(2024, 3, 20), "2024-03-20", 0},
		{"due today stays", MonthAdvancer{Months: 1}, today, "2024-03-15", 0},
		{"one month behind", MonthAdvancer{Months: 1}, core.NewDate(2024, 2, 20), "2024-03-20", 1},
		{"several months behind", MonthAdvancer{Months: 1}, core.NewDate(2023, 12, 31), "2024-03-31", 3},
		{"weekly", DayAdvancer{Days: 7}, core.NewDate(2024, 3, 1), "2024-03-15", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, steps := RollForward(tt.advancer, tt.anchor, today)
			if got.String() != tt.want || steps != tt.wantSteps {
				t.Errorf("RollForward() = %s, %d, want %s, %d", got, steps, tt.want, tt.wantSteps)
			}
		})
	}
}

func TestRenewalProcessor_ProcessDue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addSubscription(t, "Video", "15", "Monthly", "2024-01-31")
	f.addSubscription(t, "Gym", "10", "Weekly", "2024-03-14")
	f.addSubscription(t, "Cloud", "120", "Yearly", "2024-06-01")

	p := NewRenewalProcessor(f.repo, nil, "ledger_changed", time.Hour)
	p.now = fixedClock

	renewed, err := p.ProcessDue(ctx)
	if err != nil {
		t.Fatalf("ProcessDue() error = %v", err)
	}
	if renewed != 2 {
		t.Errorf("ProcessDue() = %d, want 2", renewed)
	}

	subs, err := f.ledger.ListSubscriptions(ctx, SubscriptionQuery{Sort: core.SortName})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{
		"Cloud": "2024-06-01",
		"Gym":   "2024-03-21",
		"Video": "2024-03-31",
	}
	for _, s := range subs {
		if got := s.NextBillingDate.String(); got != want[s.Name] {
			t.Errorf("%s next billing = %s, want %s", s.Name, got, want[s.Name])
		}
	}

	renewed, err = p.ProcessDue(ctx)
	if err != nil || renewed != 0 {
		t.Errorf("ProcessDue() second run = %d, %v, want 0, nil", renewed, err)
	}
}

func TestRenewalProcessor_NotInitialized(t *testing.T) {
	p := &RenewalProcessor{now: fixedClock}
	if _, err := p.ProcessDue(context.Background()); err == nil {
		t.Error("ProcessDue() without storage should fail")
	}
}

func TestRenewalProcessor_StartStop(t *testing.T) {
	f := newFixture(t)
	p := NewRenewalProcessor(f.repo, nil, "", time.Hour)
	p.now = fixedClock
	ctx := context.Background()

	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if !p.IsRunning() {
		t.Error("IsRunning() = false after Start")
	}
	if err := p.Start(ctx); !errors.Is(err, ErrProcessorRunning) {
		t.Errorf("Start() twice error = %v, want %v", err, ErrProcessorRunning)
	}

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := p.Stop(stopCtx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if p.IsRunning() {
		t.Error("IsRunning() = true after Stop")
	}
	if err := p.Stop(stopCtx); err != nil {
		t.Errorf("Stop() when stopped error = %v", err)
	}
}

func TestRenewalProcessor_StopAfterTimeout(t *testing.T) {
	f := newFixture(t)
	p := NewRenewalProcessor(f.repo, nil, "", time.Hour)
	p.now = fixedClock
	ctx := context.Background()

	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	expired, cancel := context.WithCancel(ctx)
	cancel()
	if err := p.Stop(expired); err != nil && !errors.Is(err, context.Canceled) {
		t.Fatalf("Stop(expired) error = %v", err)
	}
	if p.IsRunning() {
		t.Error("IsRunning() = true after Stop with an expired context")
	}
	if err := p.Stop(ctx); err != nil {
		t.Errorf("second Stop() error = %v, want nil", err)
	}

	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start() after Stop error = %v", err)
	}
	stopCtx, stopCancel := context.WithTimeout(ctx, 5*time.Second)
	defer stopCancel()
	if err := p.Stop(stopCtx); err != nil {
		t.Errorf("Stop() error = %v", err)
	}
}
