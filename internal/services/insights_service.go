package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"finlytics/internal/core"
	"finlytics/internal/storage"
)

type (
	InsightsConfig struct {
		// CategoryLookbackDays is the window the dashboard category
		// breakdown covers, ending today.
		CategoryLookbackDays int
		DueSoonDays          int
	}

	Affordability struct {
		Plan       core.PaymentPlan       `json:"plan"`
		Evaluation core.Evaluation        `json:"evaluation"`
		Advice     core.Advice            `json:"advice"`
		Snapshot   core.FinancialSnapshot `json:"snapshot"`
	}

	// Renewal is a subscription with its due status as of the request.
	Renewal struct {
		core.Subscription
		Status    core.DueStatus `json:"status"`
		DaysUntil int            `json:"daysUntil"`
	}

	Dashboard struct {
		Snapshot            core.FinancialSnapshot `json:"snapshot"`
		Feedback            string                 `json:"feedback,omitempty"`
		Series              []core.MonthBucket     `json:"series"`
		Categories          []core.CategoryAmount  `json:"categories"`
		SubscriptionMonthly float64                `json:"subscriptionMonthly"`
		SubscriptionAnnual  float64                `json:"subscriptionAnnual"`
		BaselineIncome      float64                `json:"baselineIncome"`
		Renewals            []Renewal              `json:"renewals"`
	}

	ForecastView struct {
		History      []core.MonthBucket   `json:"history"`
		Forecast     []core.ForecastPoint `json:"forecast"`
		HasActivity  bool                 `json:"hasActivity"`
		Message      string               `json:"message,omitempty"`
		ExpenseTrend *core.TrendSummary   `json:"expenseTrend"`
		IncomeTrend  *core.TrendSummary   `json:"incomeTrend"`
		Categories   []core.OutlookRow    `json:"categories"`
		RiskCategory *core.OutlookRow     `json:"riskCategory"`
	}
)

// InsightsService derives snapshots, dashboards and forecasts from the
// ledger. Nothing is cached: every call reads the store again.
type InsightsService struct {
	storage *storage.SQLiteRepository
	config  InsightsConfig
	now     func() time.Time
}

func NewInsightsService(storage *storage.SQLiteRepository, config InsightsConfig) *InsightsService {
	if config.CategoryLookbackDays < 1 {
		config.CategoryLookbackDays = 30
	}
	if config.DueSoonDays < 1 {
		config.DueSoonDays = core.DefaultDueSoonDays
	}
	return &InsightsService{
		storage: storage,
		config:  config,
		now:     time.Now,
	}
}

// Snapshot computes the current-month position. The month totals and the
// subscription list are read concurrently.
func (s *InsightsService) Snapshot(ctx context.Context) (core.FinancialSnapshot, error) {
	return s.SnapshotAt(ctx, s.now())
}

// SnapshotAt computes the position for the calendar month containing now.
func (s *InsightsService) SnapshotAt(ctx context.Context, now time.Time) (core.FinancialSnapshot, error) {
	var (
		totals core.MonthTotals
		subs   []core.Subscription
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.storage.MonthTotals(gctx, core.MonthStart(now), core.AddMonths(now, 1))
		return err
	})
	g.Go(func() error {
		var err error
		subs, err = s.storage.ListSubscriptions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.FinancialSnapshot{}, fmt.Errorf("compute snapshot: %w", err)
	}

	return core.ComputeSnapshot(now, totals, subs), nil
}

// Evaluate checks a purchase against a fresh snapshot.
func (s *InsightsService) Evaluate(ctx context.Context, amount float64, planKey string) (Affordability, error) {
	if err := core.ValidatePurchase(amount); err != nil {
		return Affordability{}, err
	}
	plan, err := core.LookupPlan(planKey)
	if err != nil {
		return Affordability{}, err
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return Affordability{}, err
	}

	eval := core.EvaluateWithLimits(amount, plan, snap.Limits())
	return Affordability{
		Plan:       plan,
		Evaluation: eval,
		Advice:     core.Advise(plan, eval),
		Snapshot:   snap,
	}, nil
}

// Dashboard gathers the snapshot, the six month series, the category
// breakdown and upcoming renewals from one round of concurrent reads.
func (s *InsightsService) Dashboard(ctx context.Context) (Dashboard, error) {
	now := s.now()
	seriesStart, seriesEnd := core.SeriesRange(core.HistoryMonths, now)
	today := core.DateOf(now)
	lookbackStart := core.DateOf(today.AddDate(0, 0, -s.config.CategoryLookbackDays))
	tomorrow := core.DateOf(today.AddDate(0, 0, 1))

	var (
		totals     core.MonthTotals
		subs       []core.Subscription
		periods    []core.PeriodTotals
		categories []core.CategoryAmount
		profile    *core.UserProfile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		totals, err = s.storage.MonthTotals(gctx, core.MonthStart(now), core.AddMonths(now, 1))
		return err
	})
	g.Go(func() error {
		var err error
		subs, err = s.storage.ListSubscriptions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		periods, err = s.storage.PeriodTotals(gctx, seriesStart, seriesEnd)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.storage.CategoryTotals(gctx, lookbackStart, tomorrow)
		return err
	})
	g.Go(func() error {
		var err error
		profile, err = s.profile(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, fmt.Errorf("build dashboard: %w", err)
	}

	snap := core.ComputeSnapshot(now, totals, subs)
	series := core.BuildMonthlySeries(core.HistoryMonths, now, periods, snap.SubscriptionMonthly)

	return Dashboard{
		Snapshot:            snap,
		Feedback:            snap.Feedback(),
		Series:              series,
		Categories:          core.MergeCategories(categories, core.SubscriptionCategories(subs)),
		SubscriptionMonthly: core.Round2(snap.SubscriptionMonthly),
		SubscriptionAnnual:  core.Round2(core.SubscriptionsAnnualTotal(subs)),
		BaselineIncome:      core.BaselineIncome(series, profile),
		Renewals:            s.renewals(now, subs),
	}, nil
}

// Forecast projects the next three months from six months of history and
// compares each category with the previous month.
func (s *InsightsService) Forecast(ctx context.Context) (ForecastView, error) {
	now := s.now()
	seriesStart, seriesEnd := core.SeriesRange(core.HistoryMonths, now)
	previousStart := core.AddMonths(now, -1)

	var (
		subs       []core.Subscription
		periods    []core.PeriodTotals
		categories []core.CategoryPeriodTotal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		subs, err = s.storage.ListSubscriptions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		periods, err = s.storage.PeriodTotals(gctx, seriesStart, seriesEnd)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.storage.CategoryPeriodTotals(gctx, previousStart, seriesEnd)
		return err
	})
	if err := g.Wait(); err != nil {
		return ForecastView{}, fmt.Errorf("build forecast: %w", err)
	}

	history := core.BuildMonthlySeries(core.HistoryMonths, now, periods, core.SubscriptionsMonthlyTotal(subs))
	view := ForecastView{
		History:     history,
		Forecast:    []core.ForecastPoint{},
		HasActivity: core.HasActivity(history),
	}
	outlook := core.BuildCategoryOutlook(categories, core.PeriodKey(now), core.PeriodKey(previousStart.Time), subs)
	view.Categories = outlook
	view.RiskCategory = core.RiskCategory(outlook)

	if !view.HasActivity {
		view.Message = core.NoActivityMessage
		return view, nil
	}

	view.Forecast = core.Forecast(history, core.ForecastMonths)
	view.ExpenseTrend = core.ExpenseTrend(history, view.Forecast)
	view.IncomeTrend = core.IncomeTrend(history, view.Forecast)
	return view, nil
}

func (s *InsightsService) profile(ctx context.Context) (*core.UserProfile, error) {
	p, err := s.storage.GetProfile(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// renewals keeps subscriptions that are overdue or due within the
// configured window, soonest first.
func (s *InsightsService) renewals(now time.Time, subs []core.Subscription) []Renewal {
	sorted := append([]core.Subscription(nil), subs...)
	core.SortSubscriptions(sorted, core.SortNextBilling)

	out := []Renewal{}
	for _, sub := range sorted {
		status := sub.DueStatus(now, s.config.DueSoonDays)
		if status == core.StatusScheduled {
			continue
		}
		out = append(out, Renewal{
			Subscription: sub,
			Status:       status,
			DaysUntil:    core.DaysUntil(now, sub.NextBillingDate),
		})
	}
	return out
}
