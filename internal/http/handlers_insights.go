package http

import (
	"net/http"

	"finlytics/internal/core"
	"finlytics/internal/format"
	"finlytics/internal/log"
	"finlytics/internal/services"
)

type (
	snapshotView struct {
		core.FinancialSnapshot
		Feedback string          `json:"feedback,omitempty"`
		Display  format.Snapshot `json:"display"`
	}

	affordabilityView struct {
		services.Affordability
		Display format.Snapshot `json:"display"`
	}

	dashboardView struct {
		services.Dashboard
		Display format.Snapshot `json:"display"`
	}

	forecastView struct {
		services.ForecastView
		Display forecastDisplay `json:"display"`
	}

	forecastDisplay struct {
		ExpenseTrend string `json:"expenseTrend"`
		IncomeTrend  string `json:"incomeTrend"`
	}
)

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.insights.Snapshot(r.Context())
	if err != nil {
		s.writeError(w, r, "snapshot", err)
		return
	}
	OK(snapshotView{
		FinancialSnapshot: snap,
		Feedback:          snap.Feedback(),
		Display:           s.formatter.Snapshot(snap),
	}).Write(w)
}

func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	OK(map[string]any{
		"plans":         core.PaymentPlans(),
		"billingCycles": core.BillingCycles(),
	}).Write(w)
}

// handleAffordability evaluates {amount, plan}. A missing plan means paying
// in full.
func (s *Server) handleAffordability(w http.ResponseWriter, r *http.Request) {
	body := parseBody(w, r)
	if body == nil {
		return
	}

	planKey := body.Get("plan")
	if planKey == "" {
		planKey = core.PaymentPlans()[0].Key
	}

	result, err := s.insights.Evaluate(r.Context(), core.ParseAmount(body.Get("amount")), planKey)
	if err != nil {
		s.writeError(w, r, "affordability", err)
		return
	}

	log.FromContext(r.Context()).DebugContext(r.Context(), "Purchase evaluated",
		log.FieldPlan, result.Plan.Key,
		log.FieldAmount, result.Evaluation.PurchaseAmount,
		"affordable", result.Evaluation.Affordable)
	OK(affordabilityView{Affordability: result, Display: s.formatter.Snapshot(result.Snapshot)}).Write(w)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.insights.Dashboard(r.Context())
	if err != nil {
		s.writeError(w, r, "dashboard", err)
		return
	}
	OK(dashboardView{Dashboard: d, Display: s.formatter.Snapshot(d.Snapshot)}).Write(w)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	f, err := s.insights.Forecast(r.Context())
	if err != nil {
		s.writeError(w, r, "forecast", err)
		return
	}
	OK(forecastView{
		ForecastView: f,
		Display: forecastDisplay{
			ExpenseTrend: s.formatter.TrendChange(f.ExpenseTrend),
			IncomeTrend:  s.formatter.TrendChange(f.IncomeTrend),
		},
	}).Write(w)
}

// Reports

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	view, err := s.reports.Metrics(r.Context())
	if err != nil {
		s.writeError(w, r, "list_reports", err)
		return
	}
	view.Reports = nonNil(view.Reports)
	OK(view).Write(w)
}

// handleRequestReport answers 202 when the report was queued for the
// worker, or 201 with the report when it was generated inline.
func (s *Server) handleRequestReport(w http.ResponseWriter, r *http.Request) {
	body := parseBody(w, r)
	if body == nil {
		return
	}

	report, queued, err := s.reports.Request(r.Context(), body.Bool("export"))
	if err != nil {
		s.writeError(w, r, "request_report", err)
		return
	}

	if queued {
		log.FromContext(r.Context()).InfoContext(r.Context(), "Report request queued")
		NewResponse().Status(http.StatusAccepted).JSON(map[string]string{"status": "queued"}).Write(w)
		return
	}

	log.FromContext(r.Context()).InfoContext(r.Context(), "Report generated",
		log.FieldReportID, report.ID)
	Created(report).Write(w)
}
