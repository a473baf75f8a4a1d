package http

import (
	"net/http"
	"sync/atomic"

	"finlytics/internal/core"
	"finlytics/internal/services"
)

const maxTransactionLimit = 500

type (
	subscriptionList struct {
		Subscriptions []core.Subscription `json:"subscriptions"`
		MonthlyTotal  float64             `json:"monthlyTotal"`
		AnnualTotal   float64             `json:"annualTotal"`
	}

	savingList struct {
		Plans   []core.SavingPlan  `json:"plans"`
		Summary core.SavingSummary `json:"summary"`
	}

	profileView struct {
		Profile *core.UserProfile `json:"profile"`
	}
)

func (s *Server) recordWrite(r *http.Request, op, entity string, id int64, amount float64, category string) {
	atomic.AddInt64(&s.appMetrics.ledgerWrites, 1)
	s.events.LogLedgerWrite(r.Context(), op, entity, id, amount, category)
}

// Transactions

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	limit := ParseLimit(r.URL.Query(), services.DefaultTransactionLimit, maxTransactionLimit)
	txs, err := s.ledger.ListTransactions(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, "list_transactions", err)
		return
	}
	OK(map[string]any{"transactions": nonNil(txs)}).Write(w)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	body := parseBody(w, r)
	if body == nil {
		return
	}

	t, err := s.ledger.CreateTransaction(r.Context(), core.TransactionInput{
		Title:      body.Get("title"),
		Category:   body.Get("category"),
		Type:       body.Get("type"),
		Amount:     body.Get("amount"),
		OccurredAt: body.Get("occurredAt"),
		Notes:      body.Get("notes"),
	})
	if err != nil {
		s.writeError(w, r, "create_transaction", err)
		return
	}

	s.recordWrite(r, "create", "transaction", t.ID, t.Amount, t.Category)
	Created(t).Write(w)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		s.writeError(w, r, "delete_transaction", err)
		return
	}
	if err := s.ledger.DeleteTransaction(r.Context(), id); err != nil {
		s.writeError(w, r, "delete_transaction", err)
		return
	}

	s.recordWrite(r, "delete", "transaction", id, 0, "")
	NoContent().Write(w)
}

// Subscriptions

func (s *Server) handleListSubscriptions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	subs, err := s.ledger.ListSubscriptions(r.Context(), services.SubscriptionQuery{
		Sort:     sanitizeInput(q.Get("sort")),
		Category: sanitizeInput(q.Get("category")),
		Search:   sanitizeInput(q.Get("search")),
	})
	if err != nil {
		s.writeError(w, r, "list_subscriptions", err)
		return
	}

	OK(subscriptionList{
		Subscriptions: nonNil(subs),
		MonthlyTotal:  core.SubscriptionsMonthlyTotal(subs),
		AnnualTotal:   core.SubscriptionsAnnualTotal(subs),
	}).Write(w)
}

func (s *Server) handleCreateSubscription(w http.ResponseWriter, r *http.Request) {
	body := parseBody(w, r)
	if body == nil {
		return
	}

	sub, err := s.ledger.CreateSubscription(r.Context(), core.SubscriptionInput{
		Name:            body.Get("name"),
		Category:        body.Get("category"),
		Amount:          body.Get("amount"),
		BillingCycle:    body.Get("billingCycle"),
		NextBillingDate: body.Get("nextBillingDate"),
		Notes:           body.Get("notes"),
	})
	if err != nil {
		s.writeError(w, r, "create_subscription", err)
		return
	}

	s.recordWrite(r, "create", "subscription", sub.ID, sub.Amount, sub.Category)
	Created(sub).Write(w)
}

func (s *Server) handleDeleteSubscription(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		s.writeError(w, r, "delete_subscription", err)
		return
	}
	if err := s.ledger.DeleteSubscription(r.Context(), id); err != nil {
		s.writeError(w, r, "delete_subscription", err)
		return
	}

	s.recordWrite(r, "delete", "subscription", id, 0, "")
	NoContent().Write(w)
}

// Profile

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := s.ledger.GetProfile(r.Context())
	if err != nil {
		s.writeError(w, r, "get_profile", err)
		return
	}
	OK(profileView{Profile: p}).Write(w)
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	body := parseBody(w, r)
	if body == nil {
		return
	}

	p, err := s.ledger.SaveProfile(r.Context(), core.ProfileInput{
		FullName:      body.Get("fullName"),
		DateOfBirth:   body.Get("dateOfBirth"),
		MonthlyIncome: body.Get("monthlyIncome"),
	})
	if err != nil {
		s.writeError(w, r, "save_profile", err)
		return
	}

	s.recordWrite(r, "replace", "profile", p.ID, p.MonthlyIncome, "")
	OK(profileView{Profile: &p}).Write(w)
}

// Saving plans

func (s *Server) handleListSavings(w http.ResponseWriter, r *http.Request) {
	plans, summary, err := s.ledger.ListSavingPlans(r.Context())
	if err != nil {
		s.writeError(w, r, "list_saving_plans", err)
		return
	}
	OK(savingList{Plans: nonNil(plans), Summary: summary}).Write(w)
}

func (s *Server) handleCreateSaving(w http.ResponseWriter, r *http.Request) {
	body := parseBody(w, r)
	if body == nil {
		return
	}

	p, err := s.ledger.CreateSavingPlan(r.Context(), core.SavingPlanInput{
		Title:        body.Get("title"),
		Category:     body.Get("category"),
		TargetAmount: body.Get("targetAmount"),
		SavedAmount:  body.Get("savedAmount"),
		Note:         body.Get("note"),
	})
	if err != nil {
		s.writeError(w, r, "create_saving_plan", err)
		return
	}

	s.recordWrite(r, "create", "saving_plan", p.ID, p.TargetAmount, p.Category)
	Created(p).Write(w)
}

func (s *Server) handleDeleteSaving(w http.ResponseWriter, r *http.Request) {
	id, err := ParseID(r)
	if err != nil {
		s.writeError(w, r, "delete_saving_plan", err)
		return
	}
	if err := s.ledger.DeleteSavingPlan(r.Context(), id); err != nil {
		s.writeError(w, r, "delete_saving_plan", err)
		return
	}

	s.recordWrite(r, "delete", "saving_plan", id, 0, "")
	NoContent().Write(w)
}

// nonNil keeps empty lists encoding as [] rather than null.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
