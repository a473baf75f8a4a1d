package core

import (
	"math"
	"strings"
)

type (
	// TransactionInput is raw user input for a transaction. Amount is text so
	// form and JSON bodies go through the same parsing.
	TransactionInput struct {
		Title      string
		Category   string
		Type       string
		Amount     string
		OccurredAt string
		Notes      string
	}

	SubscriptionInput struct {
		Name            string
		Category        string
		Amount          string
		BillingCycle    string
		NextBillingDate string
		Notes           string
	}
)

// NewTransaction trims and validates input. The type defaults to expense,
// the category to "Uncategorized", and a negative amount is stored as its
// absolute value.
func NewTransaction(in TransactionInput) (Transaction, error) {
	tx := Transaction{
		Title:    strings.TrimSpace(in.Title),
		Category: categoryName(in.Category, DefaultTransactionCategory),
		Notes:    strings.TrimSpace(in.Notes),
		Amount:   math.Abs(ParseAmount(in.Amount)),
	}
	if tx.Title == "" {
		return Transaction{}, invalid("title", "Please provide a title.")
	}

	occurred := strings.TrimSpace(in.OccurredAt)
	if occurred == "" {
		return Transaction{}, invalid("occurredAt", "Please select a date.")
	}
	date, err := ParseDate(occurred)
	if err != nil {
		return Transaction{}, invalid("occurredAt", "Please select a date.")
	}
	tx.OccurredAt = date

	if tx.Amount <= 0 {
		return Transaction{}, invalid("amount", "Enter an amount greater than zero.")
	}

	kind := strings.TrimSpace(in.Type)
	if kind == "" {
		kind = string(Expense)
	}
	t, ok := ParseTransactionType(kind)
	if !ok {
		return Transaction{}, invalid("type", "Select a transaction type.")
	}
	tx.Type = t
	return tx, nil
}

// NewSubscription trims and validates input. An empty category becomes
// "Subscriptions".
func NewSubscription(in SubscriptionInput) (Subscription, error) {
	sub := Subscription{
		Name:     strings.TrimSpace(in.Name),
		Category: categoryName(in.Category, DefaultSubscriptionCategory),
		Amount:   ParseAmount(in.Amount),
		Notes:    strings.TrimSpace(in.Notes),
	}
	if sub.Name == "" {
		return Subscription{}, invalid("name", "Subscription name is required.")
	}
	if sub.Amount <= 0 {
		return Subscription{}, invalid("amount", "Enter a valid amount greater than zero.")
	}

	cycle, ok := ParseBillingCycle(in.BillingCycle)
	if !ok {
		return Subscription{}, invalid("billingCycle", "Select a supported billing cycle.")
	}
	sub.BillingCycle = cycle

	next := strings.TrimSpace(in.NextBillingDate)
	if next == "" {
		return Subscription{}, invalid("nextBillingDate", "Next billing date is required.")
	}
	date, err := ParseDate(next)
	if err != nil {
		return Subscription{}, invalid("nextBillingDate", "Provide a valid next billing date.")
	}
	sub.NextBillingDate = date
	return sub, nil
}
