package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finlytics/internal/amqp"
	"finlytics/internal/core"
	"finlytics/internal/storage"
)

// DefaultTransactionLimit caps ListTransactions when no limit is given.
const DefaultTransactionLimit = 100

// SubscriptionQuery narrows and orders a subscription listing.
type SubscriptionQuery struct {
	Sort     string
	Category string
	Search   string
}

// LedgerService validates ledger writes, stores them in SQLite and announces
// them over AMQP.
type LedgerService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
	queue      string
	now        func() time.Time
}

func NewLedgerService(storage *storage.SQLiteRepository, amqpClient *amqp.Client, queue string) *LedgerService {
	return &LedgerService{
		storage:    storage,
		amqpClient: amqpClient,
		queue:      queue,
		now:        time.Now,
	}
}

// Transactions

func (s *LedgerService) CreateTransaction(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	t, err := core.NewTransaction(in)
	if err != nil {
		return core.Transaction{}, err
	}
	t.CreatedAt = s.now()

	saved, err := s.storage.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publish(ctx, amqp.NewLedgerChangedMessage(amqp.EntityTransaction, amqp.OpCreated, saved.ID, saved.Amount, saved.Category))
	return saved, nil
}

// ListTransactions returns the newest transactions first. A limit below 1
// uses DefaultTransactionLimit.
func (s *LedgerService) ListTransactions(ctx context.Context, limit int) ([]core.Transaction, error) {
	if limit < 1 {
		limit = DefaultTransactionLimit
	}
	txs, err := s.storage.ListTransactions(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) error {
	if err := s.storage.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	s.publish(ctx, amqp.NewLedgerChangedMessage(amqp.EntityTransaction, amqp.OpDeleted, id, 0, ""))
	return nil
}

// Subscriptions

func (s *LedgerService) CreateSubscription(ctx context.Context, in core.SubscriptionInput) (core.Subscription, error) {
	sub, err := core.NewSubscription(in)
	if err != nil {
		return core.Subscription{}, err
	}
	sub.CreatedAt = s.now()

	saved, err := s.storage.CreateSubscription(ctx, sub)
	if err != nil {
		return core.Subscription{}, fmt.Errorf("save subscription: %w", err)
	}

	s.publish(ctx, amqp.NewLedgerChangedMessage(amqp.EntitySubscription, amqp.OpCreated, saved.ID, saved.Amount, saved.Category))
	return saved, nil
}

// ListSubscriptions filters by category and search text, then sorts by
// q.Sort. An empty sort keeps the stored order (next billing date, then name).
func (s *LedgerService) ListSubscriptions(ctx context.Context, q SubscriptionQuery) ([]core.Subscription, error) {
	subs, err := s.storage.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}

	subs = core.FilterSubscriptions(subs, q.Category, q.Search)
	if q.Sort != "" {
		core.SortSubscriptions(subs, q.Sort)
	}
	return subs, nil
}

func (s *LedgerService) DeleteSubscription(ctx context.Context, id int64) error {
	if err := s.storage.DeleteSubscription(ctx, id); err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	s.publish(ctx, amqp.NewLedgerChangedMessage(amqp.EntitySubscription, amqp.OpDeleted, id, 0, ""))
	return nil
}

// Profile

// GetProfile returns nil when no profile has been saved yet.
func (s *LedgerService) GetProfile(ctx context.Context) (*core.UserProfile, error) {
	p, err := s.storage.GetProfile(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

// SaveProfile replaces the stored profile.
func (s *LedgerService) SaveProfile(ctx context.Context, in core.ProfileInput) (core.UserProfile, error) {
	now := s.now()
	p, err := core.NewUserProfile(in, now)
	if err != nil {
		return core.UserProfile{}, err
	}
	p.CreatedAt = now

	saved, err := s.storage.ReplaceProfile(ctx, p)
	if err != nil {
		return core.UserProfile{}, fmt.Errorf("save profile: %w", err)
	}

	s.publish(ctx, amqp.NewLedgerChangedMessage(amqp.EntityProfile, amqp.OpReplaced, saved.ID, saved.MonthlyIncome, ""))
	return saved, nil
}

// Saving plans

func (s *LedgerService) CreateSavingPlan(ctx context.Context, in core.SavingPlanInput) (core.SavingPlan, error) {
	p, err := core.NewSavingPlan(in)
	if err != nil {
		return core.SavingPlan{}, err
	}
	p.CreatedAt = s.now()

	saved, err := s.storage.CreateSavingPlan(ctx, p)
	if err != nil {
		return core.SavingPlan{}, fmt.Errorf("save saving plan: %w", err)
	}

	s.publish(ctx, amqp.NewLedgerChangedMessage(amqp.EntitySavingPlan, amqp.OpCreated, saved.ID, saved.TargetAmount, saved.Category))
	return saved, nil
}

// ListSavingPlans returns every plan, newest first, with their summary.
func (s *LedgerService) ListSavingPlans(ctx context.Context) ([]core.SavingPlan, core.SavingSummary, error) {
	plans, err := s.storage.ListSavingPlans(ctx)
	if err != nil {
		return nil, core.SavingSummary{}, fmt.Errorf("list saving plans: %w", err)
	}
	return plans, core.SummarizeSavingPlans(plans), nil
}

func (s *LedgerService) DeleteSavingPlan(ctx context.Context, id int64) error {
	if err := s.storage.DeleteSavingPlan(ctx, id); err != nil {
		return fmt.Errorf("delete saving plan: %w", err)
	}
	s.publish(ctx, amqp.NewLedgerChangedMessage(amqp.EntitySavingPlan, amqp.OpDeleted, id, 0, ""))
	return nil
}

// publish never fails the write it reports on.
func (s *LedgerService) publish(ctx context.Context, msg *amqp.LedgerChangedMessage) {
	if s.amqpClient == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping ledger message",
			"entity", msg.Entity,
			"operation", msg.Operation)
		return
	}

	if err := s.amqpClient.PublishLedgerChanged(ctx, s.queue, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish ledger message",
			"entity", msg.Entity,
			"entity_id", msg.EntityID,
			"error", err)
	}
}

// Close closes both storage and AMQP connections
func (s *LedgerService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %w", errors.Join(errs...))
	}
	return nil
}
