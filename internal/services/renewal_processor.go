package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"finlytics/internal/amqp"
	"finlytics/internal/core"
	"finlytics/internal/storage"
)

var ErrProcessorRunning = errors.New("renewal processor is already running")

// RenewalProcessor rolls past-due subscriptions forward so every
// next_billing_date is today or later. It runs once on Start and then on
// every tick of interval.
type RenewalProcessor struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
	queue      string
	interval   time.Duration
	now        func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewRenewalProcessor(storage *storage.SQLiteRepository, amqpClient *amqp.Client, queue string, interval time.Duration) *RenewalProcessor {
	if interval <= 0 {
		interval = time.Hour
	}
	return &RenewalProcessor{
		storage:    storage,
		amqpClient: amqpClient,
		queue:      queue,
		interval:   interval,
		now:        time.Now,
	}
}

// ProcessDue renews every subscription billed before today and returns how
// many were moved. A failing subscription is logged and skipped.
func (p *RenewalProcessor) ProcessDue(ctx context.Context) (int, error) {
	if p.storage == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	today := core.DateOf(p.now())
	due, err := p.storage.ListSubscriptionsDueBefore(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("list due subscriptions: %w", err)
	}

	slog.InfoContext(ctx, "Processing subscription renewals",
		"due", len(due),
		"processing_date", today.String())

	renewed := 0
	for _, sub := range due {
		if sub.NextBillingDate.IsZero() {
			continue
		}

		advancer, err := GetCycleAdvancer(sub.BillingCycle)
		if err != nil {
			slog.ErrorContext(ctx, "Skipping subscription with unknown cycle",
				"subscription_id", sub.ID,
				"billing_cycle", sub.BillingCycle,
				"error", err)
			continue
		}

		next, cycles := RollForward(advancer, sub.NextBillingDate, today)
		if err := p.storage.UpdateNextBillingDate(ctx, sub.ID, next); err != nil {
			slog.ErrorContext(ctx, "Failed to renew subscription",
				"subscription_id", sub.ID,
				"error", err)
			continue
		}

		renewed++
		slog.InfoContext(ctx, "Subscription rolled forward",
			"subscription_id", sub.ID,
			"name", sub.Name,
			"from", sub.NextBillingDate.String(),
			"to", next.String(),
			"cycles", cycles)
		p.publish(ctx, sub)
	}

	slog.InfoContext(ctx, "Subscription renewal complete",
		"renewed", renewed,
		"total_checked", len(due))

	return renewed, nil
}

func (p *RenewalProcessor) publish(ctx context.Context, sub core.Subscription) {
	if p.amqpClient == nil {
		return
	}
	msg := amqp.NewLedgerChangedMessage(amqp.EntitySubscription, amqp.OpRenewed, sub.ID, sub.Amount, sub.Category)
	if err := p.amqpClient.PublishLedgerChanged(ctx, p.queue, msg); err != nil {
		slog.WarnContext(ctx, "Failed to publish renewal message",
			"subscription_id", sub.ID,
			"error", err)
	}
}

// Start runs ProcessDue immediately and then on every interval until Stop
// is called or ctx is done.
func (p *RenewalProcessor) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return ErrProcessorRunning
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.doneCh = make(chan struct{})
	stopCh, doneCh := p.stopCh, p.doneCh
	p.mu.Unlock()

	go p.runLoop(ctx, stopCh, doneCh)

	slog.InfoContext(ctx, "Renewal processor started", "interval", p.interval)
	return nil
}

// Stop signals the loop and waits for it to finish or ctx to expire. The
// processor counts as stopped either way, so Stop can be repeated and Start
// called again.
func (p *RenewalProcessor) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	stopCh, doneCh := p.stopCh, p.doneCh
	p.running = false
	p.stopCh, p.doneCh = nil, nil
	p.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		slog.InfoContext(ctx, "Renewal processor stopped gracefully")
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "Renewal processor stop timed out")
		return ctx.Err()
	}
}

func (p *RenewalProcessor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *RenewalProcessor) runLoop(ctx context.Context, stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.tick(ctx)

	for {
		select {
		case <-stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *RenewalProcessor) tick(ctx context.Context) {
	if _, err := p.ProcessDue(ctx); err != nil {
		slog.ErrorContext(ctx, "Renewal run failed", "error", err)
	}
}
