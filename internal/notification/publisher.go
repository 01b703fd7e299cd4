package notification

import (
	"context"
	"fmt"
	"time"

	"auction-settlement/internal/biddingerrors"
	"auction-settlement/internal/metrics"
	"auction-settlement/internal/models"
	"auction-settlement/utils"
)

const (
	defaultAttempts = 3
	defaultBackoff  = 200 * time.Millisecond
)

// Publisher announces each product's winner at most once per ledger,
// retrying the bus a bounded number of times.
type Publisher struct {
	bus      MessageBus
	ledger   Ledger
	attempts int
	backoff  time.Duration
}

// PublisherOption customizes a Publisher
type PublisherOption func(*Publisher)

// WithRetry sets the number of send attempts and the initial delay between them.
// The delay doubles after every failed attempt.
func WithRetry(attempts int, backoff time.Duration) PublisherOption {
	return func(p *Publisher) {
		if attempts > 0 {
			p.attempts = attempts
		}
		if backoff >= 0 {
			p.backoff = backoff
		}
	}
}

// NewPublisher falls back to a MemoryLedger when ledger is nil
func NewPublisher(bus MessageBus, ledger Ledger, opts ...PublisherOption) *Publisher {
	if ledger == nil {
		ledger = NewMemoryLedger(0)
	}
	p := &Publisher{
		bus:      bus,
		ledger:   ledger,
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish sends the winner event. A product that was already announced
// returns ErrAlreadyNotified without touching the bus.
func (p *Publisher) Publish(ctx context.Context, winner models.WinnerResult) error {
	claimed, err := p.ledger.Claim(ctx, winner.ProductID)
	if err != nil {
		metrics.Notifications.WithLabelValues("failed").Inc()
		return fmt.Errorf("notification: %w - ledger unavailable: %w", biddingerrors.ErrUpstreamUnavailable, err)
	}
	if !claimed {
		metrics.Notifications.WithLabelValues("duplicate").Inc()
		return fmt.Errorf("notification: %w - product %s", biddingerrors.ErrAlreadyNotified, winner.ProductID)
	}

	fields := map[string]any{
		"product_id":     winner.ProductID,
		"bidder_id":      winner.BidderID,
		"winning_amount": winner.WinningAmount.String(),
	}

	delay := p.backoff
	var lastErr error
	for attempt := 1; attempt <= p.attempts; attempt++ {
		lastErr = p.bus.SendWinnerNotification(ctx, winner)
		if lastErr == nil {
			metrics.Notifications.WithLabelValues("sent").Inc()
			utils.Info("winner notification sent", fields)
			return nil
		}

		utils.Warn("winner notification attempt failed", map[string]any{
			"product_id": winner.ProductID,
			"attempt":    attempt,
			"error":      lastErr.Error(),
		})
		if attempt == p.attempts {
			break
		}
		if err := sleepCtx(ctx, delay); err != nil {
			lastErr = err
			break
		}
		delay *= 2
	}

	// let a later sweep retry this product
	if err := p.ledger.Release(context.WithoutCancel(ctx), winner.ProductID); err != nil {
		utils.Error("failed to release notification claim", map[string]any{"product_id": winner.ProductID, "error": err.Error()})
	}
	metrics.Notifications.WithLabelValues("failed").Inc()
	return fmt.Errorf("notification: %w - product %s: %w", biddingerrors.ErrUpstreamUnavailable, winner.ProductID, lastErr)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
