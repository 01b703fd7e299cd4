// Package notification delivers winner events to downstream consumers.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"auction-settlement/internal/models"
	"auction-settlement/utils"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=bus.go -destination=mock_bus.go -package=notification

// MessageBus sends a single winner event
type MessageBus interface {
	SendWinnerNotification(ctx context.Context, winner models.WinnerResult) error
}

// WinnerNotification is the event written to the winners topic
type WinnerNotification struct {
	EventID       string          `json:"event_id"`
	ProductID     string          `json:"product_id"`
	BidderID      string          `json:"bidder_id"`
	WinningAmount decimal.Decimal `json:"winning_amount"`
	SettledAt     time.Time       `json:"settled_at"`
}

func newWinnerNotification(winner models.WinnerResult, now time.Time) WinnerNotification {
	return WinnerNotification{
		EventID:       utils.GenerateID(),
		ProductID:     winner.ProductID,
		BidderID:      winner.BidderID,
		WinningAmount: winner.WinningAmount,
		SettledAt:     now.UTC(),
	}
}

// messageWriter is the subset of *kafka.Writer used by KafkaBus
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// NewKafkaWriter builds a writer for the winners topic
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
}

// KafkaBus publishes winner events as JSON keyed by product id,
// so every event of one product lands on the same partition.
type KafkaBus struct {
	writer messageWriter
	now    func() time.Time
}

func NewKafkaBus(writer messageWriter) *KafkaBus {
	return &KafkaBus{writer: writer, now: time.Now}
}

func (b *KafkaBus) SendWinnerNotification(ctx context.Context, winner models.WinnerResult) error {
	event := newWinnerNotification(winner, b.now())
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode winner event for product %s: %w", winner.ProductID, err)
	}

	msg := kafka.Message{
		Key:   []byte(winner.ProductID),
		Value: payload,
		Time:  event.SettledAt,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
		},
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write winner event for product %s: %w", winner.ProductID, err)
	}

	utils.Debug("winner event written", map[string]any{"event_id": event.EventID, "product_id": winner.ProductID})
	return nil
}

func (b *KafkaBus) Close() error {
	return b.writer.Close()
}

// LogBus only logs winner events. Used when no broker is configured.
type LogBus struct {
	now func() time.Time
}

func NewLogBus() *LogBus {
	return &LogBus{now: time.Now}
}

func (b *LogBus) SendWinnerNotification(_ context.Context, winner models.WinnerResult) error {
	event := newWinnerNotification(winner, b.now())
	utils.Info("winner notification", map[string]any{
		"event_id":       event.EventID,
		"product_id":     event.ProductID,
		"bidder_id":      event.BidderID,
		"winning_amount": event.WinningAmount.String(),
	})
	return nil
}
