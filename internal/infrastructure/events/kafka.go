// Package events publishes reconcile outcomes to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"SalesDriveSync/internal/domain"
	"SalesDriveSync/internal/ports"
)

// DefaultTopic receives one message per reconciled record.
const DefaultTopic = "salesdrive-product-events"

// OutcomeEvent is the JSON payload written to the topic.
type OutcomeEvent struct {
	ExternalID string         `json:"externalId"`
	EntryID    int64          `json:"entryId"`
	Outcome    domain.Outcome `json:"outcome"`
	Title      string         `json:"title"`
	Price      string         `json:"price"`
	SKU        string         `json:"sku"`
	Quantity   int            `json:"quantity"`
	Category   string         `json:"category,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes outcome events keyed by external id.
type KafkaPublisher struct {
	writer messageWriter
	now    func() time.Time
}

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

// NewKafkaPublisher builds a synchronous writer for brokers and topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
		now: time.Now,
	}
}

// PublishOutcome sends one event.
func (p *KafkaPublisher) PublishOutcome(ctx context.Context, record domain.ProductRecord, id domain.EntryID, outcome domain.Outcome) error {
	event := OutcomeEvent{
		ExternalID: record.ExternalID,
		EntryID:    int64(id),
		Outcome:    outcome,
		Title:      record.Title,
		Price:      record.Price,
		SKU:        record.SKU,
		Quantity:   domain.StockStateFor(record.QuantityValue()).Quantity,
		Category:   record.CategoryName,
		OccurredAt: p.now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal outcome event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(record.ExternalID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("write outcome event %s: %w", record.ExternalID, err)
	}
	return nil
}

// Close flushes and closes the writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
