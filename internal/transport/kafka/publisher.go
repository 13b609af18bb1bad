// Package kafka publishes product lifecycle events. Delivery is
// fire-and-forget: sends run on their own goroutine with a detached context,
// failures are logged and never surfaced to the command that triggered them.
package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/light-bringer/product-service/internal/app/product/contracts"
)

const publishTimeout = 10 * time.Second

// Topics names the destination topic per event type.
type Topics struct {
	Created       string
	Updated       string
	Deleted       string
	StatusChanged string
}

// Publisher implements ProductEventPublisher on kafka-go writers. Messages
// are keyed by product id so each product's events stay ordered within a
// partition.
type Publisher struct {
	created       *kafkago.Writer
	updated       *kafkago.Writer
	deleted       *kafkago.Writer
	statusChanged *kafkago.Writer
	logger        *zap.Logger
}

// NewPublisher creates a Publisher with one writer per topic.
func NewPublisher(brokers []string, topics Topics, logger *zap.Logger) *Publisher {
	newWriter := func(topic string) *kafkago.Writer {
		return &kafkago.Writer{
			Addr:         kafkago.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafkago.Hash{},
			RequiredAcks: kafkago.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		}
	}

	return &Publisher{
		created:       newWriter(topics.Created),
		updated:       newWriter(topics.Updated),
		deleted:       newWriter(topics.Deleted),
		statusChanged: newWriter(topics.StatusChanged),
		logger:        logger,
	}
}

// PublishProductCreated sends a product-created event.
func (p *Publisher) PublishProductCreated(_ context.Context, event contracts.ProductCreatedEvent) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	p.send(p.created, event.ProductID, event.EventID, event)
}

// PublishProductUpdated sends a product-updated event.
func (p *Publisher) PublishProductUpdated(_ context.Context, event contracts.ProductUpdatedEvent) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	p.send(p.updated, event.ProductID, event.EventID, event)
}

// PublishProductDeleted sends a product-deleted event.
func (p *Publisher) PublishProductDeleted(_ context.Context, event contracts.ProductDeletedEvent) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	p.send(p.deleted, event.ProductID, event.EventID, event)
}

// PublishProductStatusChanged sends a product-status-changed event.
func (p *Publisher) PublishProductStatusChanged(_ context.Context, event contracts.ProductStatusChangedEvent) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	p.send(p.statusChanged, event.ProductID, event.EventID, event)
}

// Close flushes and closes all writers.
func (p *Publisher) Close() error {
	var firstErr error
	for _, w := range []*kafkago.Writer{p.created, p.updated, p.deleted, p.statusChanged} {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// send serializes and writes the event asynchronously. The caller's context
// is deliberately not used: the command has already committed, so delivery
// must not be cancelled by the request ending.
func (p *Publisher) send(writer *kafkago.Writer, productID, eventID string, payload interface{}) {
	value, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("failed to serialize event",
			zap.String("topic", writer.Topic),
			zap.String("product_id", productID),
			zap.Error(err),
		)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()

		err := writer.WriteMessages(ctx, kafkago.Message{
			Key:   []byte(productID),
			Value: value,
		})
		if err != nil {
			p.logger.Error("failed to publish event",
				zap.String("topic", writer.Topic),
				zap.String("event_id", eventID),
				zap.String("product_id", productID),
				zap.Error(err),
			)
			return
		}

		p.logger.Info("event published",
			zap.String("topic", writer.Topic),
			zap.String("event_id", eventID),
			zap.String("product_id", productID),
		)
	}()
}
