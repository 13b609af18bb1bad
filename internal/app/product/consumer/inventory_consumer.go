// Package consumer reacts to inventory events by reconciling product
// lifecycle state. Offsets are committed manually: a message is acknowledged
// only after its command succeeds. Group commits are cumulative, so a failed
// message stops the loop entirely — committing any later offset would
// acknowledge the failed one with it. A restart resumes from the last
// committed offset and redelivers; the commands' idempotency absorbs the
// duplicates.
package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// MessageSource abstracts a kafka.Reader for testability.
type MessageSource interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// StockCommands is the slice of the product service the consumer drives.
type StockCommands interface {
	MarkAsOutOfStock(ctx context.Context, productID string) error
	RestoreFromOutOfStock(ctx context.Context, productID string) error
}

// InventoryLowStockEvent signals that a product's stock fell to or below its
// alert threshold.
type InventoryLowStockEvent struct {
	ProductID       string    `json:"productId"`
	HubID           string    `json:"hubId,omitempty"`
	CurrentQuantity int       `json:"currentQuantity"`
	Threshold       int       `json:"threshold"`
	EventTimestamp  time.Time `json:"eventTimestamp"`
}

// InventoryRestockedEvent signals that a product's stock was replenished.
type InventoryRestockedEvent struct {
	ProductID      string    `json:"productId"`
	HubID          string    `json:"hubId,omitempty"`
	NewQuantity    int       `json:"newQuantity"`
	EventTimestamp time.Time `json:"eventTimestamp"`
}

// InventoryConsumer runs one fetch loop per inventory topic.
type InventoryConsumer struct {
	lowStock  MessageSource
	restocked MessageSource
	service   StockCommands
	logger    *zap.Logger
}

// NewInventoryConsumer creates a new InventoryConsumer over the two inventory
// topic sources.
func NewInventoryConsumer(lowStock, restocked MessageSource, service StockCommands, logger *zap.Logger) *InventoryConsumer {
	return &InventoryConsumer{
		lowStock:  lowStock,
		restocked: restocked,
		service:   service,
		logger:    logger,
	}
}

// Run consumes both topics until the context is cancelled.
func (c *InventoryConsumer) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return c.consume(ctx, c.lowStock, "inventory-low-stock", c.handleLowStock)
	})
	g.Go(func() error {
		return c.consume(ctx, c.restocked, "inventory-restocked", c.handleRestocked)
	})

	return g.Wait()
}

// Close closes both underlying sources.
func (c *InventoryConsumer) Close() error {
	lowErr := c.lowStock.Close()
	restockedErr := c.restocked.Close()
	if lowErr != nil {
		return lowErr
	}
	return restockedErr
}

// consume fetches messages in a loop and applies the commit policy: malformed
// messages are committed so they never wedge the partition, command failures
// stop the loop with the offset uncommitted so the message redelivers.
func (c *InventoryConsumer) consume(
	ctx context.Context,
	source MessageSource,
	topic string,
	handle func(ctx context.Context, msg kafka.Message) error,
) error {
	for {
		msg, err := source.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}

		if err := handle(ctx, msg); err != nil {
			c.logger.Error("failed to process inventory event",
				zap.String("topic", topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			return fmt.Errorf("failed to process %s offset %d: %w", topic, msg.Offset, err)
		}

		if err := source.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("failed to commit offset",
				zap.String("topic", topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

func (c *InventoryConsumer) handleLowStock(ctx context.Context, msg kafka.Message) error {
	var event InventoryLowStockEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logPoison(msg, err)
		return nil
	}

	c.logger.Info("low stock event received",
		zap.String("product_id", event.ProductID),
		zap.Int("current_quantity", event.CurrentQuantity),
		zap.Int("threshold", event.Threshold),
	)

	return c.service.MarkAsOutOfStock(ctx, event.ProductID)
}

func (c *InventoryConsumer) handleRestocked(ctx context.Context, msg kafka.Message) error {
	var event InventoryRestockedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		c.logPoison(msg, err)
		return nil
	}

	c.logger.Info("restocked event received",
		zap.String("product_id", event.ProductID),
		zap.Int("new_quantity", event.NewQuantity),
	)

	return c.service.RestoreFromOutOfStock(ctx, event.ProductID)
}

// logPoison records a message that can never be processed. The caller
// returns nil so the offset is committed and the partition keeps moving.
func (c *InventoryConsumer) logPoison(msg kafka.Message, cause error) {
	c.logger.Error("discarding malformed inventory event",
		zap.String("topic", msg.Topic),
		zap.Int64("offset", msg.Offset),
		zap.Error(cause),
	)
}
