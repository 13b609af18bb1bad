package contracts

import (
	"context"
	"time"
)

// Outbound event payloads. EventID is assigned by the publishing adapter if
// left empty; the field layout is the wire contract consumed by the
// inventory service and other subscribers.

// ProductCreatedEvent announces a newly created product.
type ProductCreatedEvent struct {
	EventID   string    `json:"eventId"`
	ProductID string    `json:"productId"`
	SellerID  string    `json:"sellerId"`
	HubID     string    `json:"hubId,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// ProductUpdatedEvent announces changed product details. Price is the
// decimal string rendering of the new price.
type ProductUpdatedEvent struct {
	EventID   string    `json:"eventId"`
	ProductID string    `json:"productId"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProductDeletedEvent announces a soft-deleted product.
type ProductDeletedEvent struct {
	EventID   string    `json:"eventId"`
	ProductID string    `json:"productId"`
	SellerID  string    `json:"sellerId"`
	DeletedAt time.Time `json:"deletedAt"`
}

// ProductStatusChangedEvent carries the before/after lifecycle state.
type ProductStatusChangedEvent struct {
	EventID   string    `json:"eventId"`
	ProductID string    `json:"productId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	ChangedAt time.Time `json:"changedAt"`
}

// ProductEventPublisher is the outbound event port, keyed by product id for
// per-product ordering at the transport level.
//
// Publication is fire-and-forget: implementations must not block the calling
// command and must not surface delivery failures back into it. Failures are
// logged; the command is already committed.
type ProductEventPublisher interface {
	PublishProductCreated(ctx context.Context, event ProductCreatedEvent)
	PublishProductUpdated(ctx context.Context, event ProductUpdatedEvent)
	PublishProductDeleted(ctx context.Context, event ProductDeletedEvent)
	PublishProductStatusChanged(ctx context.Context, event ProductStatusChangedEvent)
}
