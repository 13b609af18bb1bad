package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/light-bringer/product-service/internal/pkg/clock"
)

// Field names for change tracking
const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldStatus      = "status"
	FieldIsSellable  = "is_sellable"
	FieldHasEvent    = "has_event"
	FieldDeleted     = "deleted"
)

const maxNameLength = 100

// Product is the aggregate root for the catalog. All lifecycle transitions
// go through its methods; status is never assigned directly.
//
// isSellable is a stored flag, not a derived property: every transition sets
// it explicitly, and it must mirror status.IsSellable(). IsSellableConsistent
// exposes the check so adapters can flag divergent rows.
type Product struct {
	id               string
	sellerID         string
	name             string
	description      string
	price            Price
	status           ProductStatus
	isSellable       bool
	hasEvent         bool
	minOrderQuantity int
	maxOrderQuantity int

	createdAt time.Time
	createdBy string
	updatedAt time.Time
	updatedBy string
	deletedAt *time.Time
	deletedBy string
	deleted   bool

	// Version for optimistic locking; zero means not yet persisted.
	version int64

	clock clock.Clock

	// Change tracking for optimized repository updates
	changes *ChangeTracker
}

// NewProduct creates a new Product aggregate in DRAFT status.
func NewProduct(
	id, sellerID, name, description string,
	price Price,
	minOrderQuantity, maxOrderQuantity int,
	clk clock.Clock,
) (*Product, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	if err := validateOrderQuantityBounds(minOrderQuantity, maxOrderQuantity); err != nil {
		return nil, err
	}

	now := clk.Now()

	p := &Product{
		id:               id,
		sellerID:         sellerID,
		name:             name,
		description:      description,
		price:            price,
		status:           StatusDraft,
		isSellable:       false,
		hasEvent:         false,
		minOrderQuantity: minOrderQuantity,
		maxOrderQuantity: maxOrderQuantity,
		createdAt:        now,
		createdBy:        sellerID,
		updatedAt:        now,
		updatedBy:        sellerID,
		deleted:          false,
		clock:            clk,
		changes:          NewChangeTracker(),
	}

	// Mark all fields as dirty for a new product
	p.changes.MarkDirty(FieldName)
	p.changes.MarkDirty(FieldDescription)
	p.changes.MarkDirty(FieldPrice)
	p.changes.MarkDirty(FieldStatus)
	p.changes.MarkDirty(FieldIsSellable)
	p.changes.MarkDirty(FieldHasEvent)

	return p, nil
}

// Reconstruct reconstitutes a Product from storage. The data is trusted, so
// no invariant validation runs here.
func Reconstruct(
	id, sellerID, name, description string,
	price Price,
	status ProductStatus,
	isSellable, hasEvent bool,
	minOrderQuantity, maxOrderQuantity int,
	version int64,
	createdAt time.Time, createdBy string,
	updatedAt time.Time, updatedBy string,
	deletedAt *time.Time, deletedBy string,
	deleted bool,
	clk clock.Clock,
) *Product {
	return &Product{
		id:               id,
		sellerID:         sellerID,
		name:             name,
		description:      description,
		price:            price,
		status:           status,
		isSellable:       isSellable,
		hasEvent:         hasEvent,
		minOrderQuantity: minOrderQuantity,
		maxOrderQuantity: maxOrderQuantity,
		version:          version,
		createdAt:        createdAt,
		createdBy:        createdBy,
		updatedAt:        updatedAt,
		updatedBy:        updatedBy,
		deletedAt:        deletedAt,
		deletedBy:        deletedBy,
		deleted:          deleted,
		clock:            clk,
		changes:          NewChangeTracker(),
	}
}

// Getters
func (p *Product) ID() string              { return p.id }
func (p *Product) SellerID() string        { return p.sellerID }
func (p *Product) Name() string            { return p.name }
func (p *Product) Description() string     { return p.description }
func (p *Product) Price() Price            { return p.price }
func (p *Product) Status() ProductStatus   { return p.status }
func (p *Product) IsSellable() bool        { return p.isSellable }
func (p *Product) HasEvent() bool          { return p.hasEvent }
func (p *Product) MinOrderQuantity() int   { return p.minOrderQuantity }
func (p *Product) MaxOrderQuantity() int   { return p.maxOrderQuantity }
func (p *Product) Version() int64          { return p.version }
func (p *Product) CreatedAt() time.Time    { return p.createdAt }
func (p *Product) CreatedBy() string       { return p.createdBy }
func (p *Product) UpdatedAt() time.Time    { return p.updatedAt }
func (p *Product) UpdatedBy() string       { return p.updatedBy }
func (p *Product) DeletedAt() *time.Time   { return p.deletedAt }
func (p *Product) DeletedBy() string       { return p.deletedBy }
func (p *Product) IsDeleted() bool         { return p.deleted }
func (p *Product) Changes() *ChangeTracker { return p.changes }

// IsNew reports whether the aggregate has never been persisted.
func (p *Product) IsNew() bool { return p.version == 0 }

// CommitVersion records a successful persist: the optimistic-lock version
// advances and tracked changes reset. Called by the repository only.
func (p *Product) CommitVersion() {
	p.version++
	p.changes.Clear()
}

// Update replaces name, description and price.
func (p *Product) Update(name, description string, price Price) error {
	if !p.status.IsModifiable() {
		return ErrCannotModifyDiscontinuedProduct
	}

	if err := validateName(name); err != nil {
		return err
	}

	p.name = name
	p.description = description
	p.price = price
	p.changes.MarkDirty(FieldName)
	p.changes.MarkDirty(FieldDescription)
	p.changes.MarkDirty(FieldPrice)
	p.touch()

	return nil
}

// Activate puts the product on sale.
func (p *Product) Activate() error {
	if p.status == StatusDiscontinued {
		return ErrProductAlreadyDiscontinued
	}

	p.setStatus(StatusActive, true)
	return nil
}

// Suspend pauses sales. Reversible via Activate.
func (p *Product) Suspend() error {
	if p.status == StatusDiscontinued {
		return ErrProductAlreadyDiscontinued
	}

	p.setStatus(StatusSuspended, false)
	return nil
}

// Discontinue permanently retires the product. Terminal.
func (p *Product) Discontinue() error {
	if p.status == StatusDiscontinued {
		return ErrProductAlreadyDiscontinued
	}

	p.setStatus(StatusDiscontinued, false)
	return nil
}

// MarkOutOfStock records inventory depletion. Unconditional: idempotency for
// stock-out is the orchestration layer's responsibility.
func (p *Product) MarkOutOfStock() {
	p.setStatus(StatusOutOfStock, false)
}

// SetEventStatus toggles the marketing-event flag. Independent of lifecycle.
func (p *Product) SetEventStatus(hasEvent bool) {
	p.hasEvent = hasEvent
	p.changes.MarkDirty(FieldHasEvent)
	p.touch()
}

// ValidateOrderQuantity checks an order quantity against the product's
// bounds. Pure check, no mutation.
func (p *Product) ValidateOrderQuantity(quantity int) error {
	if quantity < p.minOrderQuantity {
		return ErrOrderQuantityBelowMinimum.WithDetail(
			"minimum order quantity: %d, requested: %d", p.minOrderQuantity, quantity)
	}

	if quantity > p.maxOrderQuantity {
		return ErrOrderQuantityExceedsMaximum.WithDetail(
			"maximum order quantity: %d, requested: %d", p.maxOrderQuantity, quantity)
	}

	return nil
}

// Delete marks the product soft-deleted. Reversible via Restore.
func (p *Product) Delete(deletedBy string) {
	now := p.clock.Now()
	p.deleted = true
	p.deletedAt = &now
	p.deletedBy = deletedBy
	p.changes.MarkDirty(FieldDeleted)
}

// Restore clears the soft-delete flag.
func (p *Product) Restore() {
	p.deleted = false
	p.deletedAt = nil
	p.deletedBy = ""
	p.changes.MarkDirty(FieldDeleted)
}

// IsOwnedBy reports whether userID is the product's seller.
func (p *Product) IsOwnedBy(userID string) bool {
	return p.sellerID == userID
}

// IsDiscontinued reports whether the product is in the terminal state.
func (p *Product) IsDiscontinued() bool {
	return p.status == StatusDiscontinued
}

// CanBeSold reports whether the product is currently purchasable.
func (p *Product) CanBeSold() bool {
	return p.isSellable && p.status == StatusActive
}

// IsSellableConsistent reports whether the stored sellable flag agrees with
// the status-derived value. A false result is a data defect.
func (p *Product) IsSellableConsistent() bool {
	return p.isSellable == p.status.IsSellable()
}

func (p *Product) setStatus(status ProductStatus, sellable bool) {
	p.status = status
	p.isSellable = sellable
	p.changes.MarkDirty(FieldStatus)
	p.changes.MarkDirty(FieldIsSellable)
	p.touch()
}

func (p *Product) touch() {
	p.updatedAt = p.clock.Now()
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidProductName.WithDetail("product name must not be blank")
	}

	if utf8.RuneCountInString(name) > maxNameLength {
		return ErrInvalidProductName.WithDetail(
			"product name must not exceed %d characters", maxNameLength)
	}

	return nil
}

func validateOrderQuantityBounds(minQty, maxQty int) error {
	if minQty < 1 {
		return ErrInvalidMinMaxOrderQuantity.WithDetail("minimum order quantity must be at least 1")
	}

	if maxQty < 1 {
		return ErrInvalidMinMaxOrderQuantity.WithDetail("maximum order quantity must be at least 1")
	}

	if minQty > maxQty {
		return ErrInvalidMinMaxOrderQuantity.WithDetail(
			"minimum order quantity (%d) must not exceed maximum (%d)", minQty, maxQty)
	}

	return nil
}
