package domain

// ProductStatus represents the lifecycle status of a product.
//
// DRAFT is the initial state; DISCONTINUED is terminal. The enum values are
// the wire values carried by status-changed events.
type ProductStatus string

const (
	StatusDraft        ProductStatus = "DRAFT"
	StatusActive       ProductStatus = "ACTIVE"
	StatusSuspended    ProductStatus = "SUSPENDED"
	StatusOutOfStock   ProductStatus = "OUT_OF_STOCK"
	StatusDiscontinued ProductStatus = "DISCONTINUED"
)

// IsSellable reports whether products in this status can be sold.
func (s ProductStatus) IsSellable() bool {
	return s == StatusActive
}

// IsModifiable reports whether products in this status accept updates.
func (s ProductStatus) IsModifiable() bool {
	return s != StatusDiscontinued
}

// ParseStatus validates a stored or caller-supplied status value.
func ParseStatus(value string) (ProductStatus, error) {
	switch s := ProductStatus(value); s {
	case StatusDraft, StatusActive, StatusSuspended, StatusOutOfStock, StatusDiscontinued:
		return s, nil
	default:
		return "", ErrInvalidProductStatus.WithDetail("invalid product status: %q", value)
	}
}
