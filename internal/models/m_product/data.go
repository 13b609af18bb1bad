package m_product

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the products table.
type Data struct {
	ProductID        string             `spanner:"product_id"`
	SellerID         string             `spanner:"seller_id"`
	Name             string             `spanner:"name"`
	Description      string             `spanner:"description"`
	PriceNumerator   int64              `spanner:"price_numerator"`
	PriceDenominator int64              `spanner:"price_denominator"`
	Status           string             `spanner:"status"`
	IsSellable       bool               `spanner:"is_sellable"`
	HasEvent         bool               `spanner:"has_event"`
	MinOrderQuantity int64              `spanner:"min_order_quantity"`
	MaxOrderQuantity int64              `spanner:"max_order_quantity"`
	Version          int64              `spanner:"version"`
	CreatedAt        time.Time          `spanner:"created_at"`
	CreatedBy        string             `spanner:"created_by"`
	UpdatedAt        time.Time          `spanner:"updated_at"`
	UpdatedBy        string             `spanner:"updated_by"`
	DeletedAt        spanner.NullTime   `spanner:"deleted_at"`
	DeletedBy        spanner.NullString `spanner:"deleted_by"`
	IsDeleted        bool               `spanner:"is_deleted"`
}
