package m_product

// Field name constants for the products table.
// These provide type-safe field references and prevent typos.
const (
	TableName = "products"

	ProductID        = "product_id"
	SellerID         = "seller_id"
	Name             = "name"
	Description      = "description"
	PriceNumerator   = "price_numerator"
	PriceDenominator = "price_denominator"
	Status           = "status"
	IsSellable       = "is_sellable"
	HasEvent         = "has_event"
	MinOrderQuantity = "min_order_quantity"
	MaxOrderQuantity = "max_order_quantity"
	Version          = "version"
	CreatedAt        = "created_at"
	CreatedBy        = "created_by"
	UpdatedAt        = "updated_at"
	UpdatedBy        = "updated_by"
	DeletedAt        = "deleted_at"
	DeletedBy        = "deleted_by"
	IsDeleted        = "is_deleted"
)

// Columns lists every column of the products table in storage order.
var Columns = []string{
	ProductID,
	SellerID,
	Name,
	Description,
	PriceNumerator,
	PriceDenominator,
	Status,
	IsSellable,
	HasEvent,
	MinOrderQuantity,
	MaxOrderQuantity,
	Version,
	CreatedAt,
	CreatedBy,
	UpdatedAt,
	UpdatedBy,
	DeletedAt,
	DeletedBy,
	IsDeleted,
}
