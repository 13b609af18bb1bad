package m_product

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the products table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a product.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		Columns,
		[]interface{}{
			data.ProductID,
			data.SellerID,
			data.Name,
			data.Description,
			data.PriceNumerator,
			data.PriceDenominator,
			data.Status,
			data.IsSellable,
			data.HasEvent,
			data.MinOrderQuantity,
			data.MaxOrderQuantity,
			data.Version,
			data.CreatedAt,
			data.CreatedBy,
			data.UpdatedAt,
			data.UpdatedBy,
			data.DeletedAt,
			data.DeletedBy,
			data.IsDeleted,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating specific product fields.
// The updates map should contain column names as keys and new values.
func (m *Model) UpdateMut(productID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	// Key column first
	columns = append(columns, ProductID)
	values = append(values, productID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}

// DeleteMut creates a Spanner mutation for physically removing a product.
// Production code soft-deletes; this exists for test cleanup.
func (m *Model) DeleteMut(productID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{productID})
}
