package contracts

import (
	"context"

	"github.com/light-bringer/product-service/internal/app/product/domain"
)

// ProductPage is one page of products, ordered newest-first.
type ProductPage struct {
	Products   []*domain.Product
	Page       int
	Size       int
	TotalCount int64
	TotalPages int
}

// ProductRepository defines the persistence port for the Product aggregate.
// Soft-deleted products are invisible to every read except FindByID callers
// going through Save/Delete internals; list queries and existence checks
// exclude them.
type ProductRepository interface {
	// Save inserts the product when it is new, otherwise updates the dirty
	// fields of the stored record. On success the aggregate's version is
	// advanced and its change tracker reset.
	Save(ctx context.Context, product *domain.Product) error

	// FindByID returns the live (non-deleted) product or ErrProductNotFound.
	FindByID(ctx context.Context, productID string) (*domain.Product, error)

	FindAll(ctx context.Context) ([]*domain.Product, error)
	FindBySellerID(ctx context.Context, sellerID string) ([]*domain.Product, error)
	FindByStatus(ctx context.Context, status domain.ProductStatus) ([]*domain.Product, error)

	// FindByNameContaining matches the keyword case-insensitively as a
	// substring of the product name.
	FindByNameContaining(ctx context.Context, keyword string) ([]*domain.Product, error)

	FindAllPaged(ctx context.Context, page, size int) (*ProductPage, error)
	FindBySellerIDPaged(ctx context.Context, sellerID string, page, size int) (*ProductPage, error)

	// Delete marks the product soft-deleted with the given actor.
	Delete(ctx context.Context, productID, deletedBy string) error

	// ExistsByID reports whether a live product with the id exists.
	ExistsByID(ctx context.Context, productID string) (bool, error)
}
