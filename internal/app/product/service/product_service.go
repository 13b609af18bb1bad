package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/light-bringer/product-service/internal/app/product/contracts"
	"github.com/light-bringer/product-service/internal/app/product/domain"
	"github.com/light-bringer/product-service/internal/pkg/clock"
)

// CreateProductCommand carries the input for product registration. HubID is
// resolved by the caller from the seller's profile before the command runs.
type CreateProductCommand struct {
	SellerID         string
	HubID            string
	Name             string
	Description      string
	PriceNumerator   int64
	PriceDenominator int64
	MinOrderQuantity int
	MaxOrderQuantity int
}

// UpdateProductCommand carries the input for a product update.
type UpdateProductCommand struct {
	ProductID        string
	Name             string
	Description      string
	PriceNumerator   int64
	PriceDenominator int64
}

// ProductsValidationResult reports a bulk existence check, keyed for order
// services that validate carts in one round trip.
type ProductsValidationResult struct {
	ValidProductIDs   []string
	InvalidProductIDs []string
	Errors            map[string]string
	AllValid          bool
}

// ProductService orchestrates the product lifecycle: every command loads the
// aggregate, mutates it in memory, persists, and only then publishes events.
// Event publication is fire-and-forget; a lost event never rolls back state.
type ProductService struct {
	repo      contracts.ProductRepository
	publisher contracts.ProductEventPublisher
	clock     clock.Clock
	logger    *zap.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(
	repo contracts.ProductRepository,
	publisher contracts.ProductEventPublisher,
	clk clock.Clock,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
		clock:     clk,
		logger:    logger,
	}
}

// CreateProduct registers a new product in DRAFT status and announces it.
func (s *ProductService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	price, err := domain.NewPrice(cmd.PriceNumerator, cmd.PriceDenominator)
	if err != nil {
		return nil, err
	}

	product, err := domain.NewProduct(
		uuid.NewString(),
		cmd.SellerID,
		cmd.Name,
		cmd.Description,
		price,
		cmd.MinOrderQuantity,
		cmd.MaxOrderQuantity,
		s.clock,
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product created",
		zap.String("product_id", product.ID()),
		zap.String("seller_id", product.SellerID()),
	)

	s.publisher.PublishProductCreated(ctx, contracts.ProductCreatedEvent{
		ProductID: product.ID(),
		SellerID:  product.SellerID(),
		HubID:     cmd.HubID,
		Name:      product.Name(),
		CreatedAt: product.CreatedAt(),
	})

	return product, nil
}

// UpdateProduct replaces a product's name, description and price.
func (s *ProductService) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}

	price, err := domain.NewPrice(cmd.PriceNumerator, cmd.PriceDenominator)
	if err != nil {
		return nil, err
	}

	if err := product.Update(cmd.Name, cmd.Description, price); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product updated", zap.String("product_id", product.ID()))

	s.publisher.PublishProductUpdated(ctx, contracts.ProductUpdatedEvent{
		ProductID: product.ID(),
		Name:      product.Name(),
		Price:     product.Price().String(),
		UpdatedAt: product.UpdatedAt(),
	})

	return product, nil
}

// DeleteProduct soft-deletes a product and announces the removal. The actor
// is recorded on the audit columns only.
func (s *ProductService) DeleteProduct(ctx context.Context, productID, actorID string) error {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, productID, actorID); err != nil {
		return err
	}

	s.logger.Info("product deleted",
		zap.String("product_id", productID),
		zap.String("deleted_by", actorID),
	)

	s.publisher.PublishProductDeleted(ctx, contracts.ProductDeletedEvent{
		ProductID: productID,
		SellerID:  product.SellerID(),
		DeletedAt: s.clock.Now(),
	})

	return nil
}

// ActivateProduct puts a product on sale. The status-changed event fires only
// when the status actually transitions.
func (s *ProductService) ActivateProduct(ctx context.Context, productID string) (*domain.Product, error) {
	return s.transition(ctx, productID, (*domain.Product).Activate, false)
}

// SuspendProduct pauses sales. Like activation, the event is conditional on a
// real transition.
func (s *ProductService) SuspendProduct(ctx context.Context, productID string) (*domain.Product, error) {
	return s.transition(ctx, productID, (*domain.Product).Suspend, false)
}

// DiscontinueProduct permanently retires a product. The event always fires so
// downstream consumers see the terminal transition.
func (s *ProductService) DiscontinueProduct(ctx context.Context, productID string) (*domain.Product, error) {
	return s.transition(ctx, productID, (*domain.Product).Discontinue, true)
}

// MarkAsOutOfStock moves a product to OUT_OF_STOCK in response to inventory
// depletion. Already-depleted products are left untouched so redelivered
// inventory events stay idempotent.
func (s *ProductService) MarkAsOutOfStock(ctx context.Context, productID string) error {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	if product.Status() == domain.StatusOutOfStock {
		s.logger.Info("product already out of stock, skipping",
			zap.String("product_id", productID),
		)
		return nil
	}

	oldStatus := product.Status()
	product.MarkOutOfStock()

	if err := s.repo.Save(ctx, product); err != nil {
		return err
	}

	s.logger.Info("product marked out of stock",
		zap.String("product_id", productID),
		zap.String("old_status", string(oldStatus)),
	)

	s.publishStatusChanged(ctx, product, oldStatus)
	return nil
}

// RestoreFromOutOfStock reactivates a product after restocking. Products not
// currently OUT_OF_STOCK are left untouched: a restock event for an active or
// suspended product carries no state to restore.
func (s *ProductService) RestoreFromOutOfStock(ctx context.Context, productID string) error {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	if product.Status() != domain.StatusOutOfStock {
		s.logger.Info("product not out of stock, skipping restore",
			zap.String("product_id", productID),
			zap.String("status", string(product.Status())),
		)
		return nil
	}

	oldStatus := product.Status()
	if err := product.Activate(); err != nil {
		return err
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return err
	}

	s.logger.Info("product restored from out of stock",
		zap.String("product_id", productID),
	)

	s.publishStatusChanged(ctx, product, oldStatus)
	return nil
}

// SetEventStatus flips the promotional-event flag.
func (s *ProductService) SetEventStatus(ctx context.Context, productID string, hasEvent bool) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	product.SetEventStatus(hasEvent)

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product event status set",
		zap.String("product_id", productID),
		zap.Bool("has_event", hasEvent),
	)

	return product, nil
}

// GetProduct retrieves one live product.
func (s *ProductService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	return s.repo.FindByID(ctx, productID)
}

// GetAllProducts retrieves every live product.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.FindAll(ctx)
}

// GetProductsWithPaging retrieves one page of live products.
func (s *ProductService) GetProductsWithPaging(ctx context.Context, page, size int) (*contracts.ProductPage, error) {
	return s.repo.FindAllPaged(ctx, page, size)
}

// SearchProducts finds products whose name contains the keyword, paged in
// memory since the substring match cannot use an index anyway.
func (s *ProductService) SearchProducts(ctx context.Context, keyword string, page, size int) (*contracts.ProductPage, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 20
	}

	matches, err := s.repo.FindByNameContaining(ctx, keyword)
	if err != nil {
		return nil, err
	}

	total := len(matches)
	start := page * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	totalPages := total / size
	if total%size != 0 {
		totalPages++
	}

	return &contracts.ProductPage{
		Products:   matches[start:end],
		Page:       page,
		Size:       size,
		TotalCount: int64(total),
		TotalPages: totalPages,
	}, nil
}

// GetProductsBySeller retrieves one page of a seller's products.
func (s *ProductService) GetProductsBySeller(ctx context.Context, sellerID string, page, size int) (*contracts.ProductPage, error) {
	return s.repo.FindBySellerIDPaged(ctx, sellerID, page, size)
}

// GetProductsBySellerID retrieves all of a seller's products.
func (s *ProductService) GetProductsBySellerID(ctx context.Context, sellerID string) ([]*domain.Product, error) {
	return s.repo.FindBySellerID(ctx, sellerID)
}

// GetProductsByStatus retrieves all products in a lifecycle status.
func (s *ProductService) GetProductsByStatus(ctx context.Context, status domain.ProductStatus) ([]*domain.Product, error) {
	return s.repo.FindByStatus(ctx, status)
}

// ExistsProduct checks whether a live product exists.
func (s *ProductService) ExistsProduct(ctx context.Context, productID string) (bool, error) {
	return s.repo.ExistsByID(ctx, productID)
}

// ValidateProducts checks that each product id refers to a live product.
// Validity is existence only; sellability is a per-order concern answered by
// ValidateOrderQuantity.
func (s *ProductService) ValidateProducts(ctx context.Context, productIDs []string) (*ProductsValidationResult, error) {
	result := &ProductsValidationResult{
		ValidProductIDs:   make([]string, 0, len(productIDs)),
		InvalidProductIDs: make([]string, 0),
		Errors:            make(map[string]string),
	}

	for _, id := range productIDs {
		exists, err := s.repo.ExistsByID(ctx, id)
		if err != nil {
			return nil, err
		}

		if !exists {
			result.InvalidProductIDs = append(result.InvalidProductIDs, id)
			result.Errors[id] = domain.ErrProductNotFound.Error()
			continue
		}

		result.ValidProductIDs = append(result.ValidProductIDs, id)
	}

	result.AllValid = len(result.InvalidProductIDs) == 0
	return result, nil
}

// ValidateOrderQuantity checks that a product is sellable and the quantity
// sits within its order bounds.
func (s *ProductService) ValidateOrderQuantity(ctx context.Context, productID string, quantity int) error {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	if !product.CanBeSold() {
		return domain.ErrProductNotSellable
	}

	return product.ValidateOrderQuantity(quantity)
}

// transition runs a lifecycle change. When alwaysPublish is false the
// status-changed event fires only if the status really moved.
func (s *ProductService) transition(
	ctx context.Context,
	productID string,
	mutate func(*domain.Product) error,
	alwaysPublish bool,
) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	oldStatus := product.Status()
	if err := mutate(product); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("product status changed",
		zap.String("product_id", product.ID()),
		zap.String("old_status", string(oldStatus)),
		zap.String("new_status", string(product.Status())),
	)

	if alwaysPublish || oldStatus != product.Status() {
		s.publishStatusChanged(ctx, product, oldStatus)
	}

	return product, nil
}

func (s *ProductService) publishStatusChanged(ctx context.Context, product *domain.Product, oldStatus domain.ProductStatus) {
	s.publisher.PublishProductStatusChanged(ctx, contracts.ProductStatusChangedEvent{
		ProductID: product.ID(),
		OldStatus: string(oldStatus),
		NewStatus: string(product.Status()),
		ChangedAt: product.UpdatedAt(),
	})
}
