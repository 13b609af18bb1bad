package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"

	"github.com/light-bringer/product-service/internal/app/product/contracts"
	"github.com/light-bringer/product-service/internal/app/product/domain"
	"github.com/light-bringer/product-service/internal/models/m_product"
	"github.com/light-bringer/product-service/internal/pkg/clock"
	"github.com/light-bringer/product-service/internal/pkg/committer"
	"github.com/light-bringer/product-service/internal/pkg/query"
)

const defaultPageSize = 20

// ProductRepo implements ProductRepository for Spanner.
//
// Writes follow the mutation pattern: the model facade builds mutations, a
// CommitPlan applies them atomically, and updates go through an optimistic
// version check so concurrent read-modify-write sequences serialize.
type ProductRepo struct {
	client    *spanner.Client
	model     *m_product.Model
	committer *committer.Committer
	clock     clock.Clock
	logger    *zap.Logger
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(client *spanner.Client, clk clock.Clock, logger *zap.Logger) contracts.ProductRepository {
	return &ProductRepo{
		client:    client,
		model:     m_product.NewModel(),
		committer: committer.NewCommitter(client),
		clock:     clk,
		logger:    logger,
	}
}

// Save inserts a new product or updates the dirty fields of an existing one.
func (r *ProductRepo) Save(ctx context.Context, product *domain.Product) error {
	plan := committer.NewPlan()

	if product.IsNew() {
		data := r.domainToData(product)
		data.Version = 1
		plan.Add(r.model.InsertMut(data))

		if err := r.committer.Apply(ctx, plan); err != nil {
			return fmt.Errorf("failed to insert product %s: %w", product.ID(), err)
		}

		product.CommitVersion()
		return nil
	}

	updates := r.dirtyUpdates(product)
	if len(updates) == 0 {
		return nil
	}

	updates[m_product.UpdatedAt] = product.UpdatedAt()
	updates[m_product.Version] = product.Version() + 1
	plan.Add(r.model.UpdateMut(product.ID(), updates))

	err := r.committer.ApplyWithVersionCheck(
		ctx,
		m_product.TableName,
		spanner.Key{product.ID()},
		m_product.Version,
		product.Version(),
		plan,
	)
	if err != nil {
		return fmt.Errorf("failed to update product %s: %w", product.ID(), err)
	}

	product.CommitVersion()
	return nil
}

// FindByID retrieves a live product by ID, reconstructing the domain aggregate.
func (r *ProductRepo) FindByID(ctx context.Context, productID string) (*domain.Product, error) {
	row, err := r.client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{productID}, m_product.Columns)
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return nil, domain.ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to read product: %w", err)
	}

	var data m_product.Data
	if err := row.ToStruct(&data); err != nil {
		return nil, fmt.Errorf("failed to parse product: %w", err)
	}

	if data.IsDeleted {
		return nil, domain.ErrProductNotFound
	}

	return r.dataToDomain(&data)
}

// FindAll retrieves every live product, newest first.
func (r *ProductRepo) FindAll(ctx context.Context) ([]*domain.Product, error) {
	stmt := r.baseQuery().Build()
	return r.queryProducts(ctx, stmt)
}

// FindBySellerID retrieves all live products owned by a seller.
func (r *ProductRepo) FindBySellerID(ctx context.Context, sellerID string) ([]*domain.Product, error) {
	stmt := r.baseQuery().
		Where(query.Eq(m_product.SellerID, sellerID)).
		Build()
	return r.queryProducts(ctx, stmt)
}

// FindByStatus retrieves all live products in the given lifecycle status.
func (r *ProductRepo) FindByStatus(ctx context.Context, status domain.ProductStatus) ([]*domain.Product, error) {
	stmt := r.baseQuery().
		Where(query.Eq(m_product.Status, string(status))).
		Build()
	return r.queryProducts(ctx, stmt)
}

// FindByNameContaining retrieves live products whose name contains the
// keyword, case-insensitively.
func (r *ProductRepo) FindByNameContaining(ctx context.Context, keyword string) ([]*domain.Product, error) {
	stmt := r.baseQuery().
		Where(query.Like(m_product.Name, keyword)).
		Build()
	return r.queryProducts(ctx, stmt)
}

// FindAllPaged retrieves one page of live products, newest first.
func (r *ProductRepo) FindAllPaged(ctx context.Context, page, size int) (*contracts.ProductPage, error) {
	return r.queryPage(ctx, r.baseQuery(), page, size)
}

// FindBySellerIDPaged retrieves one page of a seller's live products.
func (r *ProductRepo) FindBySellerIDPaged(ctx context.Context, sellerID string, page, size int) (*contracts.ProductPage, error) {
	builder := r.baseQuery().Where(query.Eq(m_product.SellerID, sellerID))
	return r.queryPage(ctx, builder, page, size)
}

// Delete marks a product soft-deleted. The row stays in place so Restore can
// reverse the operation.
func (r *ProductRepo) Delete(ctx context.Context, productID, deletedBy string) error {
	product, err := r.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	now := r.clock.Now()
	updates := map[string]interface{}{
		m_product.IsDeleted: true,
		m_product.DeletedAt: spanner.NullTime{Time: now, Valid: true},
		m_product.DeletedBy: spanner.NullString{StringVal: deletedBy, Valid: true},
		m_product.UpdatedAt: now,
		m_product.Version:   product.Version() + 1,
	}

	plan := committer.NewPlan()
	plan.Add(r.model.UpdateMut(productID, updates))

	err = r.committer.ApplyWithVersionCheck(
		ctx,
		m_product.TableName,
		spanner.Key{productID},
		m_product.Version,
		product.Version(),
		plan,
	)
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", productID, err)
	}

	return nil
}

// ExistsByID checks whether a live product with the id exists.
func (r *ProductRepo) ExistsByID(ctx context.Context, productID string) (bool, error) {
	row, err := r.client.Single().ReadRow(ctx, m_product.TableName, spanner.Key{productID}, []string{
		m_product.ProductID,
		m_product.IsDeleted,
	})
	if err != nil {
		if spanner.ErrCode(err) == codes.NotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}

	var id string
	var deleted bool
	if err := row.Columns(&id, &deleted); err != nil {
		return false, fmt.Errorf("failed to parse product row: %w", err)
	}

	return !deleted, nil
}

// baseQuery selects live products, newest first.
func (r *ProductRepo) baseQuery() *query.Builder {
	return query.From(m_product.TableName).
		Select(m_product.Columns...).
		Where(query.Eq(m_product.IsDeleted, false)).
		OrderBy(m_product.CreatedAt, query.Desc)
}

// queryProducts executes a statement and reconstructs the matching aggregates.
func (r *ProductRepo) queryProducts(ctx context.Context, stmt spanner.Statement) ([]*domain.Product, error) {
	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	products := make([]*domain.Product, 0)

	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate products: %w", err)
		}

		var data m_product.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse product: %w", err)
		}

		product, err := r.dataToDomain(&data)
		if err != nil {
			return nil, err
		}

		products = append(products, product)
	}

	return products, nil
}

// queryPage executes a builder with pagination plus a matching count query.
func (r *ProductRepo) queryPage(ctx context.Context, builder *query.Builder, page, size int) (*contracts.ProductPage, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = defaultPageSize
	}

	stmt := builder.
		Limit(int64(size)).
		Offset(int64(page * size)).
		Build()

	products, err := r.queryProducts(ctx, stmt)
	if err != nil {
		return nil, err
	}

	total, err := r.queryCount(ctx, builder.Count().Build())
	if err != nil {
		return nil, err
	}

	totalPages := int(total) / size
	if int(total)%size != 0 {
		totalPages++
	}

	return &contracts.ProductPage{
		Products:   products,
		Page:       page,
		Size:       size,
		TotalCount: total,
		TotalPages: totalPages,
	}, nil
}

func (r *ProductRepo) queryCount(ctx context.Context, stmt spanner.Statement) (int64, error) {
	iter := r.client.Single().Query(ctx, stmt)
	defer iter.Stop()

	row, err := iter.Next()
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	var count int64
	if err := row.Column(0, &count); err != nil {
		return 0, fmt.Errorf("failed to parse count: %w", err)
	}

	return count, nil
}

// dirtyUpdates maps the aggregate's dirty fields to column updates.
func (r *ProductRepo) dirtyUpdates(product *domain.Product) map[string]interface{} {
	changes := product.Changes()
	updates := make(map[string]interface{})

	if changes.Dirty(domain.FieldName) {
		updates[m_product.Name] = product.Name()
	}

	if changes.Dirty(domain.FieldDescription) {
		updates[m_product.Description] = product.Description()
	}

	if changes.Dirty(domain.FieldPrice) {
		price := product.Price()
		updates[m_product.PriceNumerator] = price.Numerator()
		updates[m_product.PriceDenominator] = price.Denominator()
	}

	if changes.Dirty(domain.FieldStatus) {
		updates[m_product.Status] = string(product.Status())
	}

	if changes.Dirty(domain.FieldIsSellable) {
		updates[m_product.IsSellable] = product.IsSellable()
	}

	if changes.Dirty(domain.FieldHasEvent) {
		updates[m_product.HasEvent] = product.HasEvent()
	}

	if changes.Dirty(domain.FieldDeleted) {
		updates[m_product.IsDeleted] = product.IsDeleted()
		if deletedAt := product.DeletedAt(); deletedAt != nil {
			updates[m_product.DeletedAt] = spanner.NullTime{Time: *deletedAt, Valid: true}
		} else {
			updates[m_product.DeletedAt] = spanner.NullTime{}
		}
		if deletedBy := product.DeletedBy(); deletedBy != "" {
			updates[m_product.DeletedBy] = spanner.NullString{StringVal: deletedBy, Valid: true}
		} else {
			updates[m_product.DeletedBy] = spanner.NullString{}
		}
	}

	return updates
}

// domainToData converts a domain Product to database Data.
func (r *ProductRepo) domainToData(product *domain.Product) *m_product.Data {
	price := product.Price()

	data := &m_product.Data{
		ProductID:        product.ID(),
		SellerID:         product.SellerID(),
		Name:             product.Name(),
		Description:      product.Description(),
		PriceNumerator:   price.Numerator(),
		PriceDenominator: price.Denominator(),
		Status:           string(product.Status()),
		IsSellable:       product.IsSellable(),
		HasEvent:         product.HasEvent(),
		MinOrderQuantity: int64(product.MinOrderQuantity()),
		MaxOrderQuantity: int64(product.MaxOrderQuantity()),
		Version:          product.Version(),
		CreatedAt:        product.CreatedAt(),
		CreatedBy:        product.CreatedBy(),
		UpdatedAt:        product.UpdatedAt(),
		UpdatedBy:        product.UpdatedBy(),
		IsDeleted:        product.IsDeleted(),
	}

	if deletedAt := product.DeletedAt(); deletedAt != nil {
		data.DeletedAt = spanner.NullTime{Time: *deletedAt, Valid: true}
	}
	if deletedBy := product.DeletedBy(); deletedBy != "" {
		data.DeletedBy = spanner.NullString{StringVal: deletedBy, Valid: true}
	}

	return data
}

// dataToDomain converts database Data to a domain Product.
func (r *ProductRepo) dataToDomain(data *m_product.Data) (*domain.Product, error) {
	price, err := domain.NewPrice(data.PriceNumerator, data.PriceDenominator)
	if err != nil {
		return nil, fmt.Errorf("invalid stored price for product %s: %w", data.ProductID, err)
	}

	status, err := domain.ParseStatus(data.Status)
	if err != nil {
		return nil, fmt.Errorf("invalid stored status for product %s: %w", data.ProductID, err)
	}

	var deletedAt *time.Time
	if data.DeletedAt.Valid {
		deletedAt = &data.DeletedAt.Time
	}

	product := domain.Reconstruct(
		data.ProductID,
		data.SellerID,
		data.Name,
		data.Description,
		price,
		status,
		data.IsSellable,
		data.HasEvent,
		int(data.MinOrderQuantity),
		int(data.MaxOrderQuantity),
		data.Version,
		data.CreatedAt,
		data.CreatedBy,
		data.UpdatedAt,
		data.UpdatedBy,
		deletedAt,
		data.DeletedBy.StringVal,
		data.IsDeleted,
		r.clock,
	)

	if !product.IsSellableConsistent() {
		r.logger.Warn("sellable flag diverges from status",
			zap.String("product_id", product.ID()),
			zap.String("status", string(product.Status())),
			zap.Bool("is_sellable", product.IsSellable()),
		)
	}

	return product, nil
}
