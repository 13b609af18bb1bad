package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/product-service/internal/app/product/contracts"
	"github.com/light-bringer/product-service/internal/app/product/domain"
	"github.com/light-bringer/product-service/internal/app/product/service"
	"github.com/light-bringer/product-service/internal/pkg/clock"
)

type stubRepo struct {
	products map[string]*domain.Product
}

func newStubRepo() *stubRepo {
	return &stubRepo{products: make(map[string]*domain.Product)}
}

func (r *stubRepo) Save(_ context.Context, product *domain.Product) error {
	r.products[product.ID()] = product
	product.CommitVersion()
	return nil
}

func (r *stubRepo) FindByID(_ context.Context, productID string) (*domain.Product, error) {
	product, ok := r.products[productID]
	if !ok || product.IsDeleted() {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

func (r *stubRepo) FindAll(_ context.Context) ([]*domain.Product, error) {
	return r.matching(func(*domain.Product) bool { return true }), nil
}

func (r *stubRepo) FindBySellerID(_ context.Context, sellerID string) ([]*domain.Product, error) {
	return r.matching(func(p *domain.Product) bool { return p.SellerID() == sellerID }), nil
}

func (r *stubRepo) FindByStatus(_ context.Context, status domain.ProductStatus) ([]*domain.Product, error) {
	return r.matching(func(p *domain.Product) bool { return p.Status() == status }), nil
}

func (r *stubRepo) FindByNameContaining(_ context.Context, keyword string) ([]*domain.Product, error) {
	lower := strings.ToLower(keyword)
	return r.matching(func(p *domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name()), lower)
	}), nil
}

func (r *stubRepo) FindAllPaged(ctx context.Context, page, size int) (*contracts.ProductPage, error) {
	all, _ := r.FindAll(ctx)
	return &contracts.ProductPage{Products: all, Page: page, Size: size, TotalCount: int64(len(all)), TotalPages: 1}, nil
}

func (r *stubRepo) FindBySellerIDPaged(ctx context.Context, sellerID string, page, size int) (*contracts.ProductPage, error) {
	all, _ := r.FindBySellerID(ctx, sellerID)
	return &contracts.ProductPage{Products: all, Page: page, Size: size, TotalCount: int64(len(all)), TotalPages: 1}, nil
}

func (r *stubRepo) Delete(ctx context.Context, productID, deletedBy string) error {
	product, err := r.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	product.Delete(deletedBy)
	return nil
}

func (r *stubRepo) ExistsByID(_ context.Context, productID string) (bool, error) {
	product, ok := r.products[productID]
	return ok && !product.IsDeleted(), nil
}

func (r *stubRepo) matching(match func(*domain.Product) bool) []*domain.Product {
	out := make([]*domain.Product, 0)
	for _, p := range r.products {
		if !p.IsDeleted() && match(p) {
			out = append(out, p)
		}
	}
	return out
}

type noopPublisher struct{}

func (noopPublisher) PublishProductCreated(context.Context, contracts.ProductCreatedEvent)   {}
func (noopPublisher) PublishProductUpdated(context.Context, contracts.ProductUpdatedEvent)   {}
func (noopPublisher) PublishProductDeleted(context.Context, contracts.ProductDeletedEvent)   {}
func (noopPublisher) PublishProductStatusChanged(context.Context, contracts.ProductStatusChangedEvent) {
}

type stubUserClient struct {
	info *contracts.UserInfo
	err  error
}

func (c *stubUserClient) GetUserInfo(context.Context, string) (*contracts.UserInfo, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.info, nil
}

func newTestRouter(users contracts.UserClient) (*mux.Router, *stubRepo) {
	repo := newStubRepo()
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	svc := service.NewProductService(repo, noopPublisher{}, clk, zap.NewNop())

	router := mux.NewRouter()
	NewProductHandler(svc, users, zap.NewNop()).Register(router)
	return router, repo
}

func doRequest(router *mux.Router, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set(userIDHeader, userID)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createViaAPI(t *testing.T, router *mux.Router, sellerID, name string) productResponse {
	t.Helper()

	rec := doRequest(router, http.MethodPost, "/api/v1/producer/products", sellerID, createProductRequest{
		Name:             name,
		Description:      "test product",
		Price:            "1500",
		MinOrderQuantity: 1,
		MaxOrderQuantity: 100,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp productResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func okUserClient() *stubUserClient {
	return &stubUserClient{info: &contracts.UserInfo{HubID: "hub-1", CompanyID: "company-1"}}
}

func TestCreateProduct(t *testing.T) {
	t.Run("creates draft product", func(t *testing.T) {
		router, _ := newTestRouter(okUserClient())

		resp := createViaAPI(t, router, "seller-1", "Ceramic Mug")

		assert.NotEmpty(t, resp.ProductID)
		assert.Equal(t, "seller-1", resp.SellerID)
		assert.Equal(t, "DRAFT", resp.Status)
		assert.False(t, resp.IsSellable)
		assert.Equal(t, "1500.00", resp.Price)
	})

	t.Run("requires user header", func(t *testing.T) {
		router, _ := newTestRouter(okUserClient())

		rec := doRequest(router, http.MethodPost, "/api/v1/producer/products", "", createProductRequest{Name: "X", Price: "1"})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("aborts when hub info is missing", func(t *testing.T) {
		router, repo := newTestRouter(&stubUserClient{err: domain.ErrHubInfoNotFound})

		rec := doRequest(router, http.MethodPost, "/api/v1/producer/products", "seller-1", createProductRequest{
			Name:             "Mug",
			Price:            "1000",
			MinOrderQuantity: 1,
			MaxOrderQuantity: 10,
		})

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, repo.products)

		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "PRODUCT_004", resp.Code)
	})

	t.Run("accepts fractional prices", func(t *testing.T) {
		router, _ := newTestRouter(okUserClient())

		rec := doRequest(router, http.MethodPost, "/api/v1/producer/products", "seller-1", createProductRequest{
			Name:             "Mug",
			Price:            "2499.99",
			MinOrderQuantity: 1,
			MaxOrderQuantity: 10,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp productResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "2499.99", resp.Price)
	})

	t.Run("maps validation errors", func(t *testing.T) {
		router, _ := newTestRouter(okUserClient())

		for _, price := range []string{"0", "abc", ""} {
			rec := doRequest(router, http.MethodPost, "/api/v1/producer/products", "seller-1", createProductRequest{
				Name:             "Mug",
				Price:            price,
				MinOrderQuantity: 1,
				MaxOrderQuantity: 10,
			})

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "PRODUCT_102", resp.Code)
		}
	})
}

func TestGetProduct(t *testing.T) {
	router, _ := newTestRouter(okUserClient())
	created := createViaAPI(t, router, "seller-1", "Ceramic Mug")

	t.Run("found", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/api/v1/products/"+created.ProductID, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp productResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, created.ProductID, resp.ProductID)
	})

	t.Run("not found", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/api/v1/products/missing", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)

		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "PRODUCT_001", resp.Code)
	})
}

func TestSearchProducts(t *testing.T) {
	router, _ := newTestRouter(okUserClient())
	createViaAPI(t, router, "seller-1", "Red Mug")
	createViaAPI(t, router, "seller-1", "Green Plate")

	t.Run("requires keyword", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/api/v1/products/search", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("matches substring", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/api/v1/products/search?keyword=mug", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp productPageResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Products, 1)
		assert.Equal(t, "Red Mug", resp.Products[0].Name)
	})
}

func TestLifecycleEndpoints(t *testing.T) {
	router, _ := newTestRouter(okUserClient())
	created := createViaAPI(t, router, "seller-1", "Ceramic Mug")
	base := "/api/v1/producer/products/" + created.ProductID

	t.Run("activate", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, base+"/activate", "seller-1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp productResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "ACTIVE", resp.Status)
		assert.True(t, resp.IsSellable)
	})

	t.Run("requires user header", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, base+"/suspend", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("any authenticated user may transition", func(t *testing.T) {
		// The header identifies the caller but does not gate commands to the
		// owning seller.
		rec := doRequest(router, http.MethodPost, base+"/suspend", "seller-2", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp productResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "SUSPENDED", resp.Status)

		rec = doRequest(router, http.MethodPost, base+"/activate", "seller-1", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("discontinue then further transitions fail", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, base+"/discontinue", "seller-1", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doRequest(router, http.MethodPost, base+"/activate", "seller-1", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "PRODUCT_201", resp.Code)
	})
}

func TestUpdateAndDelete(t *testing.T) {
	router, _ := newTestRouter(okUserClient())
	created := createViaAPI(t, router, "seller-1", "Ceramic Mug")
	base := "/api/v1/producer/products/" + created.ProductID

	t.Run("update", func(t *testing.T) {
		rec := doRequest(router, http.MethodPut, base, "seller-1", updateProductRequest{
			Name:        "Ceramic Mug v2",
			Description: "new glaze",
			Price:       "1800.50",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp productResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "Ceramic Mug v2", resp.Name)
		assert.Equal(t, "1800.50", resp.Price)
	})

	t.Run("event flag", func(t *testing.T) {
		rec := doRequest(router, http.MethodPatch, base+"/event", "seller-1", setEventStatusRequest{HasEvent: true})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp productResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.HasEvent)
	})

	t.Run("delete", func(t *testing.T) {
		rec := doRequest(router, http.MethodDelete, base, "seller-1", nil)
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = doRequest(router, http.MethodGet, "/api/v1/products/"+created.ProductID, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestInternalEndpoints(t *testing.T) {
	router, _ := newTestRouter(okUserClient())
	created := createViaAPI(t, router, "seller-1", "Ceramic Mug")
	doRequest(router, http.MethodPost, "/api/v1/producer/products/"+created.ProductID+"/activate", "seller-1", nil)

	t.Run("exists", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/internal/v1/products/"+created.ProductID+"/exists", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp existsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Exists)

		rec = doRequest(router, http.MethodGet, "/internal/v1/products/missing/exists", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Exists)
	})

	t.Run("validate bulk", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/internal/v1/products/validate", "", validateProductsRequest{
			ProductIDs: []string{created.ProductID, "missing"},
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp validateProductsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.AllValid)
		assert.Equal(t, []string{created.ProductID}, resp.ValidProductIDs)
		assert.Equal(t, []string{"missing"}, resp.InvalidProductIDs)
	})

	t.Run("validate quantity", func(t *testing.T) {
		rec := doRequest(router, http.MethodPost, "/internal/v1/products/"+created.ProductID+"/validate-quantity", "", validateQuantityRequest{Quantity: 5})
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = doRequest(router, http.MethodPost, "/internal/v1/products/"+created.ProductID+"/validate-quantity", "", validateQuantityRequest{Quantity: 0})
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "PRODUCT_204", resp.Code)
	})

	t.Run("seller products", func(t *testing.T) {
		rec := doRequest(router, http.MethodGet, "/internal/v1/sellers/seller-1/products", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp []productResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp, 1)
	})
}
