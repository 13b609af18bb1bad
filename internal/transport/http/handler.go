// Package http exposes the product service over REST: a public read surface,
// a producer surface authenticated by the X-User-Id header, and an internal
// surface for service-to-service validation calls.
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/light-bringer/product-service/internal/app/product/contracts"
	"github.com/light-bringer/product-service/internal/app/product/domain"
	"github.com/light-bringer/product-service/internal/app/product/service"
)

const userIDHeader = "X-User-Id"

// ProductHandler wires HTTP routes to the product service.
type ProductHandler struct {
	service *service.ProductService
	users   contracts.UserClient
	logger  *zap.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(svc *service.ProductService, users contracts.UserClient, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		service: svc,
		users:   users,
		logger:  logger,
	}
}

// Register mounts all routes on the router. Fixed paths are registered before
// their parameterized siblings so /search is not captured by /{id}.
func (h *ProductHandler) Register(r *mux.Router) {
	// Public
	r.HandleFunc("/api/v1/products/search", h.searchProducts).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/products", h.listProducts).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/products/{id}", h.getProduct).Methods(http.MethodGet)

	// Producer
	r.HandleFunc("/api/v1/producer/products", h.createProduct).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/producer/products", h.listOwnProducts).Methods(http.MethodGet)
	r.HandleFunc("/api/v1/producer/products/{id}", h.updateProduct).Methods(http.MethodPut)
	r.HandleFunc("/api/v1/producer/products/{id}", h.deleteProduct).Methods(http.MethodDelete)
	r.HandleFunc("/api/v1/producer/products/{id}/activate", h.activateProduct).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/producer/products/{id}/suspend", h.suspendProduct).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/producer/products/{id}/discontinue", h.discontinueProduct).Methods(http.MethodPost)
	r.HandleFunc("/api/v1/producer/products/{id}/event", h.setEventStatus).Methods(http.MethodPatch)

	// Internal
	r.HandleFunc("/internal/v1/products/validate", h.validateProducts).Methods(http.MethodPost)
	r.HandleFunc("/internal/v1/products/{id}", h.getProduct).Methods(http.MethodGet)
	r.HandleFunc("/internal/v1/products/{id}/exists", h.existsProduct).Methods(http.MethodGet)
	r.HandleFunc("/internal/v1/products/{id}/validate-quantity", h.validateQuantity).Methods(http.MethodPost)
	r.HandleFunc("/internal/v1/sellers/{sellerId}/products", h.listSellerProducts).Methods(http.MethodGet)
}

func (h *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	page, size := pagination(r)

	result, err := h.service.GetProductsWithPaging(r.Context(), page, size)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toPageResponse(result))
}

func (h *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) searchProducts(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		writeBadRequest(w, "keyword query parameter is required")
		return
	}

	page, size := pagination(r)

	result, err := h.service.SearchProducts(r.Context(), keyword, page, size)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toPageResponse(result))
}

func (h *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	// The seller's hub must resolve before anything is written; a seller
	// without hub info cannot list products.
	info, err := h.users.GetUserInfo(r.Context(), sellerID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	price, err := domain.ParsePrice(req.Price)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	product, err := h.service.CreateProduct(r.Context(), service.CreateProductCommand{
		SellerID:         sellerID,
		HubID:            info.HubID,
		Name:             req.Name,
		Description:      req.Description,
		PriceNumerator:   price.Numerator(),
		PriceDenominator: price.Denominator(),
		MinOrderQuantity: req.MinOrderQuantity,
		MaxOrderQuantity: req.MaxOrderQuantity,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusCreated, toProductResponse(product))
}

func (h *ProductHandler) listOwnProducts(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	page, size := pagination(r)

	result, err := h.service.GetProductsBySeller(r.Context(), sellerID, page, size)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toPageResponse(result))
}

func (h *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}

	var req updateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	price, err := domain.ParsePrice(req.Price)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	product, err := h.service.UpdateProduct(r.Context(), service.UpdateProductCommand{
		ProductID:        mux.Vars(r)["id"],
		Name:             req.Name,
		Description:      req.Description,
		PriceNumerator:   price.Numerator(),
		PriceDenominator: price.Denominator(),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	actorID, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteProduct(r.Context(), mux.Vars(r)["id"], actorID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) activateProduct(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.ActivateProduct)
}

func (h *ProductHandler) suspendProduct(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.SuspendProduct)
}

func (h *ProductHandler) discontinueProduct(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.DiscontinueProduct)
}

func (h *ProductHandler) setEventStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}

	var req setEventStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	product, err := h.service.SetEventStatus(r.Context(), mux.Vars(r)["id"], req.HasEvent)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) existsProduct(w http.ResponseWriter, r *http.Request) {
	exists, err := h.service.ExistsProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, existsResponse{Exists: exists})
}

func (h *ProductHandler) validateProducts(w http.ResponseWriter, r *http.Request) {
	var req validateProductsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	result, err := h.service.ValidateProducts(r.Context(), req.ProductIDs)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, validateProductsResponse{
		ValidProductIDs:   result.ValidProductIDs,
		InvalidProductIDs: result.InvalidProductIDs,
		Errors:            result.Errors,
		AllValid:          result.AllValid,
	})
}

func (h *ProductHandler) validateQuantity(w http.ResponseWriter, r *http.Request) {
	var req validateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	if err := h.service.ValidateOrderQuantity(r.Context(), mux.Vars(r)["id"], req.Quantity); err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProductHandler) listSellerProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.GetProductsBySellerID(r.Context(), mux.Vars(r)["sellerId"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponses(products))
}

// transition runs a lifecycle command. The producer surface requires the
// identity header, but commands are not restricted to the owning seller.
func (h *ProductHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	run func(ctx context.Context, productID string) (*domain.Product, error),
) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}

	product, err := run(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, toProductResponse(product))
}

func (h *ProductHandler) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		writeUnauthorized(w, "missing "+userIDHeader+" header")
		return "", false
	}
	return userID, true
}

func pagination(r *http.Request) (int, int) {
	page := 0
	size := 20

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			page = n
		}
	}
	if v := r.URL.Query().Get("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			size = n
		}
	}

	return page, size
}
