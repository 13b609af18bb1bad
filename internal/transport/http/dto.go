package http

import (
	"time"

	"github.com/light-bringer/product-service/internal/app/product/contracts"
	"github.com/light-bringer/product-service/internal/app/product/domain"
)

// Price rides the wire as a decimal string ("2499.99") so fractional
// amounts survive the trip into the rational representation.
type createProductRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	Price            string `json:"price"`
	MinOrderQuantity int    `json:"minOrderQuantity"`
	MaxOrderQuantity int    `json:"maxOrderQuantity"`
}

type updateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
}

type setEventStatusRequest struct {
	HasEvent bool `json:"hasEvent"`
}

type validateProductsRequest struct {
	ProductIDs []string `json:"productIds"`
}

type validateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type productResponse struct {
	ProductID        string    `json:"productId"`
	SellerID         string    `json:"sellerId"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	Price            string    `json:"price"`
	Status           string    `json:"status"`
	IsSellable       bool      `json:"isSellable"`
	HasEvent         bool      `json:"hasEvent"`
	MinOrderQuantity int       `json:"minOrderQuantity"`
	MaxOrderQuantity int       `json:"maxOrderQuantity"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type productPageResponse struct {
	Products   []productResponse `json:"products"`
	Page       int               `json:"page"`
	Size       int               `json:"size"`
	TotalCount int64             `json:"totalCount"`
	TotalPages int               `json:"totalPages"`
}

type existsResponse struct {
	Exists bool `json:"exists"`
}

type validateProductsResponse struct {
	ValidProductIDs   []string          `json:"validProductIds"`
	InvalidProductIDs []string          `json:"invalidProductIds"`
	Errors            map[string]string `json:"errors"`
	AllValid          bool              `json:"allValid"`
}

func toProductResponse(p *domain.Product) productResponse {
	return productResponse{
		ProductID:        p.ID(),
		SellerID:         p.SellerID(),
		Name:             p.Name(),
		Description:      p.Description(),
		Price:            p.Price().String(),
		Status:           string(p.Status()),
		IsSellable:       p.IsSellable(),
		HasEvent:         p.HasEvent(),
		MinOrderQuantity: p.MinOrderQuantity(),
		MaxOrderQuantity: p.MaxOrderQuantity(),
		CreatedAt:        p.CreatedAt(),
		UpdatedAt:        p.UpdatedAt(),
	}
}

func toProductResponses(products []*domain.Product) []productResponse {
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

func toPageResponse(page *contracts.ProductPage) productPageResponse {
	return productPageResponse{
		Products:   toProductResponses(page.Products),
		Page:       page.Page,
		Size:       page.Size,
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages,
	}
}
