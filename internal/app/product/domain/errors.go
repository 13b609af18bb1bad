package domain

import "fmt"

// Error is a domain error carrying a stable machine-readable code and an
// HTTP-class hint so the transport layer can render a consistent payload
// without inspecting error internals.
type Error struct {
	Code       string
	Message    string
	HTTPStatus int
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithDetail returns an error with a more specific message that still
// matches the sentinel under errors.Is.
func (e *Error) WithDetail(format string, args ...interface{}) error {
	return &detailedError{base: e, detail: fmt.Sprintf(format, args...)}
}

type detailedError struct {
	base   *Error
	detail string
}

func (e *detailedError) Error() string {
	return fmt.Sprintf("%s: %s", e.base.Code, e.detail)
}

func (e *detailedError) Unwrap() error { return e.base }

// Domain errors as sentinel values
var (
	// Not found
	ErrProductNotFound = &Error{Code: "PRODUCT_001", Message: "product not found", HTTPStatus: 404}
	ErrHubInfoNotFound = &Error{Code: "PRODUCT_004", Message: "hub information not found for seller", HTTPStatus: 404}

	// Validation
	ErrInvalidProductName         = &Error{Code: "PRODUCT_101", Message: "product name must be between 1 and 100 characters", HTTPStatus: 400}
	ErrInvalidPrice               = &Error{Code: "PRODUCT_102", Message: "price must be greater than zero", HTTPStatus: 400}
	ErrInvalidDiscountRate        = &Error{Code: "PRODUCT_104", Message: "discount rate must be between 0 and 100", HTTPStatus: 400}
	ErrInvalidProductStatus       = &Error{Code: "PRODUCT_105", Message: "invalid product status", HTTPStatus: 400}
	ErrInvalidMinMaxOrderQuantity = &Error{Code: "PRODUCT_109", Message: "minimum order quantity must be at least 1 and not exceed the maximum", HTTPStatus: 400}

	// Business rules
	ErrProductAlreadyDiscontinued  = &Error{Code: "PRODUCT_201", Message: "product is already discontinued", HTTPStatus: 400}
	ErrProductNotSellable          = &Error{Code: "PRODUCT_202", Message: "product is not sellable", HTTPStatus: 400}
	ErrOrderQuantityBelowMinimum   = &Error{Code: "PRODUCT_204", Message: "order quantity is below the minimum", HTTPStatus: 400}
	ErrOrderQuantityExceedsMaximum = &Error{Code: "PRODUCT_205", Message: "order quantity exceeds the maximum", HTTPStatus: 400}

	// Forbidden
	ErrNotProductOwner                 = &Error{Code: "PRODUCT_301", Message: "user does not own this product", HTTPStatus: 403}
	ErrCannotModifyDiscontinuedProduct = &Error{Code: "PRODUCT_302", Message: "discontinued products cannot be modified", HTTPStatus: 403}

	// External dependencies
	ErrUserServiceUnavailable = &Error{Code: "PRODUCT_602", Message: "user service is unavailable", HTTPStatus: 503}
)
