package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/light-bringer/product-service/internal/app/product/domain"
)

// Transport-level error codes, outside the domain catalog.
const (
	codeBadRequest   = "PRODUCT_400"
	codeUnauthorized = "PRODUCT_401"
	codeInternal     = "PRODUCT_500"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError renders a domain error with its code and HTTP class; anything
// else is an opaque 500.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var domErr *domain.Error
	if errors.As(err, &domErr) {
		// Detail-wrapped errors carry a more specific message after the code.
		message := strings.TrimPrefix(err.Error(), domErr.Code+": ")
		respondJSON(w, domErr.HTTPStatus, errorResponse{Code: domErr.Code, Message: message})
		return
	}

	logger.Error("request failed", zap.Error(err))
	respondJSON(w, http.StatusInternalServerError, errorResponse{
		Code:    codeInternal,
		Message: "internal server error",
	})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Code: codeBadRequest, Message: message})
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusUnauthorized, errorResponse{Code: codeUnauthorized, Message: message})
}
