// Package user calls the user service for seller profile lookups.
package user

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/light-bringer/product-service/internal/app/product/contracts"
	"github.com/light-bringer/product-service/internal/app/product/domain"
)

const requestTimeout = 5 * time.Second

// Client implements contracts.UserClient against the user service's internal
// REST API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a new Client for the given base URL.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
		logger:  logger,
	}
}

type userInfoResponse struct {
	HubID     string `json:"hubId"`
	CompanyID string `json:"companyId"`
}

// GetUserInfo resolves the seller's hub and company. A seller without hub
// assignment is reported as ErrHubInfoNotFound; transport failures map to
// ErrUserServiceUnavailable so callers can distinguish bad data from a down
// dependency.
func (c *Client) GetUserInfo(ctx context.Context, sellerID string) (*contracts.UserInfo, error) {
	url := fmt.Sprintf("%s/internal/v1/users/%s", c.baseURL, sellerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build user request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("user service call failed", zap.String("seller_id", sellerID), zap.Error(err))
		return nil, domain.ErrUserServiceUnavailable
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, domain.ErrHubInfoNotFound
	case resp.StatusCode != http.StatusOK:
		c.logger.Error("user service returned unexpected status",
			zap.String("seller_id", sellerID),
			zap.Int("status", resp.StatusCode),
		)
		return nil, domain.ErrUserServiceUnavailable
	}

	var body userInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode user response: %w", err)
	}

	if body.HubID == "" {
		return nil, domain.ErrHubInfoNotFound
	}

	return &contracts.UserInfo{
		HubID:     body.HubID,
		CompanyID: body.CompanyID,
	}, nil
}
