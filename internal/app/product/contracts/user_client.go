package contracts

import "context"

// UserInfo is the identity-enrichment record for a seller.
type UserInfo struct {
	HubID     string
	CompanyID string
}

// UserClient resolves a seller to its hub/company assignment. A seller
// without a hub is a configuration error (ErrHubInfoNotFound) and aborts
// product creation before any mutation.
type UserClient interface {
	GetUserInfo(ctx context.Context, sellerID string) (*UserInfo, error)
}
