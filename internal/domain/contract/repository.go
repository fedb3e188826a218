package contract

import "context"

type Repository interface {
	Create(ctx context.Context, c *Contract) error
	GetByContractID(ctx context.Context, contractID string) (*Contract, error)
	GetByContractIDForUpdate(ctx context.Context, contractID string) (*Contract, error)
	Save(ctx context.Context, c *Contract) error

	// TransitionStatus moves the contract to `to` only while its status is one of `from`.
	// It reports false when the guard did not match.
	TransitionStatus(ctx context.Context, contractID string, from []Status, to Status, updates map[string]any) (bool, error)

	CountByClientAndStatus(ctx context.Context, clientID string, status Status) (int64, error)
	CountByVendorAndStatus(ctx context.Context, vendorID string, status Status) (int64, error)
	ListByClient(ctx context.Context, clientID string) ([]Contract, error)
	ListByVendor(ctx context.Context, vendorID string) ([]Contract, error)
}
