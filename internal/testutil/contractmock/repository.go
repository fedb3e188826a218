package contractmock

import (
	"context"

	domain "contrack-backend/internal/domain/contract"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Getters default to context.Canceled, writers and counters to a zero no-op.
type Repo struct {
	CreateFn                   func(ctx context.Context, c *domain.Contract) error
	GetByContractIDFn          func(ctx context.Context, contractID string) (*domain.Contract, error)
	GetByContractIDForUpdateFn func(ctx context.Context, contractID string) (*domain.Contract, error)
	SaveFn                     func(ctx context.Context, c *domain.Contract) error
	TransitionStatusFn         func(ctx context.Context, contractID string, from []domain.Status, to domain.Status, updates map[string]any) (bool, error)
	CountByClientAndStatusFn   func(ctx context.Context, clientID string, status domain.Status) (int64, error)
	CountByVendorAndStatusFn   func(ctx context.Context, vendorID string, status domain.Status) (int64, error)
	ListByClientFn             func(ctx context.Context, clientID string) ([]domain.Contract, error)
	ListByVendorFn             func(ctx context.Context, vendorID string) ([]domain.Contract, error)
}

func (m *Repo) Create(ctx context.Context, c *domain.Contract) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) GetByContractID(ctx context.Context, contractID string) (*domain.Contract, error) {
	if m.GetByContractIDFn != nil {
		return m.GetByContractIDFn(ctx, contractID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByContractIDForUpdate(ctx context.Context, contractID string) (*domain.Contract, error) {
	if m.GetByContractIDForUpdateFn != nil {
		return m.GetByContractIDForUpdateFn(ctx, contractID)
	}
	return nil, context.Canceled
}

func (m *Repo) Save(ctx context.Context, c *domain.Contract) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, c)
	}
	return nil
}

func (m *Repo) TransitionStatus(ctx context.Context, contractID string, from []domain.Status, to domain.Status, updates map[string]any) (bool, error) {
	if m.TransitionStatusFn != nil {
		return m.TransitionStatusFn(ctx, contractID, from, to, updates)
	}
	return false, nil
}

func (m *Repo) CountByClientAndStatus(ctx context.Context, clientID string, status domain.Status) (int64, error) {
	if m.CountByClientAndStatusFn != nil {
		return m.CountByClientAndStatusFn(ctx, clientID, status)
	}
	return 0, nil
}

func (m *Repo) CountByVendorAndStatus(ctx context.Context, vendorID string, status domain.Status) (int64, error) {
	if m.CountByVendorAndStatusFn != nil {
		return m.CountByVendorAndStatusFn(ctx, vendorID, status)
	}
	return 0, nil
}

func (m *Repo) ListByClient(ctx context.Context, clientID string) ([]domain.Contract, error) {
	if m.ListByClientFn != nil {
		return m.ListByClientFn(ctx, clientID)
	}
	return nil, nil
}

func (m *Repo) ListByVendor(ctx context.Context, vendorID string) ([]domain.Contract, error) {
	if m.ListByVendorFn != nil {
		return m.ListByVendorFn(ctx, vendorID)
	}
	return nil, nil
}
