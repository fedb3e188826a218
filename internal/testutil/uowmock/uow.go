package uowmock

import (
	"context"
	"errors"

	"contrack-backend/internal/domain/contract"
	"contrack-backend/internal/domain/pool"
	"contrack-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn         func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinPoolTxFn     func(ctx context.Context, poolID string, fn func(r uow.Repos, p *pool.Pool) error) error
	WithinContractTxFn func(ctx context.Context, contractID string, fn func(r uow.Repos, c *contract.Contract) error) error
}

// Passthrough runs every callback directly against repos, locking nothing.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error { return fn(repos) },
		WithinPoolTxFn: func(ctx context.Context, poolID string, fn func(uow.Repos, *pool.Pool) error) error {
			p, err := repos.Pools.GetByPoolIDForUpdate(ctx, poolID)
			if err != nil {
				return err
			}
			return fn(repos, p)
		},
		WithinContractTxFn: func(ctx context.Context, contractID string, fn func(uow.Repos, *contract.Contract) error) error {
			c, err := repos.Contracts.GetByContractIDForUpdate(ctx, contractID)
			if err != nil {
				return err
			}
			return fn(repos, c)
		},
	}
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinPoolTx(ctx context.Context, poolID string, fn func(r uow.Repos, p *pool.Pool) error) error {
	if m.WithinPoolTxFn != nil {
		return m.WithinPoolTxFn(ctx, poolID, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinContractTx(ctx context.Context, contractID string, fn func(r uow.Repos, c *contract.Contract) error) error {
	if m.WithinContractTxFn != nil {
		return m.WithinContractTxFn(ctx, contractID, fn)
	}
	return errUnimplemented
}
