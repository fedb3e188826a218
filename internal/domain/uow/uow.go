package uow

import (
	"context"

	"contrack-backend/internal/domain/contract"
	"contrack-backend/internal/domain/event"
	"contrack-backend/internal/domain/payment"
	"contrack-backend/internal/domain/pool"
	"contrack-backend/internal/domain/user"
)

// Repos are bound to one transaction.
type Repos struct {
	Contracts contract.Repository
	Payments  payment.Repository
	Pools     pool.Repository
	Exposures pool.ExposureRepository
	Events    event.Repository
	Users     user.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the pool row first, then pass it in
	WithinPoolTx(ctx context.Context, poolID string, fn func(r Repos, p *pool.Pool) error) error
	// lock the contract row first, then pass it in
	WithinContractTx(ctx context.Context, contractID string, fn func(r Repos, c *contract.Contract) error) error
}
