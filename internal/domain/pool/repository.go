package pool

import "context"

type Repository interface {
	Create(ctx context.Context, p *Pool) error
	GetByPoolID(ctx context.Context, poolID string) (*Pool, error)
	GetByPoolIDForUpdate(ctx context.Context, poolID string) (*Pool, error)
	// SaveVersioned writes p only while the stored version equals p.Version, then bumps it.
	SaveVersioned(ctx context.Context, p *Pool) error

	AppendUnit(ctx context.Context, u *Unit) error
	AppendRedemption(ctx context.Context, r *Redemption) error
	ListUnitsByInvestor(ctx context.Context, investorID string) ([]Unit, error)
	ListRedemptionsByInvestor(ctx context.Context, investorID string) ([]Redemption, error)
	ListUnitsByHolder(ctx context.Context, poolID, investorID string) ([]Unit, error)
	ListRedemptionsByHolder(ctx context.Context, poolID, investorID string) ([]Redemption, error)

	AppendNAV(ctx context.Context, s *NAVSnapshot) error
	ListNAV(ctx context.Context, poolID string) ([]NAVSnapshot, error)
}

type ExposureRepository interface {
	Create(ctx context.Context, e *Exposure) error
	GetByExposureID(ctx context.Context, exposureID string) (*Exposure, error)
	GetByExposureIDForUpdate(ctx context.Context, exposureID string) (*Exposure, error)
	Save(ctx context.Context, e *Exposure) error
	ListByContract(ctx context.Context, contractID string) ([]Exposure, error)
	ListByPool(ctx context.Context, poolID string) ([]Exposure, error)
}
