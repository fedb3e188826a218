package mysql

import (
	"context"

	"contrack-backend/internal/domain/apperr"
	poolDomain "contrack-backend/internal/domain/pool"

	"gorm.io/gorm"
)

type PoolRepository struct{ db *gorm.DB }

func NewPoolRepository(db *gorm.DB) *PoolRepository { return &PoolRepository{db: db} }

func (r *PoolRepository) Create(ctx context.Context, p *poolDomain.Pool) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PoolRepository) GetByPoolID(ctx context.Context, poolID string) (*poolDomain.Pool, error) {
	var out poolDomain.Pool
	if err := r.db.WithContext(ctx).Where("pool_id = ?", poolID).First(&out).Error; err != nil {
		return nil, notFound(err, poolDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *PoolRepository) GetByPoolIDForUpdate(ctx context.Context, poolID string) (*poolDomain.Pool, error) {
	var out poolDomain.Pool
	if err := forUpdate(r.db.WithContext(ctx)).Where("pool_id = ?", poolID).First(&out).Error; err != nil {
		return nil, notFound(err, poolDomain.ErrNotFound)
	}
	return &out, nil
}

// SaveVersioned is a compare-and-set on (pool_id, version).
func (r *PoolRepository) SaveVersioned(ctx context.Context, p *poolDomain.Pool) error {
	res := r.db.WithContext(ctx).
		Model(&poolDomain.Pool{}).
		Where("pool_id = ? AND version = ?", p.PoolID, p.Version).
		Updates(map[string]any{
			"total_capital":     p.TotalCapital,
			"locked_capital":    p.LockedCapital,
			"available_capital": p.AvailableCapital,
			"current_nav":       p.CurrentNAV,
			"total_units":       p.TotalUnits,
			"version":           p.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.From(apperr.ErrVersionConflict, "pool.SaveVersioned", "pool "+p.PoolID)
	}
	p.Version++
	return nil
}

func (r *PoolRepository) AppendUnit(ctx context.Context, u *poolDomain.Unit) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *PoolRepository) AppendRedemption(ctx context.Context, rd *poolDomain.Redemption) error {
	return r.db.WithContext(ctx).Create(rd).Error
}

func (r *PoolRepository) ListUnitsByInvestor(ctx context.Context, investorID string) ([]poolDomain.Unit, error) {
	var out []poolDomain.Unit
	err := r.db.WithContext(ctx).Where("investor_id = ?", investorID).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *PoolRepository) ListRedemptionsByInvestor(ctx context.Context, investorID string) ([]poolDomain.Redemption, error) {
	var out []poolDomain.Redemption
	err := r.db.WithContext(ctx).Where("investor_id = ?", investorID).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *PoolRepository) ListUnitsByHolder(ctx context.Context, poolID, investorID string) ([]poolDomain.Unit, error) {
	var out []poolDomain.Unit
	err := r.db.WithContext(ctx).Where("pool_id = ? AND investor_id = ?", poolID, investorID).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *PoolRepository) ListRedemptionsByHolder(ctx context.Context, poolID, investorID string) ([]poolDomain.Redemption, error) {
	var out []poolDomain.Redemption
	err := r.db.WithContext(ctx).Where("pool_id = ? AND investor_id = ?", poolID, investorID).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *PoolRepository) AppendNAV(ctx context.Context, s *poolDomain.NAVSnapshot) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *PoolRepository) ListNAV(ctx context.Context, poolID string) ([]poolDomain.NAVSnapshot, error) {
	var out []poolDomain.NAVSnapshot
	err := r.db.WithContext(ctx).Where("pool_id = ?", poolID).Order("id ASC").Find(&out).Error
	return out, err
}

type ExposureRepository struct{ db *gorm.DB }

func NewExposureRepository(db *gorm.DB) *ExposureRepository { return &ExposureRepository{db: db} }

func (r *ExposureRepository) Create(ctx context.Context, e *poolDomain.Exposure) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ExposureRepository) Save(ctx context.Context, e *poolDomain.Exposure) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *ExposureRepository) GetByExposureID(ctx context.Context, exposureID string) (*poolDomain.Exposure, error) {
	var out poolDomain.Exposure
	if err := r.db.WithContext(ctx).Where("exposure_id = ?", exposureID).First(&out).Error; err != nil {
		return nil, notFound(err, poolDomain.ErrExposureNotFound)
	}
	return &out, nil
}

func (r *ExposureRepository) GetByExposureIDForUpdate(ctx context.Context, exposureID string) (*poolDomain.Exposure, error) {
	var out poolDomain.Exposure
	if err := forUpdate(r.db.WithContext(ctx)).Where("exposure_id = ?", exposureID).First(&out).Error; err != nil {
		return nil, notFound(err, poolDomain.ErrExposureNotFound)
	}
	return &out, nil
}

func (r *ExposureRepository) ListByContract(ctx context.Context, contractID string) ([]poolDomain.Exposure, error) {
	var out []poolDomain.Exposure
	err := r.db.WithContext(ctx).Where("contract_id = ?", contractID).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *ExposureRepository) ListByPool(ctx context.Context, poolID string) ([]poolDomain.Exposure, error) {
	var out []poolDomain.Exposure
	err := r.db.WithContext(ctx).Where("pool_id = ?", poolID).Order("id ASC").Find(&out).Error
	return out, err
}
