package mysql

import (
	"context"

	contractDomain "contrack-backend/internal/domain/contract"

	"gorm.io/gorm"
)

type ContractRepository struct{ db *gorm.DB }

func NewContractRepository(db *gorm.DB) *ContractRepository { return &ContractRepository{db: db} }

func (r *ContractRepository) Create(ctx context.Context, c *contractDomain.Contract) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ContractRepository) Save(ctx context.Context, c *contractDomain.Contract) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ContractRepository) GetByContractID(ctx context.Context, contractID string) (*contractDomain.Contract, error) {
	var out contractDomain.Contract
	if err := r.db.WithContext(ctx).Where("contract_id = ?", contractID).First(&out).Error; err != nil {
		return nil, notFound(err, contractDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *ContractRepository) GetByContractIDForUpdate(ctx context.Context, contractID string) (*contractDomain.Contract, error) {
	var out contractDomain.Contract
	if err := forUpdate(r.db.WithContext(ctx)).Where("contract_id = ?", contractID).First(&out).Error; err != nil {
		return nil, notFound(err, contractDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *ContractRepository) TransitionStatus(ctx context.Context, contractID string, from []contractDomain.Status, to contractDomain.Status, updates map[string]any) (bool, error) {
	set := map[string]any{"status": to}
	for k, v := range updates {
		set[k] = v
	}
	res := r.db.WithContext(ctx).
		Model(&contractDomain.Contract{}).
		Where("contract_id = ? AND status IN ?", contractID, from).
		Updates(set)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ContractRepository) CountByClientAndStatus(ctx context.Context, clientID string, status contractDomain.Status) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&contractDomain.Contract{}).
		Where("client_id = ? AND status = ?", clientID, status).
		Count(&n).Error
	return n, err
}

func (r *ContractRepository) CountByVendorAndStatus(ctx context.Context, vendorID string, status contractDomain.Status) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&contractDomain.Contract{}).
		Where("vendor_id = ? AND status = ?", vendorID, status).
		Count(&n).Error
	return n, err
}

func (r *ContractRepository) ListByClient(ctx context.Context, clientID string) ([]contractDomain.Contract, error) {
	var out []contractDomain.Contract
	err := r.db.WithContext(ctx).Where("client_id = ?", clientID).Order("id ASC").Find(&out).Error
	return out, err
}

func (r *ContractRepository) ListByVendor(ctx context.Context, vendorID string) ([]contractDomain.Contract, error) {
	var out []contractDomain.Contract
	err := r.db.WithContext(ctx).Where("vendor_id = ?", vendorID).Order("id ASC").Find(&out).Error
	return out, err
}
