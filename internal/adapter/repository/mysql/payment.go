package mysql

import (
	"context"

	paymentDomain "contrack-backend/internal/domain/payment"

	"gorm.io/gorm"
)

type PaymentRepository struct{ db *gorm.DB }

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) CreateSchedules(ctx context.Context, s []paymentDomain.Schedule) error {
	if len(s) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&s).Error
}

func (r *PaymentRepository) ListSchedules(ctx context.Context, contractID string) ([]paymentDomain.Schedule, error) {
	var out []paymentDomain.Schedule
	err := r.db.WithContext(ctx).Where("contract_id = ?", contractID).Order("sort_order ASC").Find(&out).Error
	return out, err
}

func (r *PaymentRepository) GetSchedule(ctx context.Context, scheduleID string) (*paymentDomain.Schedule, error) {
	var out paymentDomain.Schedule
	if err := r.db.WithContext(ctx).Where("schedule_id = ?", scheduleID).First(&out).Error; err != nil {
		return nil, notFound(err, paymentDomain.ErrScheduleNotFound)
	}
	return &out, nil
}

func (r *PaymentRepository) Create(ctx context.Context, p *paymentDomain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) GetByPaymentID(ctx context.Context, paymentID string) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	if err := r.db.WithContext(ctx).Where("payment_id = ?", paymentID).First(&out).Error; err != nil {
		return nil, notFound(err, paymentDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *PaymentRepository) GetByPaymentIDForUpdate(ctx context.Context, paymentID string) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	if err := forUpdate(r.db.WithContext(ctx)).Where("payment_id = ?", paymentID).First(&out).Error; err != nil {
		return nil, notFound(err, paymentDomain.ErrNotFound)
	}
	return &out, nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, paymentID string, from, to paymentDomain.Status, updates map[string]any) (bool, error) {
	set := map[string]any{"status": to}
	for k, v := range updates {
		set[k] = v
	}
	res := r.db.WithContext(ctx).
		Model(&paymentDomain.Payment{}).
		Where("payment_id = ? AND status = ?", paymentID, from).
		Updates(set)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PaymentRepository) ListByContract(ctx context.Context, contractID string) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	err := r.db.WithContext(ctx).Where("contract_id = ?", contractID).Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *PaymentRepository) ListBySchedule(ctx context.Context, scheduleID string) ([]paymentDomain.Payment, error) {
	var out []paymentDomain.Payment
	err := r.db.WithContext(ctx).Where("schedule_id = ?", scheduleID).Order("id ASC").Find(&out).Error
	return out, err
}
