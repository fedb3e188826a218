package payment

import "context"

type Repository interface {
	CreateSchedules(ctx context.Context, s []Schedule) error
	ListSchedules(ctx context.Context, contractID string) ([]Schedule, error)
	GetSchedule(ctx context.Context, scheduleID string) (*Schedule, error)

	Create(ctx context.Context, p *Payment) error
	GetByPaymentID(ctx context.Context, paymentID string) (*Payment, error)
	GetByPaymentIDForUpdate(ctx context.Context, paymentID string) (*Payment, error)
	// UpdateStatus is a compare-and-set on the current status; false means the guard missed.
	UpdateStatus(ctx context.Context, paymentID string, from, to Status, updates map[string]any) (bool, error)
	ListByContract(ctx context.Context, contractID string) ([]Payment, error)
	ListBySchedule(ctx context.Context, scheduleID string) ([]Payment, error)
}
