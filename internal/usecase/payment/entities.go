package payment

import (
	paymentDomain "contrack-backend/internal/domain/payment"

	"github.com/shopspring/decimal"
)

type RecordPaymentInput struct {
	ContractID    string
	ScheduleID    string
	Amount        decimal.Decimal
	PayerID       string
	PayeeID       string
	PaymentMethod string
	TransactionID string
	Metadata      map[string]any
}

type UpdateStatusInput struct {
	PaymentID string
	Status    paymentDomain.Status
	ActorID   string
	// Metadata is merged into what the payment already carries.
	Metadata map[string]any
}

// ScheduleProgress is one milestone with what has been paid against it.
type ScheduleProgress struct {
	paymentDomain.Schedule
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

type Progress struct {
	ContractID         string                  `json:"contract_id"`
	TotalAmount        decimal.Decimal         `json:"total_amount"`
	TotalPaid          decimal.Decimal         `json:"total_paid"`
	RemainingAmount    decimal.Decimal         `json:"remaining_amount"`
	PercentageComplete decimal.Decimal         `json:"percentage_complete"`
	Upcoming           []ScheduleProgress      `json:"upcoming_payments"`
	Satisfied          []ScheduleProgress      `json:"satisfied_milestones"`
	CompletedPayments  []paymentDomain.Payment `json:"completed_payments"`
}

type Reminder struct {
	ScheduleID  string          `json:"schedule_id"`
	ContractID  string          `json:"contract_id"`
	Recipient   string          `json:"recipient"`
	Outstanding decimal.Decimal `json:"outstanding"`
}
