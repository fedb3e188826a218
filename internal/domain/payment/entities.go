package payment

import (
	"time"

	"contrack-backend/internal/domain/apperr"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

var (
	ErrNotFound         = apperr.New(apperr.KindNotFound, "", "payment not found")
	ErrScheduleNotFound = apperr.New(apperr.KindNotFound, "", "payment schedule not found")
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
	StatusCancelled  Status = "CANCELLED"
	StatusRefunded   Status = "REFUNDED"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusFailed, StatusCancelled, StatusRefunded},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

func (s Status) Terminal() bool { return s.Valid() && len(transitions[s]) == 0 }

func (s Status) CanTransitionTo(next Status) bool {
	for _, n := range transitions[s] {
		if n == next {
			return true
		}
	}
	return false
}

// Schedule is one milestone of a contract's payment plan.
type Schedule struct {
	ID          uint64          `gorm:"primaryKey;column:id" json:"-"`
	ScheduleID  string          `gorm:"column:schedule_id;size:32;uniqueIndex:ux_payment_schedules_schedule_id" json:"schedule_id"`
	ContractID  string          `gorm:"column:contract_id;size:32;not null;index:idx_payment_schedules_contract" json:"contract_id"`
	Name        string          `gorm:"column:name;size:200;not null" json:"name"`
	Description string          `gorm:"column:description;type:text" json:"description,omitempty"`
	Percentage  decimal.Decimal `gorm:"column:percentage;type:decimal(9,4);not null" json:"percentage"`
	Amount      decimal.Decimal `gorm:"column:amount;type:decimal(20,8);not null" json:"amount"`
	DueDate     *time.Time      `gorm:"column:due_date" json:"due_date,omitempty"`
	Order       int             `gorm:"column:sort_order;not null" json:"order"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Schedule) TableName() string { return "payment_schedules" }

type Payment struct {
	ID            uint64          `gorm:"primaryKey;column:id" json:"-"`
	PaymentID     string          `gorm:"column:payment_id;size:32;uniqueIndex:ux_payments_payment_id" json:"payment_id"`
	ContractID    string          `gorm:"column:contract_id;size:32;not null;index:idx_payments_contract" json:"contract_id"`
	ScheduleID    string          `gorm:"column:schedule_id;size:32;index:idx_payments_schedule" json:"schedule_id,omitempty"`
	Amount        decimal.Decimal `gorm:"column:amount;type:decimal(20,8);not null" json:"amount"`
	Status        Status          `gorm:"column:status;size:16;not null" json:"status"`
	PayerID       string          `gorm:"column:payer_id;size:32" json:"payer_id,omitempty"`
	PayeeID       string          `gorm:"column:payee_id;size:32" json:"payee_id,omitempty"`
	PaymentMethod string          `gorm:"column:payment_method;size:50" json:"payment_method,omitempty"`
	TransactionID string          `gorm:"column:transaction_id;size:100" json:"transaction_id,omitempty"`
	Metadata      datatypes.JSON  `gorm:"column:metadata" json:"metadata,omitempty"`
	PaidAt        *time.Time      `gorm:"column:paid_at" json:"paid_at,omitempty"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }
