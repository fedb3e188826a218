package intake

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultCurrency        = "USD"
	DefaultWorkType        = "SERVICES"
	DefaultSettlementTerms = "Net-30"

	// MinInvestment is the smallest pool subscription accepted.
	MinInvestment = 100
)

type Document struct {
	Type string `json:"type" validate:"required,max=50"`
	URL  string `json:"url" validate:"required,url"`
	Name string `json:"name" validate:"max=200"`
}

type MilestoneRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Percentage  decimal.Decimal `json:"percentage" validate:"gte=0,lte=100"`
	DueDate     *time.Time      `json:"due_date"`
}

type ContractRequest struct {
	Title           string             `json:"title" validate:"required,min=3,max=200"`
	Description     string             `json:"description" validate:"max=2000"`
	Amount          decimal.Decimal    `json:"amount" validate:"gt=0"`
	ClientID        string             `json:"client_id" validate:"required,hex32"`
	VendorID        string             `json:"vendor_id" validate:"omitempty,hex32"`
	WorkType        string             `json:"work_type" validate:"oneof=GOODS SERVICES MIXED"`
	Currency        string             `json:"currency" validate:"currency"`
	SettlementTerms string             `json:"settlement_terms" validate:"max=100"`
	InvoiceNumber   string             `json:"invoice_number" validate:"max=100"`
	PONumber        string             `json:"po_number" validate:"max=100"`
	DueDate         *time.Time         `json:"due_date"`
	SupportingDocs  []Document         `json:"supporting_docs" validate:"omitempty,dive"`
	Milestones      []MilestoneRequest `json:"milestones" validate:"omitempty,dive"`
}

type PoolRequest struct {
	Name         string `json:"name" validate:"required,min=3,max=100"`
	Description  string `json:"description" validate:"max=500"`
	RiskCategory string `json:"risk_category" validate:"required,oneof=LOW_RISK MEDIUM_RISK HIGH_RISK SECTORAL"`
}

type InvestmentRequest struct {
	InvestorID string          `json:"investor_id" validate:"required,hex32"`
	Amount     decimal.Decimal `json:"amount" validate:"gt=0,gte=100"`
}

type RedemptionRequest struct {
	InvestorID string          `json:"investor_id" validate:"required,hex32"`
	Units      decimal.Decimal `json:"units" validate:"gt=0"`
}

type ExposureRequest struct {
	ContractID     string           `json:"contract_id" validate:"required,hex32"`
	ExposureAmount decimal.Decimal  `json:"exposure_amount" validate:"gt=0"`
	ActivationFee  *decimal.Decimal `json:"activation_fee" validate:"omitempty,gte=0"`
}

type UserRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Name  string `json:"name" validate:"omitempty,min=2,max=100"`
	Role  string `json:"role" validate:"required,oneof=CLIENT VENDOR INVESTOR ADMIN"`
}
