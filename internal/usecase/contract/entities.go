package contract

import (
	contractDomain "contrack-backend/internal/domain/contract"
	"contrack-backend/internal/domain/event"
	paymentDomain "contrack-backend/internal/domain/payment"
	poolDomain "contrack-backend/internal/domain/pool"

	"github.com/shopspring/decimal"
)

type CreateResult struct {
	ContractID      string                   `json:"contract_id"`
	Status          contractDomain.Status    `json:"status"`
	Score           int                      `json:"score"`
	RiskTier        contractDomain.RiskTier  `json:"risk_tier"`
	PricingModifier decimal.Decimal          `json:"pricing_modifier"`
	Warnings        []string                 `json:"warnings,omitempty"`
	Schedules       []paymentDomain.Schedule `json:"schedules,omitempty"`
}

type Details struct {
	*contractDomain.Contract
	Exposures []poolDomain.Exposure `json:"exposures"`
	Artifacts []event.Artifact      `json:"artifacts"`
}

type SettleInput struct {
	ContractID string
	// ActualAmount overrides the contract value when set.
	ActualAmount *decimal.Decimal
	ActorID      string
}

type SettlementOutcome struct {
	ContractID       string                `json:"contract_id"`
	Status           contractDomain.Status `json:"status"`
	Payout           contractDomain.Payout `json:"breakdown"`
	PoolReturns      decimal.Decimal       `json:"pool_returns"`
	ExposuresSettled int                   `json:"exposures_settled"`
}

type CancelOutcome struct {
	ContractID         string                `json:"contract_id"`
	Status             contractDomain.Status `json:"status"`
	Reason             string                `json:"reason"`
	ExposuresDefaulted int                   `json:"exposures_defaulted"`
	PoolLoss           decimal.Decimal       `json:"pool_loss"`
}
