package pool

import (
	poolDomain "contrack-backend/internal/domain/pool"

	"github.com/shopspring/decimal"
)

type InvestmentResult struct {
	PoolID string           `json:"pool_id"`
	UnitID string           `json:"unit_id"`
	Amount decimal.Decimal  `json:"amount"`
	Units  decimal.Decimal  `json:"units_issued"`
	NAV    decimal.Decimal  `json:"nav"`
	Pool   *poolDomain.Pool `json:"pool"`
}

type RedemptionResult struct {
	PoolID       string           `json:"pool_id"`
	RedemptionID string           `json:"redemption_id"`
	Units        decimal.Decimal  `json:"units"`
	Amount       decimal.Decimal  `json:"amount"`
	NAV          decimal.Decimal  `json:"nav"`
	Pool         *poolDomain.Pool `json:"pool"`
}

type SettlementResult struct {
	Exposure  *poolDomain.Exposure           `json:"exposure"`
	Breakdown poolDomain.SettlementBreakdown `json:"breakdown"`
	NAV       decimal.Decimal                `json:"nav"`
}

type DefaultResult struct {
	Exposure *poolDomain.Exposure `json:"exposure"`
	Loss     decimal.Decimal      `json:"loss"`
	NAV      decimal.Decimal      `json:"nav"`
}

type RecoveryInput struct {
	ExposureID string
	Amount     decimal.Decimal
	// Full closes the exposure as RECOVERED; otherwise it stays DEFAULTED.
	Full    bool
	Notes   string
	ActorID string
}

type RecoveryResult struct {
	Exposure       *poolDomain.Exposure `json:"exposure"`
	TotalRecovered decimal.Decimal      `json:"total_recovered"`
	NAV            decimal.Decimal      `json:"nav"`
}

type RecoveryStatus struct {
	ExposureID         string                    `json:"exposure_id"`
	PoolID             string                    `json:"pool_id"`
	PoolName           string                    `json:"pool_name"`
	OriginalAmount     decimal.Decimal           `json:"original_amount"`
	RecoveredAmount    decimal.Decimal           `json:"recovered_amount"`
	Status             poolDomain.ExposureStatus `json:"status"`
	RecoveryPercentage decimal.Decimal           `json:"recovery_percentage"`
}

type InvestorHolding struct {
	poolDomain.Holding
	NetUnits     decimal.Decimal `json:"net_units"`
	NAV          decimal.Decimal `json:"nav"`
	CurrentValue decimal.Decimal `json:"current_value"`
}
