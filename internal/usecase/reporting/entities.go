package reporting

import "github.com/shopspring/decimal"

type VendorMetrics struct {
	VendorID             string          `json:"vendor_id"`
	TotalContracts       int             `json:"total_contracts"`
	ActiveContracts      int             `json:"active_contracts"`
	CompletedContracts   int             `json:"completed_contracts"`
	TotalEarnings        decimal.Decimal `json:"total_earnings"`
	PendingPayouts       decimal.Decimal `json:"pending_payouts"`
	AverageContractValue decimal.Decimal `json:"average_contract_value"`
	VerificationRate     decimal.Decimal `json:"verification_rate"`
}

type ClientMetrics struct {
	ClientID              string          `json:"client_id"`
	TotalContracts        int             `json:"total_contracts"`
	ActiveObligations     int             `json:"active_obligations"`
	SettledContracts      int             `json:"settled_contracts"`
	TotalSpent            decimal.Decimal `json:"total_spent"`
	PendingPayments       decimal.Decimal `json:"pending_payments"`
	AverageSettlementDays decimal.Decimal `json:"average_settlement_days"`
}

type PoolMetrics struct {
	PoolID             string          `json:"pool_id"`
	Name               string          `json:"name"`
	TotalCapital       decimal.Decimal `json:"total_capital"`
	LockedCapital      decimal.Decimal `json:"locked_capital"`
	AvailableCapital   decimal.Decimal `json:"available_capital"`
	CurrentNAV         decimal.Decimal `json:"current_nav"`
	TotalUnits         decimal.Decimal `json:"total_units"`
	ActiveExposures    int             `json:"active_exposures"`
	SettledExposures   int             `json:"settled_exposures"`
	DefaultedExposures int             `json:"defaulted_exposures"`
	RecoveredExposures int             `json:"recovered_exposures"`
	TotalReturn        decimal.Decimal `json:"total_return"`
	ReturnPercentage   decimal.Decimal `json:"return_percentage"`
}

type InvestorMetrics struct {
	InvestorID      string          `json:"investor_id"`
	TotalInvested   decimal.Decimal `json:"total_invested"`
	TotalRedeemed   decimal.Decimal `json:"total_redeemed"`
	NetUnits        decimal.Decimal `json:"net_units"`
	CurrentValue    decimal.Decimal `json:"current_value"`
	UnrealizedGains decimal.Decimal `json:"unrealized_gains"`
	PoolsInvested   int             `json:"pools_invested"`
}
