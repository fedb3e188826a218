package scoring

import (
	"contrack-backend/internal/domain/contract"

	"github.com/shopspring/decimal"
)

const (
	baseScore     = 50
	FallbackScore = 60
)

var FallbackTier = contract.TierNeutral

// History is the contract track record that feeds a score.
type History struct {
	ClientSettled  int64 `json:"client_settled"`
	ClientDefaults int64 `json:"client_defaults"`
	VendorSettled  int64 `json:"vendor_settled"`
}

type Input struct {
	ContractValue decimal.Decimal
	ClientID      string
	VendorID      string
	// History is loaded from storage when nil.
	History *History
}

type Result struct {
	Score           int               `json:"score"`
	Tier            contract.RiskTier `json:"risk_tier"`
	PricingModifier decimal.Decimal   `json:"pricing_modifier"`
	Rationale       []string          `json:"rationale"`
	// Fallback is set when scoring failed and the neutral default was used.
	Fallback bool   `json:"fallback"`
	Error    string `json:"error,omitempty"`
}
