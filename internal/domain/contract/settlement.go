package contract

import (
	"contrack-backend/internal/domain/money"

	"github.com/shopspring/decimal"
)

// PlatformFeeRate is charged on the settled amount of every contract.
var PlatformFeeRate = decimal.RequireFromString("0.025")

// Payout is how a settled contract amount splits between platform and vendor.
type Payout struct {
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PlatformFee  decimal.Decimal `json:"platform_fee"`
	VendorPayout decimal.Decimal `json:"vendor_payout"`
}

func PayoutFor(amount decimal.Decimal) Payout {
	fee := money.ApplyRate(amount, PlatformFeeRate)
	return Payout{TotalAmount: amount, PlatformFee: fee, VendorPayout: amount.Sub(fee)}
}
