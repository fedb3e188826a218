package pool

import "github.com/shopspring/decimal"

// Holding is an investor's position in one pool, derived from the append-only records.
type Holding struct {
	PoolID         string          `json:"pool_id"`
	InvestorID     string          `json:"investor_id"`
	UnitsIssued    decimal.Decimal `json:"units_issued"`
	UnitsRedeemed  decimal.Decimal `json:"units_redeemed"`
	AmountPaid     decimal.Decimal `json:"amount_paid"`
	AmountRedeemed decimal.Decimal `json:"amount_redeemed"`
}

// NetUnits is what the investor can still redeem.
func (h Holding) NetUnits() decimal.Decimal { return h.UnitsIssued.Sub(h.UnitsRedeemed) }

// HoldingOf folds unit and redemption records of one investor into a Holding.
func HoldingOf(poolID, investorID string, units []Unit, redemptions []Redemption) Holding {
	h := Holding{
		PoolID: poolID, InvestorID: investorID,
		UnitsIssued: decimal.Zero, UnitsRedeemed: decimal.Zero,
		AmountPaid: decimal.Zero, AmountRedeemed: decimal.Zero,
	}
	for _, u := range units {
		h.UnitsIssued = h.UnitsIssued.Add(u.Units)
		h.AmountPaid = h.AmountPaid.Add(u.AmountPaid)
	}
	for _, r := range redemptions {
		h.UnitsRedeemed = h.UnitsRedeemed.Add(r.Units)
		h.AmountRedeemed = h.AmountRedeemed.Add(r.Amount)
	}
	return h
}
