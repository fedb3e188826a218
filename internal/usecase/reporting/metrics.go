package reporting

import (
	"time"

	"contrack-backend/internal/domain/contract"
	"contrack-backend/internal/domain/money"
	"contrack-backend/internal/domain/pool"

	"github.com/shopspring/decimal"
)

const ratioScale = 4

var day = decimal.NewFromInt(int64(24 * time.Hour / time.Second))

func open(s contract.Status) bool {
	return s == contract.StatusActive || s == contract.StatusInVerification
}

func average(sum decimal.Decimal, n int, scale int32) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return sum.DivRound(decimal.NewFromInt(int64(n)), scale)
}

// VendorMetricsOf folds a vendor's contracts. A contract counts as verified once it left DRAFT.
func VendorMetricsOf(vendorID string, cs []contract.Contract) VendorMetrics {
	m := VendorMetrics{VendorID: vendorID, TotalContracts: len(cs)}
	earnings, pending, total := decimal.Zero, decimal.Zero, decimal.Zero
	verified := 0
	for _, c := range cs {
		total = total.Add(c.Value)
		switch {
		case c.Status == contract.StatusActive:
			m.ActiveContracts++
		case c.Status == contract.StatusSettled:
			m.CompletedContracts++
			if c.SettlementAmount.Valid {
				earnings = earnings.Add(c.SettlementAmount.Decimal)
			}
		}
		if open(c.Status) {
			pending = pending.Add(c.Value)
		}
		if c.Status != contract.StatusDraft {
			verified++
		}
	}
	m.TotalEarnings = earnings
	m.PendingPayouts = pending
	m.AverageContractValue = average(total, len(cs), money.Scale)
	m.VerificationRate = average(decimal.NewFromInt(int64(verified)), len(cs), ratioScale)
	return m
}

// ClientMetricsOf folds a client's contracts. Settlement time is counted in whole days.
func ClientMetricsOf(clientID string, cs []contract.Contract) ClientMetrics {
	m := ClientMetrics{ClientID: clientID, TotalContracts: len(cs)}
	spent, pending, days := decimal.Zero, decimal.Zero, decimal.Zero
	timed := 0
	for _, c := range cs {
		if open(c.Status) {
			m.ActiveObligations++
			pending = pending.Add(c.Value)
		}
		if c.Status != contract.StatusSettled {
			continue
		}
		m.SettledContracts++
		if c.SettlementAmount.Valid {
			spent = spent.Add(c.SettlementAmount.Decimal)
		} else {
			spent = spent.Add(c.Value)
		}
		if c.SettledAt != nil {
			elapsed := decimal.NewFromInt(int64(c.SettledAt.Sub(c.CreatedAt) / time.Second))
			days = days.Add(elapsed.Div(day).Floor())
			timed++
		}
	}
	m.TotalSpent = spent
	m.PendingPayments = pending
	m.AverageSettlementDays = average(days, timed, 2)
	return m
}

// PoolMetricsOf reports a pool's capital and exposure book. Total return is capital
// above the par value of outstanding units.
func PoolMetricsOf(p *pool.Pool, exposures []pool.Exposure) PoolMetrics {
	m := PoolMetrics{
		PoolID:           p.PoolID,
		Name:             p.Name,
		TotalCapital:     p.TotalCapital,
		LockedCapital:    p.LockedCapital,
		AvailableCapital: p.AvailableCapital,
		CurrentNAV:       p.CurrentNAV,
		TotalUnits:       p.TotalUnits,
		TotalReturn:      p.TotalCapital.Sub(p.TotalUnits),
		ReturnPercentage: decimal.Zero,
	}
	for _, e := range exposures {
		switch e.Status {
		case pool.ExposureActive:
			m.ActiveExposures++
		case pool.ExposureSettled:
			m.SettledExposures++
		case pool.ExposureDefaulted:
			m.DefaultedExposures++
		case pool.ExposureRecovered:
			m.RecoveredExposures++
		}
	}
	if money.Positive(p.TotalCapital) {
		m.ReturnPercentage = m.TotalReturn.Mul(money.Hundred).DivRound(p.TotalCapital, ratioScale)
	}
	return m
}

// InvestorMetricsOf values each holding at its pool's NAV. Unrealized gains compare that
// value with the average cost of the units still held.
func InvestorMetricsOf(investorID string, holdings []pool.Holding, navs map[string]decimal.Decimal) InvestorMetrics {
	m := InvestorMetrics{
		InvestorID:      investorID,
		TotalInvested:   decimal.Zero,
		TotalRedeemed:   decimal.Zero,
		NetUnits:        decimal.Zero,
		CurrentValue:    decimal.Zero,
		UnrealizedGains: decimal.Zero,
	}
	basis := decimal.Zero
	for _, h := range holdings {
		m.PoolsInvested++
		m.TotalInvested = m.TotalInvested.Add(h.AmountPaid)
		m.TotalRedeemed = m.TotalRedeemed.Add(h.AmountRedeemed)
		net := h.NetUnits()
		m.NetUnits = m.NetUnits.Add(net)
		m.CurrentValue = m.CurrentValue.Add(money.Round(net.Mul(navs[h.PoolID])))
		if h.UnitsIssued.IsPositive() {
			basis = basis.Add(h.AmountPaid.Mul(net).DivRound(h.UnitsIssued, money.Scale))
		}
	}
	m.UnrealizedGains = m.CurrentValue.Sub(basis)
	return m
}
